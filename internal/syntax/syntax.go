// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package syntax parses rendered C text with tree-sitter. It reports parse
// errors without invoking a compiler and lists the top-level definitions a
// file provides.
package syntax

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/petar-djukic/cgen/pkg/types"
)

const maxSnippetLength = 40

// defQuery captures top-level definitions. The capture name selects the kind.
const defQuery = `
	(function_definition declarator: (function_declarator declarator: (identifier) @function))
	(function_definition declarator: (pointer_declarator declarator: (function_declarator declarator: (identifier) @function)))
	(declaration declarator: (function_declarator declarator: (identifier) @function))
	(declaration declarator: (pointer_declarator declarator: (function_declarator declarator: (identifier) @function)))
	(struct_specifier name: (type_identifier) @struct body: (field_declaration_list))
	(enum_specifier name: (type_identifier) @enum body: (enumerator_list))
	(type_definition declarator: (type_identifier) @typedef)
	(declaration declarator: (identifier) @variable)
	(declaration declarator: (init_declarator declarator: (identifier) @variable))
	(declaration declarator: (init_declarator declarator: (array_declarator declarator: (identifier) @variable)))
	(declaration declarator: (array_declarator declarator: (identifier) @variable))
`

var captureKinds = map[string]types.SymbolKind{
	"function": types.Function,
	"struct":   types.Struct,
	"enum":     types.Enum,
	"typedef":  types.Typedef,
	"variable": types.Variable,
}

// Check parses content as C and returns one diagnostic per error or missing
// node. An empty result means tree-sitter accepted the text; it does not mean
// a compiler would.
func Check(ctx context.Context, filePath string, content []byte) ([]types.Diagnostic, error) {
	root, err := sitter.ParseCtx(ctx, content, c.GetLanguage())
	if err != nil {
		return nil, errors.Wrap(err, "parsing C source")
	}
	if root == nil || !root.HasError() {
		return nil, nil
	}

	var diags []types.Diagnostic
	walkErrors(root, func(n *sitter.Node) {
		p := n.StartPoint()
		d := types.Diagnostic{
			FilePath: filePath,
			Line:     int(p.Row) + 1,
			Column:   int(p.Column) + 1,
			Severity: types.SeverityError,
		}
		if n.IsMissing() {
			d.Message = fmt.Sprintf("missing %s", n.Type())
		} else {
			d.Message = fmt.Sprintf("syntax error near %q", snippet(n.Content(content)))
		}
		diags = append(diags, d)
	})
	return diags, nil
}

// walkErrors visits error and missing nodes, skipping subtrees without errors.
// The children of an error node are not visited again.
func walkErrors(n *sitter.Node, visit func(*sitter.Node)) {
	if n.IsError() || n.IsMissing() {
		visit(n)
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walkErrors(n.Child(i), visit)
	}
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSnippetLength {
		s = s[:maxSnippetLength-3] + "..."
	}
	return s
}

// Definitions returns the file-scope functions, structs, enums, typedefs and
// variables declared in content, in source order. Declarations inside
// function bodies are ignored.
func Definitions(ctx context.Context, content []byte) ([]types.Definition, error) {
	lang := c.GetLanguage()
	root, err := sitter.ParseCtx(ctx, content, lang)
	if err != nil {
		return nil, errors.Wrap(err, "parsing C source")
	}

	q, err := sitter.NewQuery([]byte(defQuery), lang)
	if err != nil {
		return nil, errors.Wrap(err, "compiling definition query")
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	seen := make(map[string]bool)
	var defs []types.Definition
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range m.Captures {
			if insideBody(capture.Node) {
				continue
			}
			kind := captureKinds[q.CaptureNameForId(capture.Index)]
			d := types.Definition{
				Name: capture.Node.Content(content),
				Kind: kind,
				Line: int(capture.Node.StartPoint().Row) + 1,
			}
			key := fmt.Sprintf("%s:%d:%d", d.Name, d.Kind, d.Line)
			if d.Name == "" || seen[key] {
				continue
			}
			seen[key] = true
			defs = append(defs, d)
		}
	}
	return defs, nil
}

// insideBody reports whether n is nested in a function body.
func insideBody(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "compound_statement" {
			return true
		}
	}
	return false
}
