// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across cgen packages.
package types

// SymbolKind identifies the category of a top-level C definition.
type SymbolKind int

const (
	Function  SymbolKind = iota // Function definition or prototype
	Struct                      // struct specifier with a body
	Enum                        // enum specifier with a body
	Typedef                     // typedef name
	Variable                    // File-scope variable
)

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "Function"
	case Struct:
		return "Struct"
	case Enum:
		return "Enum"
	case Typedef:
		return "Typedef"
	case Variable:
		return "Variable"
	default:
		return "Unknown"
	}
}

// Definition is a symbol found in rendered C text.
type Definition struct {
	Name string     // Identifier
	Kind SymbolKind // Category
	Line int        // Line number (1-based)
}
