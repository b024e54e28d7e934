// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/cgen/pkg/types"
)

const defaultContextLines = 2

// FormatReport renders diagnostics against the text they refer to, with
// numbered context lines around each location. A contextLines of zero uses
// the default.
func FormatReport(diags []types.Diagnostic, content []byte, contextLines int) string {
	if contextLines == 0 {
		contextLines = defaultContextLines
	}

	lines := strings.Split(string(content), "\n")
	var buf strings.Builder
	for _, d := range diags {
		buf.WriteString(d.String())
		buf.WriteString("\n")
		buf.WriteString(codeContext(lines, d.Line, contextLines))
	}
	return buf.String()
}

// codeContext returns numbered lines around errorLine, marking the line itself.
func codeContext(lines []string, errorLine, contextLines int) string {
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}
	start := errorLine - contextLines - 1 // Convert to 0-based
	if start < 0 {
		start = 0
	}
	end := errorLine + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	for i := start; i < end; i++ {
		lineNum := i + 1
		marker := "  "
		if lineNum == errorLine {
			marker = "> "
		}
		buf.WriteString(fmt.Sprintf("%s%4d │ %s\n", marker, lineNum, lines[i]))
	}
	return buf.String()
}
