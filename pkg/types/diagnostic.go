// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError   Severity = iota // Output is not valid C
	SeverityWarning                 // Output is valid but suspicious
	SeverityNote                    // Supplementary information
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseSeverity maps compiler wording to a Severity. Unknown words, including
// "fatal error", count as errors.
func ParseSeverity(s string) Severity {
	switch s {
	case "warning":
		return SeverityWarning
	case "note":
		return SeverityNote
	default:
		return SeverityError
	}
}

// Diagnostic is a problem located in a rendered file, reported either by the
// tree-sitter syntax check or by a C compiler.
type Diagnostic struct {
	FilePath string   // File the diagnostic refers to
	Line     int      // Line number (1-based)
	Column   int      // Column number (1-based, 0 if not available)
	Severity Severity // Error, warning or note
	Message  string   // Diagnostic text
}

func (d Diagnostic) String() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.FilePath, d.Line, d.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.FilePath, d.Line, d.Severity, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
