// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path"
	"strings"
)

const maxSubjectLength = 72

// Message builds the commit message for regenerating files from source:
//
//	chore(cgen): regenerate foo.h
//
//	Source: foo.yaml
//	Files:
//	- include/foo.h
//
//	Generated-By: cgen
func Message(source string, files []string) string {
	var names []string
	for _, f := range files {
		names = append(names, path.Base(f))
	}

	subject := "chore(cgen): regenerate " + strings.Join(names, ", ")
	if len(subject) > maxSubjectLength {
		subject = fmt.Sprintf("chore(cgen): regenerate %d files", len(files))
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}

	var b strings.Builder
	b.WriteString(subject)
	b.WriteString("\n\n")
	if source != "" {
		fmt.Fprintf(&b, "Source: %s\n", source)
	}
	if len(files) > 0 {
		b.WriteString("Files:\n")
		for _, f := range files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if source != "" || len(files) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(generatedTrailer)
	b.WriteString("\n")
	return b.String()
}
