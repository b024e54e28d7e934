// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cgen builds C source text from an in-memory model: declarators,
// variables, functions, structs, enums and translation-unit scopes.
//
// Entities are assembled bottom-up and rendered with String. Rendering is a
// pure function of the model and cannot fail. Nothing is checked while
// building or rendering: type and name strings are opaque, conflicting
// modifiers follow last-write-wins, and enum values are emitted as given. The
// output is therefore only as valid as its input. Callers that want guard
// rails call Validate, which reports malformed names, empty types, and
// duplicate or out-of-range enum values without changing what is rendered.
//
//	s := cgen.NewStruct("point").
//		AsTypedef(cgen.NamedTypedef()).
//		Member("int32_t", "x").
//		Member("int32_t", "y")
//
//	scope := cgen.NewScope().
//		WithIncludeGuards(cgen.MacroGuard("POINT_H")).
//		IncludeLib("stdint.h").
//		AddStruct(s)
//
//	fmt.Print(scope)
package cgen
