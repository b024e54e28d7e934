// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanScope(t *testing.T) {
	s := NewScope().
		WithIncludeGuards(MacroGuard("FOO_H")).
		IncludeLib("stdint.h").
		AddStruct(NewStruct("foo").AsTypedef(ExplicitTypedef("foo_t")).Member("int", "a")).
		AddEnum(NewEnum("mode").Member("A").Value("B", 4).Member("C")).
		AddFunc(NewFunc("f").Arg(NewDecl("int", "a")))

	assert.NoError(t, s.Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	s := NewScope().
		WithIncludeGuards(MacroGuard("1BAD")).
		IncludeLib(" ").
		AddStruct(NewStruct("foo").AsTypedef(ExplicitTypedef("")).Member("", "a").Member("int", "a")).
		AddFunc(NewFunc("my func").Returns(""))

	errs := Errors(s.Validate())
	require.Len(t, errs, 7)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	assert.Contains(t, msgs, `scope: guard: "1BAD" is not a C identifier`)
	assert.Contains(t, msgs, "scope: snippet 1: empty library include")
	assert.Contains(t, msgs, `struct foo: typedef: "" is not a C identifier`)
	assert.Contains(t, msgs, "struct foo: member 1: empty type")
	assert.Contains(t, msgs, `struct foo: member 2: duplicate member "a"`)
	assert.Contains(t, msgs, `function my func: name: "my func" is not a C identifier`)
	assert.Contains(t, msgs, "function my func: return: empty type")
}

func TestValidate_EnumValues(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 127)

	tests := []struct {
		name string
		enum *Enum
		want []string
	}{
		{
			name: "implied after explicit is fine",
			enum: NewEnum("e").Value("A", 5).Member("B").Value("C", 9),
		},
		{
			name: "duplicate value through implication",
			enum: NewEnum("e").Value("A", 1).Member("B").Value("C", 2),
			want: []string{
				"enum e: member 3: value 2 is lower than the implied value 3",
				`enum e: member 3: value 2 already used by "B"`,
			},
		},
		{
			name: "duplicate name",
			enum: NewEnum("e").Member("A").Member("A"),
			want: []string{`enum e: member 2: duplicate enumerator "A"`},
		},
		{
			name: "outside int128",
			enum: NewEnum("e").BigValue("A", tooBig),
			want: []string{"enum e: member 1: value 170141183460469231731687303715884105728 is outside the signed 128-bit range"},
		},
		{
			name: "negative first value is fine",
			enum: NewEnum("e").Value("A", -3).Member("B"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range Errors(tt.enum.Validate()) {
				got = append(got, e.Error())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_DoesNotChangeRendering(t *testing.T) {
	e := NewEnum("e").Value("A", 2).Value("B", 1)
	before := e.String()
	require.Error(t, e.Validate())
	assert.Equal(t, before, e.String())
}

func TestValidate_DuplicateArgument(t *testing.T) {
	f := NewFunc("f").Arg(NewDecl("int", "a")).Arg(NewDecl("int", "a"))
	errs := Errors(NewFuncImpl(f).Validate())
	require.Len(t, errs, 1)
	assert.Equal(t, `function f: arg 2: duplicate argument "a" (first at arg 1)`, errs[0].Error())
}
