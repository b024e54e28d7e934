// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cgen

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnum_ExplicitTypedef(t *testing.T) {
	expected := `typedef enum enum_foo {
    ENUM_FOO_A,
    ENUM_FOO_B = 5,
    ENUM_FOO_C = 7,
    ENUM_FOO_D,
} enum2;`

	e := NewEnum("enum_foo").
		AsTypedef(ExplicitTypedef("enum2")).
		Member("ENUM_FOO_A").
		Value("ENUM_FOO_B", 5).
		Value("ENUM_FOO_C", 7).
		Member("ENUM_FOO_D")

	assert.Equal(t, expected, e.String())
}

func TestFuncDecl_ExternWithArgs(t *testing.T) {
	f := NewFunc("my_func").
		Extern().
		Returns("uint32_t").
		Arg(NewDecl("void *", "a")).
		Arg(NewDecl("uint8_t *", "buf").Const()).
		Arg(NewDecl("size_t", "buflen"))

	assert.Equal(t, "extern uint32_t my_func(void * a, const uint8_t * buf, size_t buflen)", f.String())
}

func TestFuncImpl_StaticInline(t *testing.T) {
	expected := `static inline void my_func(void * a, const uint8_t buf[], size_t buflen) {
    printf("Hello World");
}`

	decl := NewFunc("my_func").
		Static().
		Inline().
		Arg(NewDecl("void *", "a")).
		Arg(NewDecl("uint8_t", "buf").Const().UnsizedArray()).
		Arg(NewDecl("size_t", "buflen"))
	impl := NewFuncImpl(decl).AddLine(`printf("Hello World");`)

	assert.Equal(t, expected, impl.String())
}

func TestStruct_ExplicitTypedef(t *testing.T) {
	expected := `typedef struct struct_foo {
    uint8_t a;
    uint16_t b[35];
    const char * name;
    const int c[];
} foo;`

	s := NewStruct("struct_foo").
		AsTypedef(ExplicitTypedef("foo")).
		Member("uint8_t", "a")
	s.AddMember(NewDecl("uint16_t", "b").SizedArray(35))
	s.AddMember(NewDecl("char *", "name").Const())
	s.AddMember(NewDecl("int", "c").Const().UnsizedArray())

	assert.Equal(t, expected, s.String())
}

func TestVariable_StaticConstArray(t *testing.T) {
	decl := NewDecl("uint8_t", "foo").Const().SizedArray(2)
	v := NewVariable(decl).Static().Init("{0, 0}")

	assert.Equal(t, "static const uint8_t foo[2] = {0, 0}", v.String())
}

func TestTypedefHeaderFooter(t *testing.T) {
	tests := []struct {
		name       string
		typedef    *TypedefKind
		wantStruct string
		wantEnum   string
	}{
		{
			name:       "none",
			wantStruct: "struct foo {\n    int a;\n};",
			wantEnum:   "enum foo {\n    A,\n};",
		},
		{
			name:       "named",
			typedef:    ptr(NamedTypedef()),
			wantStruct: "typedef struct foo {\n    int a;\n} foo;",
			wantEnum:   "typedef enum foo {\n    A,\n} foo;",
		},
		{
			name:       "explicit",
			typedef:    ptr(ExplicitTypedef("bar_t")),
			wantStruct: "typedef struct foo {\n    int a;\n} bar_t;",
			wantEnum:   "typedef enum foo {\n    A,\n} bar_t;",
		},
		{
			name:       "unnamed",
			typedef:    ptr(UnnamedTypedef()),
			wantStruct: "typedef struct {\n    int a;\n} foo;",
			wantEnum:   "typedef enum {\n    A,\n} foo;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStruct("foo").Member("int", "a")
			e := NewEnum("foo").Member("A")
			if tt.typedef != nil {
				s.AsTypedef(*tt.typedef)
				e.AsTypedef(*tt.typedef)
			}
			assert.Equal(t, tt.wantStruct, s.String())
			assert.Equal(t, tt.wantEnum, e.String())
		})
	}
}

func TestDecl_RenderModes(t *testing.T) {
	tests := []struct {
		name string
		decl Decl
		want string
	}{
		{"plain", NewDecl("int", "x"), "int x"},
		{"const", NewDecl("char *", "s").Const(), "const char * s"},
		{"sized", NewDecl("uint8_t", "buf").SizedArray(16), "uint8_t buf[16]"},
		{"zero sized", NewDecl("uint8_t", "buf").SizedArray(0), "uint8_t buf[0]"},
		{"unsized", NewDecl("int", "v").UnsizedArray(), "int v[]"},
		{"last array wins", NewDecl("int", "v").UnsizedArray().SizedArray(3), "int v[3]"},
		{"last array wins reversed", NewDecl("int", "v").SizedArray(3).UnsizedArray(), "int v[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decl.String())
			assert.Equal(t, tt.want+";", tt.decl.Statement())
		})
	}
}

func TestDecl_ValueSemantics(t *testing.T) {
	base := NewDecl("int", "x")
	c := base.Const().SizedArray(4)

	assert.Equal(t, "int x", base.String())
	assert.Equal(t, "const int x[4]", c.String())
	assert.True(t, c.IsConst())
	n, sized := c.Array().Extent()
	assert.True(t, sized)
	assert.Equal(t, uint64(4), n)
}

func TestVariable_StorageLastWins(t *testing.T) {
	v := NewVariable(NewDecl("int", "counter")).Static().Extern()
	assert.Equal(t, "extern int counter", v.String())
	assert.Equal(t, Extern, v.Storage())

	_, ok := v.Initializer()
	assert.False(t, ok)

	v = v.Init("0")
	assert.Equal(t, "extern int counter = 0", v.String())
}

func TestFuncDecl_Defaults(t *testing.T) {
	f := NewFunc("tick")
	assert.Equal(t, "void tick()", f.String())
	assert.Equal(t, "static int tick()", f.Extern().Static().Returns("int").String())
	assert.Equal(t, "inline void tick()", f.Inline().String())
}

func TestFuncDecl_ArgDoesNotAlias(t *testing.T) {
	base := NewFunc("f").Arg(NewDecl("int", "a"))
	withB := base.Arg(NewDecl("int", "b"))
	withC := base.Arg(NewDecl("int", "c"))

	assert.Equal(t, "void f(int a, int b)", withB.String())
	assert.Equal(t, "void f(int a, int c)", withC.String())
	assert.Len(t, base.Args(), 1)
}

func TestFuncImpl_Body(t *testing.T) {
	impl := NewFuncImpl(NewFunc("main").Returns("int")).
		AddLines("int x = 1;", "x++;").
		AddLine("return x;")

	assert.Equal(t, "int main() {\n    int x = 1;\n    x++;\n    return x;\n}", impl.String())
	assert.Equal(t, "void empty() {\n}", NewFuncImpl(NewFunc("empty")).String())
}

func TestEnum_BigValues(t *testing.T) {
	huge, ok := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
	require.True(t, ok)

	e := NewEnum("wide").BigValue("MIN", huge).BigValue("IMPLIED", nil)
	huge.SetInt64(0) // the enum holds its own copy

	assert.Equal(t, "enum wide {\n    MIN = -170141183460469231731687303715884105728,\n    IMPLIED,\n};", e.String())
}

func TestOrderPreservation(t *testing.T) {
	s := NewStruct("s")
	e := NewEnum("e")
	f := NewFunc("f")
	for _, n := range []string{"z", "a", "m", "b"} {
		s.Member("int", n)
		e.Member(n)
		f = f.Arg(NewDecl("int", n))
	}

	var got []string
	for _, m := range s.Members() {
		got = append(got, m.Name())
	}
	assert.Equal(t, []string{"z", "a", "m", "b"}, got)
	assert.Equal(t, "void f(int z, int a, int m, int b)", f.String())
	assert.Equal(t, "enum e {\n    z,\n    a,\n    m,\n    b,\n};", e.String())
}

func TestRenderIsDeterministic(t *testing.T) {
	s := NewStruct("s").AsTypedef(NamedTypedef()).Member("int", "a")
	scope := NewScope().WithIncludeGuards(MacroGuard("S_H")).IncludeLib("stdint.h").AddStruct(s)

	assert.Equal(t, scope.String(), scope.String())
	assert.Equal(t, s.String(), s.String())
}

func TestArraySize_String(t *testing.T) {
	assert.Equal(t, "", ArraySize{}.String())
	assert.False(t, ArraySize{}.IsArray())
	assert.Equal(t, "[]", Unsized().String())
	assert.Equal(t, "[18446744073709551615]", Sized(^uint64(0)).String())
}

func TestStorageClass_String(t *testing.T) {
	assert.Equal(t, "extern", Extern.String())
	assert.Equal(t, "static", Static.String())
	assert.Equal(t, "", NoStorage.String())
}

func ptr[T any](v T) *T { return &v }
