// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen", "a.h")

	plan, err := Prepare(path, "int x;\n")
	require.NoError(t, err)
	assert.False(t, plan.Exists)
	assert.True(t, plan.Changed())

	require.NoError(t, plan.Apply())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestPrepare_UnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.h")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o600))

	plan, err := Prepare(path, "int x;\n")
	require.NoError(t, err)
	assert.False(t, plan.Changed())
	assert.Equal(t, "", plan.Diff())
}

func TestPrepare_SplicesMarkedRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.c")
	existing := "#include \"a.h\"\n\n" + BeginMarker + "\nold();\n" + EndMarker + "\n\nint main(void) { return 0; }\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	plan, err := Prepare(path, "void gen(void);")
	require.NoError(t, err)
	assert.True(t, plan.Spliced)
	assert.Equal(t, "#include \"a.h\"\n\n"+BeginMarker+"\nvoid gen(void);\n"+EndMarker+"\n\nint main(void) { return 0; }\n", plan.New)

	require.NoError(t, plan.Apply())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name    string
		content string
		gen     string
		want    string
		ok      bool
		wantErr bool
	}{
		{name: "no markers", content: "x\n"},
		{
			name:    "empty region",
			content: BeginMarker + "\n" + EndMarker + "\n",
			gen:     "a;\n",
			want:    BeginMarker + "\na;\n" + EndMarker + "\n",
			ok:      true,
		},
		{
			name:    "indented end marker",
			content: "{\n  " + BeginMarker + "\n  x;\n  " + EndMarker + "\n}\n",
			gen:     "  y;\n",
			want:    "{\n  " + BeginMarker + "\n  y;\n  " + EndMarker + "\n}\n",
			ok:      true,
		},
		{name: "only begin", content: BeginMarker + "\n", wantErr: true},
		{name: "reversed", content: EndMarker + "\n" + BeginMarker + "\n", wantErr: true},
		{name: "same line", content: BeginMarker + " " + EndMarker + "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Splice(tt.content, tt.gen)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnbalancedMarkers))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineDiff(t *testing.T) {
	oldText := "a\nb\nc\n"
	newText := "a\nB\nc\nd\n"

	diff := LineDiff(oldText, newText)
	assert.True(t, strings.HasPrefix(diff, "  a\n"), diff)
	assert.Contains(t, diff, "- b\n")
	assert.Contains(t, diff, "+ B\n")
	assert.Contains(t, diff, "  c\n")
	assert.True(t, strings.HasSuffix(diff, "+ d\n"), diff)
}

func TestWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "x.h"), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.h", entries[0].Name())
}
