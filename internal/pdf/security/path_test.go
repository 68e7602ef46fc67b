package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), v.GetConfiguredDirectory())
}

func TestNewPathValidator_RelativeDirectoryIsMadeAbsolute(t *testing.T) {
	v, err := NewPathValidator("output")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.GetConfiguredDirectory()))
}

func TestPathValidator_Resolve(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain name", input: "Juan_Perez_Enero.pdf", want: filepath.Join(dir, "Juan_Perez_Enero.pdf")},
		{name: "name with dots", input: ".._Enero.pdf", want: filepath.Join(dir, ".._Enero.pdf")},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "traversal", input: "../etc/passwd", wantErr: true},
		{name: "absolute", input: "/etc/passwd", wantErr: true},
		{name: "backslash", input: `..\secret.pdf`, wantErr: true},
		{name: "nul byte", input: "a\x00.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_ResolveRejectsEscapingSymlink(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o644))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	_, err = v.Resolve("link.pdf")
	assert.Error(t, err)
}

func TestPathValidator_ResolveAllowsInternalSymlink(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "real.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o644))

	link := filepath.Join(dir, "alias.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	got, err := v.Resolve("alias.pdf")
	require.NoError(t, err)
	assert.Equal(t, link, got)
}

func TestPathValidator_IsPathWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{path: dir, want: true},
		{path: filepath.Join(dir, "a.pdf"), want: true},
		{path: filepath.Join(dir, "sub", "a.pdf"), want: true},
		{path: filepath.Join(dir, "..", "a.pdf"), want: false},
		{path: dir + "-sibling", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := v.IsPathWithinDirectory(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
