package names

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already valid", input: "delete.ps1", want: "delete.ps1"},
		{name: "valid with dash dot space underscore", input: "my-cool_script v1.2.ps1", want: "my-cool_script v1.2.ps1"},
		{name: "suffix appended", input: "delete", want: "delete.ps1"},
		{name: "suffix appended to dotted", input: "backup.v2", want: "backup.v2.ps1"},
		{name: "upper case suffix kept", input: "Tool.PS1", want: "Tool.PS1"},
		{name: "mixed case suffix kept", input: "Skrypt.Ps1", want: "Skrypt.Ps1"},
		{name: "empty uses default", input: "", want: "delete.ps1"},
		{name: "spaces use default", input: "   ", want: "delete.ps1"},
		{name: "tabs and newlines use default", input: "\t\r\n", want: "delete.ps1"},
		{name: "surrounding spaces kept", input: " tool ", want: " tool .ps1"},
		{name: "slash rejected", input: "a/b.ps1", wantErr: true},
		{name: "backslash and colon rejected", input: `c:\x.ps1`, wantErr: true},
		{name: "traversal rejected", input: "../x", wantErr: true},
		{name: "bare suffix rejected", input: ".ps1", wantErr: true},
		{name: "polish letters accepted", input: "zażółć.ps1", want: "zażółć.ps1"},
		{name: "cyrillic gets suffix", input: "привет", want: "привет.ps1"},
		{name: "combining mark accepted", input: "cafe\u0301", want: "cafe\u0301.ps1"},
		{name: "non decimal digits rejected", input: "x\u2167.ps1", wantErr: true},
		{name: "symbol rejected", input: "a€b", wantErr: true},
		{name: "tab inside rejected", input: "a\tb", wantErr: true},
		{name: "shell metachar rejected", input: "a;rm.ps1", wantErr: true},
	}

	v := NewValidator("https://example.test/", t.TempDir(), "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFilename))
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.input, vErr.Input)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, valid(got))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"a", "a.ps1", "a b", "x-1.2_3", "", "Tool.PS1", "zażółć"} {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestResolveDeleteTarget(t *testing.T) {
	root := t.TempDir()
	v := NewValidator("", root, "")

	target, err := v.Resolve("delete")
	require.NoError(t, err)

	assert.Equal(t, "delete.ps1", target.Filename)
	assert.Equal(t, "https://raw.githubusercontent.com/pauliukovich/public/refs/heads/main/delete.ps1", target.URL)
	assert.Equal(t, filepath.Join(root, "delete.ps1"), target.Path)
}

func TestResolveInvalidReturnsEmptyTarget(t *testing.T) {
	v := NewValidator("", t.TempDir(), "")
	target, err := v.Resolve("a/b.ps1")
	assert.Error(t, err)
	assert.Empty(t, target.URL)
	assert.Empty(t, target.Path)
}

func TestCustomDefaultName(t *testing.T) {
	v := NewValidator("", t.TempDir(), "cleanup")
	got, err := v.Normalize(" ")
	require.NoError(t, err)
	assert.Equal(t, "cleanup.ps1", got)
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := Normalize("a/b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a/b.ps1"`)
	assert.Contains(t, err.Error(), AllowedDescription)
}
