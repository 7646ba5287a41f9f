package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.hcl", "notes.txt", "nested/b.hcl", "nested/deeper/c.hcl"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}

	files, err := FindFilesByExtension([]string{
		filepath.Join(root, "a.hcl"),
		root,
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "missing"),
		"",
	}, ".hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "nested", "b.hcl"),
		filepath.Join(root, "nested", "deeper", "c.hcl"),
	}, files)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension([]string{"."}, "") })
}
