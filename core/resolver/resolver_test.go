package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	resolved, err := Canonical(path)
	require.NoError(t, err)
	return resolved
}

func TestResolveConfiguredDirsWinOverCurrent(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "lib")
	cur := filepath.Join(root, "cur")
	want := writeFile(t, filepath.Join(lib, "a.h"), "lib")
	writeFile(t, filepath.Join(cur, "a.h"), "cur")

	r := New([]string{lib})
	got, err := r.Resolve("a.h", cur)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveConfiguredDirOrder(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	require.NoError(t, os.MkdirAll(first, 0755))
	want := writeFile(t, filepath.Join(second, "x.h"), "")
	writeFile(t, filepath.Join(root, "third", "x.h"), "")

	r := New([]string{first, second, filepath.Join(root, "third")})
	got, err := r.Resolve("x.h", root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFallsBackToCurrentDir(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, filepath.Join(root, "x", "util.h"), "x")
	writeFile(t, filepath.Join(root, "y", "util.h"), "y")

	r := New(nil)

	got, err := r.Resolve("util.h", filepath.Join(root, "x"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := r.Resolve("util.h", filepath.Join(root, "y"))
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestResolveNestedName(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, filepath.Join(root, "graph", "edge.hpp"), "")

	got, err := New([]string{root}).Resolve("graph/edge.hpp", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "a.h"), 0755))
	want := writeFile(t, filepath.Join(root, "a.h"), "")

	got, err := New([]string{filepath.Join(root, "lib")}).Resolve("a.h", root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveAbsoluteName(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, filepath.Join(root, "abs.h"), "")

	got, err := New(nil).Resolve(want, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveNotFound(t *testing.T) {
	root := t.TempDir()
	r := New([]string{filepath.Join(root, "lib"), ""})

	_, err := r.Resolve("missing.h", root)
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing.h", nf.Name)
	assert.Equal(t, []string{filepath.Join(root, "lib"), root}, nf.Searched)
	assert.Equal(t, "missing.h is not found", err.Error())
}

func TestResolveCanonicalisesSymlinks(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "real", "a.h"), "")
	link := filepath.Join(root, "link")
	if err := os.Symlink(filepath.Join(root, "real"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := New(nil).Resolve("a.h", link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestDirsIsACopy(t *testing.T) {
	r := New([]string{"a", "", "b"})
	dirs := r.Dirs()
	assert.Equal(t, []string{"a", "b"}, dirs)
	dirs[0] = "mutated"
	assert.Equal(t, []string{"a", "b", "cur"}, r.Candidates("cur"))
}
