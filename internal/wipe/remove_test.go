package wipe

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"dwipe/internal/logging"
	"dwipe/internal/pattern"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstSymbol always picks the first alphabet entry, so every generated
// name is a run of '8'.
type firstSymbol struct{}

func (firstSymbol) IntN(int) int { return 0 }

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	require.NoError(t, o.Remove(path))

	assert.NoFileExists(t, path)
	assert.Empty(t, dirNames(t, dir))
}

func TestRemove_RenamesBeforeDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)

	var truncated int64 = -1
	var renamedTo, removed string
	o.fs.truncate = func(name string, size int64) error {
		truncated = size
		return os.Truncate(name, size)
	}
	o.fs.rename = func(oldpath, newpath string) error {
		renamedTo = newpath
		return os.Rename(oldpath, newpath)
	}
	o.fs.remove = func(name string) error {
		removed = name
		return os.Remove(name)
	}

	require.NoError(t, o.Remove(path))

	assert.Equal(t, int64(0), truncated)
	assert.Equal(t, dir, filepath.Dir(renamedTo))
	base := filepath.Base(renamedTo)
	assert.Len(t, base, len("secret.txt"))
	for _, c := range base {
		assert.Contains(t, pattern.Alphabet, string(c))
		assert.NotEqual(t, ' ', c, "names carry no spaces")
	}
	assert.Equal(t, renamedTo, removed)
}

func TestRemove_AvoidsExistingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc")
	bystander := filepath.Join(dir, "888")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))
	require.NoError(t, os.WriteFile(bystander, []byte("keep"), 0600))

	logger, _ := logging.NewTestLogger()
	o := New(testConfig(1, 1, false), Options{
		Filler: pattern.Zero{},
		Names:  firstSymbol{},
		Logger: logger,
	})
	require.NoError(t, o.Remove(path))

	assert.Equal(t, []string{"888"}, dirNames(t, dir))
	data, err := os.ReadFile(bystander)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestRemove_NoFreeName(t *testing.T) {
	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	o.fs.truncate = func(string, int64) error { return nil }
	o.fs.lstat = func(string) (os.FileInfo, error) { return fakeInfo{}, nil }

	err := o.Remove("/tmp/x")
	require.ErrorIs(t, err, ErrNoFreeName)

	var wipeErr *Error
	require.ErrorAs(t, err, &wipeErr)
	assert.Equal(t, OpRename, wipeErr.Op)
}

func TestRemove_TruncateError(t *testing.T) {
	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	boom := errors.New("read-only file system")
	o.fs.truncate = func(string, int64) error { return boom }
	o.fs.rename = func(string, string) error {
		t.Fatal("rename must not run after a failed truncate")
		return nil
	}

	err := o.Remove("f")
	require.ErrorIs(t, err, boom)
	var wipeErr *Error
	require.ErrorAs(t, err, &wipeErr)
	assert.Equal(t, OpTruncate, wipeErr.Op)
}

func TestRemoveDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "emptydir")
	require.NoError(t, os.Mkdir(dir, 0755))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	require.NoError(t, o.RemoveDir(dir))

	assert.NoDirExists(t, dir)
	assert.Empty(t, dirNames(t, parent))
}

func TestRemoveDir_NotEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "full")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "left.txt"), []byte("x"), 0600))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	err := o.RemoveDir(dir)

	require.ErrorIs(t, err, ErrDirNotEmpty)
	assert.True(t, strings.HasSuffix(err.Error(), "remove failed: directory not empty"))
	assert.DirExists(t, dir, "left in place under its own name")
}

func TestRemoveLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on Windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("keep"), 0600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	require.NoError(t, o.RemoveLink(link))

	assert.Equal(t, []string{"target.txt"}, dirNames(t, dir), "only the link is removed")
}

func TestRemoveLink_DanglingLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on Windows")
	}

	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), link))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	require.NoError(t, o.RemoveLink(link))
	assert.Empty(t, dirNames(t, dir))
}

func TestRemoveLink_NotALink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	o := newTestOverwriter(t, testConfig(1, 1, false), nil)
	err := o.RemoveLink(path)

	require.ErrorIs(t, err, ErrNotSymlink)
	assert.FileExists(t, path)
}
