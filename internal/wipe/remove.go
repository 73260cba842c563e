package wipe

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"dwipe/internal/pattern"
)

// maxNameAttempts bounds the search for an unused name. The name grows by
// one character every nameGrowEvery failed attempts.
const (
	maxNameAttempts = 64
	nameGrowEvery   = 8
)

type fileSystem struct {
	openFile func(name string, flag int, perm os.FileMode) (File, error)
	truncate func(name string, size int64) error
	rename   func(oldpath, newpath string) error
	remove   func(name string) error
	lstat    func(name string) (os.FileInfo, error)
	emptyDir func(name string) (bool, error)
}

func osFileSystem() fileSystem {
	return fileSystem{
		openFile: func(name string, flag int, perm os.FileMode) (File, error) {
			f, err := os.OpenFile(name, flag, perm)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		truncate: os.Truncate,
		rename:   os.Rename,
		remove:   os.Remove,
		lstat:    os.Lstat,
		emptyDir: isEmptyDir,
	}
}

func isEmptyDir(name string) (bool, error) {
	d, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer d.Close()

	_, err = d.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// Remove truncates the file at path to zero length, renames it to a random
// name of the same length in the same directory and deletes it.
// Call it only after Overwrite succeeded.
func (o *Overwriter) Remove(path string) error {
	if err := o.fs.truncate(path, 0); err != nil {
		return &Error{Path: path, Op: OpTruncate, Err: err}
	}
	return o.obscureAndRemove(path)
}

// RemoveDir renames the empty directory dir to a random name and deletes
// it. A directory that still has entries is left untouched and reported
// as a remove failure.
func (o *Overwriter) RemoveDir(dir string) error {
	empty, err := o.fs.emptyDir(dir)
	if err != nil {
		return &Error{Path: dir, Op: OpRemove, Err: err}
	}
	if !empty {
		return &Error{Path: dir, Op: OpRemove, Err: ErrDirNotEmpty}
	}
	return o.obscureAndRemove(dir)
}

// RemoveLink renames the symbolic link at link to a random name and
// deletes it. The link is never followed.
func (o *Overwriter) RemoveLink(link string) error {
	info, err := o.fs.lstat(link)
	if err != nil {
		return &Error{Path: link, Op: OpRemove, Err: err}
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return &Error{Path: link, Op: OpRemove, Err: ErrNotSymlink}
	}
	return o.obscureAndRemove(link)
}

func (o *Overwriter) obscureAndRemove(path string) error {
	hidden, err := o.obscure(path)
	if err != nil {
		return &Error{Path: path, Op: OpRename, Err: err}
	}
	if err := o.fs.remove(hidden); err != nil {
		return &Error{Path: path, Op: OpRemove, Err: err}
	}
	o.logger.Debug("Removed", "path", path, "as", filepath.Base(hidden))
	return nil
}

// obscure renames path to an unused random name next to it and returns
// the new path.
func (o *Overwriter) obscure(path string) (string, error) {
	dir, base := filepath.Split(path)
	n := len(base)
	if n == 0 {
		n = 1
	}

	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		candidate := filepath.Join(dir, pattern.Name(o.names, n))
		if attempt%nameGrowEvery == 0 {
			n++
		}

		_, err := o.fs.lstat(candidate)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		if err := o.fs.rename(path, candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", ErrNoFreeName
}
