package wipe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Op names the file operation that failed.
type Op string

const (
	OpOpen     Op = "open"
	OpStat     Op = "stat"
	OpSeek     Op = "seek"
	OpWrite    Op = "write"
	OpSync     Op = "sync"
	OpClose    Op = "close"
	OpTruncate Op = "truncate"
	OpRename   Op = "rename"
	OpRemove   Op = "remove"
)

var (
	// ErrShortWrite is returned when a write reports fewer bytes than requested
	// without an error of its own.
	ErrShortWrite = errors.New("short write")

	// ErrNotRegular is returned when the opened path is not a regular file.
	ErrNotRegular = errors.New("not a regular file")

	// ErrDirNotEmpty is returned by RemoveDir for a directory that still
	// has entries, typically a file that failed to wipe.
	ErrDirNotEmpty = errors.New("directory not empty")

	// ErrNotSymlink is returned by RemoveLink for a path that is no longer
	// a symbolic link.
	ErrNotSymlink = errors.New("not a symbolic link")

	// ErrNoFreeName is returned when no unused random name could be found
	// for a path about to be removed.
	ErrNoFreeName = errors.New("no unused name available")
)

// Error is the failure of one file operation while wiping Path.
// Pass is the overwrite pass for seek, write and sync failures: 0 is the
// zero pass, 1..N the randomized rounds.
type Error struct {
	Path string
	Op   Op
	Pass int
	Err  error
}

func (e *Error) Error() string {
	if e.inPass() {
		return fmt.Sprintf("cannot wipe '%s': %s failed in round %d: %v", e.Path, e.Op, e.Pass, cause(e.Err))
	}
	return fmt.Sprintf("cannot wipe '%s': %s failed: %v", e.Path, e.Op, cause(e.Err))
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) inPass() bool {
	switch e.Op {
	case OpSeek, OpWrite, OpSync:
		return true
	}
	return false
}

// cause strips the path the os package already put into err, since the
// message names it.
func cause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}
