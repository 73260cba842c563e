// Package collector turns command-line paths into the ordered list of
// regular files to wipe.
//
// Every problem is attached to the entry it concerns instead of aborting
// the run, so one bad argument never prevents the others from being wiped.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"dwipe/internal/logging"
	"dwipe/pkg/fileops"
)

// Target is a file selected for wiping, or an entry that could not be
// resolved, in which case Err is set and the entry must only be reported.
type Target struct {
	Path string
	Size int64
	Err  error
}

// Failed reports whether the target carries a resolution error.
func (t Target) Failed() bool {
	return t.Err != nil
}

// Result is the output of Collect.
type Result struct {
	// Targets in argument order, directory contents in listing order.
	Targets []Target
	// Dirs lists every directory walked, children before parents.
	Dirs []string
	// Links lists the symlink arguments whose targets were collected.
	Links []string
}

// Files returns the paths of the targets that resolved successfully.
func (r Result) Files() []string {
	var files []string
	for _, t := range r.Targets {
		if !t.Failed() {
			files = append(files, t.Path)
		}
	}
	return files
}

// Failures returns the targets that could not be resolved.
func (r Result) Failures() []Target {
	var failed []Target
	for _, t := range r.Targets {
		if t.Failed() {
			failed = append(failed, t)
		}
	}
	return failed
}

// Collector resolves paths against the filesystem.
type Collector struct {
	recursive bool
	logger    *logging.AppLogger

	// stat is swapped in tests
	stat func(name string) (os.FileInfo, error)
}

// New returns a Collector. Directories are expanded only when recursive is set.
func New(recursive bool, logger *logging.AppLogger) *Collector {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Collector{
		recursive: recursive,
		logger:    logger,
		stat:      os.Stat,
	}
}

// Collect resolves paths in order. Duplicate paths are kept once.
func (c *Collector) Collect(paths []string) Result {
	run := &collection{
		Collector: c,
		seen:      make(map[string]bool),
		seenDirs:  make(map[string]bool),
	}
	for _, arg := range paths {
		run.collectArg(arg)
	}
	return run.res
}

// collection holds the state of one Collect call.
type collection struct {
	*Collector
	res      Result
	seen     map[string]bool
	seenDirs map[string]bool
}

func (r *collection) add(t Target) {
	if t.Err == nil {
		if r.seen[t.Path] {
			r.logger.Debug("Skipping duplicate path", "path", t.Path)
			return
		}
		r.seen[t.Path] = true
	}
	r.res.Targets = append(r.res.Targets, t)
}

func (r *collection) addDir(dir string) {
	if r.seenDirs[dir] {
		return
	}
	r.seenDirs[dir] = true
	r.res.Dirs = append(r.res.Dirs, dir)
}

// addLink records link when resolving it added a target or a directory.
func (r *collection) addLink(link string, targets, dirs int) {
	added := len(r.res.Dirs) > dirs
	for _, t := range r.res.Targets[targets:] {
		if !t.Failed() {
			added = true
		}
	}
	if !added || slices.Contains(r.res.Links, link) {
		return
	}
	r.res.Links = append(r.res.Links, link)
}

func (r *collection) fail(path string, err error) {
	r.add(Target{Path: path, Err: newResolveError(path, err)})
}

func (r *collection) reject(path string, reason Reason) {
	r.add(Target{Path: path, Err: &ResolveError{Path: path, Reason: reason}})
}

func (r *collection) collectArg(arg string) {
	if arg == "" {
		r.fail(arg, fs.ErrNotExist)
		return
	}

	expanded := fileops.ExpandPath(arg)
	info, err := r.stat(expanded)
	if err != nil {
		r.fail(arg, err)
		return
	}

	// Arguments are canonicalized so a symlink argument names its target
	path, err := fileops.ResolveSymlink(expanded)
	if err != nil {
		r.fail(arg, err)
		return
	}

	if path != expanded {
		if isLink, err := fileops.IsSymlink(expanded); err == nil && isLink {
			defer r.addLink(expanded, len(r.res.Targets), len(r.res.Dirs))
		}
	}

	switch {
	case info.Mode().IsRegular():
		r.add(Target{Path: path, Size: info.Size()})

	case info.IsDir():
		if !r.recursive {
			r.reject(arg, ReasonIsDirectory)
			return
		}
		if fileops.IsProtectedDirectory(path) {
			r.reject(arg, ReasonProtected)
			return
		}
		r.collectDir(arg, path)

	default:
		r.reject(arg, ReasonNotRegular)
	}
}

func (r *collection) collectDir(arg, dir string) {
	scanner, err := fileops.NewDirectoryScanner(dir, nil)
	if err != nil {
		r.fail(arg, err)
		return
	}
	defer scanner.Close()

	files, err := scanner.ScanDirectory()
	if err != nil {
		r.fail(arg, err)
		return
	}

	for _, p := range scanner.Problems() {
		r.fail(filepath.Join(dir, p.Path), p.Err)
	}

	for _, f := range files {
		r.add(Target{Path: filepath.Join(dir, f.Path), Size: f.Size})
	}

	for _, s := range scanner.Skipped() {
		r.logger.Debug("Skipping non-regular file", "path", filepath.Join(dir, s.Path), "mode", s.Mode.Type().String())
	}

	for _, d := range scanner.Directories() {
		r.addDir(filepath.Join(dir, d))
	}

	stats := scanner.GetScanStats()
	r.logger.Debug("Collected directory",
		"path", dir,
		"files", stats.TotalFiles,
		"bytes", stats.TotalSize,
		"skipped", stats.SkippedEntries,
		"problems", stats.Problems,
	)
}

// Reason classifies a ResolveError.
type Reason int

const (
	ReasonNotFound Reason = iota + 1
	ReasonPermission
	ReasonIsDirectory
	ReasonNotRegular
	ReasonProtected
	ReasonOther
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "no such file or directory"
	case ReasonPermission:
		return "permission denied"
	case ReasonIsDirectory:
		return "is a directory"
	case ReasonNotRegular:
		return "not a regular file"
	case ReasonProtected:
		return "refusing to wipe protected directory"
	default:
		return "cannot access"
	}
}

// ResolveError is reported for a path that cannot be turned into a target.
type ResolveError struct {
	Path   string
	Reason Reason
	Err    error
}

func newResolveError(path string, err error) *ResolveError {
	reason := ReasonOther
	switch {
	case errors.Is(err, fs.ErrNotExist):
		reason = ReasonNotFound
	case errors.Is(err, fs.ErrPermission):
		reason = ReasonPermission
	}
	return &ResolveError{Path: path, Reason: reason, Err: err}
}

func (e *ResolveError) Error() string {
	if e.Reason == ReasonOther && e.Err != nil {
		return fmt.Sprintf("cannot access '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot wipe '%s': %s", e.Path, e.Reason)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
