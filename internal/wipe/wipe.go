// Package wipe overwrites regular files in place with fill patterns and,
// on request, removes them afterwards without leaving their names behind.
package wipe

import (
	"fmt"
	"io"
	"os"
	"time"

	"dwipe/internal/config"
	"dwipe/internal/logging"
	"dwipe/internal/pattern"
)

// File is the part of *os.File the overwrite loop needs.
type File interface {
	io.Writer
	io.Seeker
	Stat() (os.FileInfo, error)
	Sync() error
	Close() error
}

// Options configures an Overwriter. Filler is required.
type Options struct {
	// Filler produces the randomized rounds.
	Filler pattern.Filler
	// Names draws the random names used by Remove. Defaults to a
	// time-seeded source.
	Names pattern.Source
	// Progress receives the per-pass lines when verbose output is on.
	Progress io.Writer
	Logger   *logging.AppLogger
}

// Overwriter wipes one file at a time. It reuses a single block buffer and
// is therefore not safe for concurrent use; run one per worker.
type Overwriter struct {
	cfg      config.Config
	filler   pattern.Filler
	names    pattern.Source
	progress io.Writer
	logger   *logging.AppLogger
	buf      []byte
	fs       fileSystem
}

// New returns an Overwriter for cfg.
func New(cfg config.Config, opts Options) *Overwriter {
	if opts.Filler == nil {
		panic("wipe: nil filler")
	}
	if opts.Names == nil {
		opts.Names = pattern.NewSource(0)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetDefault()
	}
	return &Overwriter{
		cfg:      cfg,
		filler:   opts.Filler,
		names:    opts.Names,
		progress: opts.Progress,
		logger:   opts.Logger,
		fs:       osFileSystem(),
	}
}

// Overwrite replaces every byte of the regular file at path, first with
// zeros when ZeroFirst is set, then once per round with the filler. The
// length of the file never changes. Each pass is synced to disk before the
// next one starts.
func (o *Overwriter) Overwrite(path string) (err error) {
	defer o.logger.LogPerformance("overwrite "+path, time.Now())

	f, err := o.fs.openFile(path, os.O_RDWR, 0)
	if err != nil {
		return &Error{Path: path, Op: OpOpen, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Path: path, Op: OpClose, Err: cerr}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return &Error{Path: path, Op: OpStat, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &Error{Path: path, Op: OpStat, Err: ErrNotRegular}
	}
	size := info.Size()

	o.printf("[wipe] %s\n", path)
	if size == 0 {
		o.logger.Debug("Nothing to overwrite", "path", path)
		return nil
	}

	buf := o.block(size)
	o.logger.Debug("Overwriting file",
		"path", path,
		"size", size,
		"block", len(buf),
		"rounds", o.cfg.Rounds,
		"zero", o.cfg.ZeroFirst,
	)

	if o.cfg.ZeroFirst {
		if err := o.pass(f, path, 0, buf, size, pattern.Zero{}); err != nil {
			return err
		}
	}
	for round := 1; round <= o.cfg.Rounds; round++ {
		if err := o.pass(f, path, round, buf, size, o.filler); err != nil {
			return err
		}
	}
	return nil
}

// pass writes size bytes from offset 0 in chunks of len(buf), the last
// chunk cut to what is left, and syncs.
func (o *Overwriter) pass(f File, path string, round int, buf []byte, size int64, fill pattern.Filler) error {
	o.printf("[round: %d] %s\n", round, path)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &Error{Path: path, Op: OpSeek, Pass: round, Err: err}
	}

	var off int64
	for off < size {
		chunk := buf
		if rem := size - off; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		fill.Fill(chunk)

		n, err := f.Write(chunk)
		if err != nil {
			return &Error{Path: path, Op: OpWrite, Pass: round, Err: err}
		}
		if n != len(chunk) {
			return &Error{Path: path, Op: OpWrite, Pass: round, Err: ErrShortWrite}
		}
		off += int64(n)
	}

	if err := f.Sync(); err != nil {
		return &Error{Path: path, Op: OpSync, Pass: round, Err: err}
	}
	return nil
}

// block returns the reusable buffer sized min(block size, size).
func (o *Overwriter) block(size int64) []byte {
	n := o.cfg.BlockSizeBytes()
	if size < n {
		n = size
	}
	if int64(cap(o.buf)) < n {
		o.buf = make([]byte, n)
	}
	return o.buf[:n]
}

func (o *Overwriter) printf(format string, args ...any) {
	if o.cfg.Verbose < 1 || o.progress == nil {
		return
	}
	fmt.Fprintf(o.progress, format, args...)
}
