package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DirectoryScanOptions configures the behavior of directory scanning operations.
type DirectoryScanOptions struct {
	// MaxDepth limits the recursion depth. Zero means no limit.
	MaxDepth int

	// IncludeHidden determines whether to include files and directories that start with '.'
	IncludeHidden bool

	// SkipPatterns contains directory names that should be skipped during scanning.
	// These are exact matches against directory names (not full paths).
	SkipPatterns []string

	// FileFilter is an optional function that determines whether a file should be included.
	// If nil, all regular files are included.
	FileFilter func(filename string) bool
}

// FileInfo represents information about a discovered entry during directory scanning.
type FileInfo struct {
	// Name is the base filename without path components
	Name string

	// Path is the relative path from the scan root to this entry
	Path string

	// IsDir indicates whether this entry represents a directory
	IsDir bool

	// Size is the file size in bytes (0 for directories)
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Mode contains the file mode and permission bits
	Mode os.FileMode
}

// ScanProblem records an entry the scanner could not read.
type ScanProblem struct {
	// Path is relative to the scan root
	Path string
	Err  error
}

func (p ScanProblem) Error() string {
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

func (p ScanProblem) Unwrap() error {
	return p.Err
}

// SecureDirectoryScanner walks a directory tree within an os.Root boundary,
// collecting regular files and never following symbolic links.
type SecureDirectoryScanner struct {
	// root defines the security boundary for scanning operations
	root *os.Root

	opts *DirectoryScanOptions

	results  []FileInfo
	dirs     []string
	skipped  []FileInfo
	problems []ScanProblem

	// scanRoot stores the absolute path of the scan root
	scanRoot string
}

// NewDirectoryScanner creates a new directory scanner for the given path.
//
// Parameters:
//   - scanPath: The directory path to scan (can be relative or absolute)
//   - opts: Scanning options (if nil, every regular file is included)
//
// Returns:
//   - *SecureDirectoryScanner: Configured scanner instance
//   - error: Setup errors including path resolution and access issues
func NewDirectoryScanner(scanPath string, opts *DirectoryScanOptions) (*SecureDirectoryScanner, error) {
	if opts == nil {
		opts = getDefaultScanOptions()
	}

	if strings.TrimSpace(scanPath) == "" {
		return nil, fmt.Errorf("scan path cannot be empty")
	}

	absPath, err := filepath.Abs(ExpandPath(scanPath))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access scan path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open scan root: %w", err)
	}

	return &SecureDirectoryScanner{
		root:     root,
		opts:     opts,
		scanRoot: absPath,
	}, nil
}

// getDefaultScanOptions returns options that include every regular file.
func getDefaultScanOptions() *DirectoryScanOptions {
	return &DirectoryScanOptions{
		MaxDepth:      0,
		IncludeHidden: true,
	}
}

// Close releases resources associated with the scanner.
func (s *SecureDirectoryScanner) Close() error {
	if s.root != nil {
		err := s.root.Close()
		s.root = nil
		return err
	}
	return nil
}

// Root returns the absolute path of the scanned directory.
func (s *SecureDirectoryScanner) Root() string {
	return s.scanRoot
}

// ScanDirectory performs a recursive scan of the configured directory and
// returns the regular files found, in directory-listing order.
//
// Only a failure to read the scan root itself is returned as an error;
// unreadable entries further down are available from Problems.
func (s *SecureDirectoryScanner) ScanDirectory() ([]FileInfo, error) {
	if s.root == nil {
		return nil, fmt.Errorf("scanner has been closed")
	}

	// Reset state for new scan
	s.results = []FileInfo{}
	s.dirs = nil
	s.skipped = nil
	s.problems = nil

	entries, err := s.readDir(".")
	if err != nil {
		return nil, fmt.Errorf("directory scan failed: %w", err)
	}
	s.scanEntries(".", entries, 1)
	s.dirs = append(s.dirs, ".")

	return slices.Clone(s.results), nil
}

func (s *SecureDirectoryScanner) readDir(relativePath string) ([]os.DirEntry, error) {
	dir, err := s.root.Open(relativePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", relativePath, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", relativePath, err)
	}
	// File.ReadDir returns directory order; sort to match os.ReadDir
	slices.SortFunc(entries, func(a, b os.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

// scanRecursive descends into a subdirectory. Directories are recorded
// after their contents so s.dirs lists children before parents.
func (s *SecureDirectoryScanner) scanRecursive(relativePath string, depth int) {
	if s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
		return
	}

	entries, err := s.readDir(relativePath)
	if err != nil {
		s.problems = append(s.problems, ScanProblem{Path: relativePath, Err: err})
		return
	}

	s.scanEntries(relativePath, entries, depth)
	s.dirs = append(s.dirs, relativePath)
}

func (s *SecureDirectoryScanner) scanEntries(relativePath string, entries []os.DirEntry, depth int) {
	for _, entry := range entries {
		entryPath := filepath.Join(relativePath, entry.Name())
		mode := entry.Type()

		switch {
		case mode&os.ModeSymlink != 0:
			s.skip(entry, entryPath)

		case entry.IsDir():
			if s.shouldSkipDirectory(entry.Name()) {
				continue
			}
			s.scanRecursive(entryPath, depth+1)

		case mode.IsRegular():
			if !s.shouldIncludeFile(entry.Name()) {
				continue
			}
			fileInfo, err := s.createFileInfo(entry, entryPath)
			if err != nil {
				s.problems = append(s.problems, ScanProblem{Path: entryPath, Err: err})
				continue
			}
			s.results = append(s.results, fileInfo)

		default:
			// Devices, FIFOs and sockets are never wiped
			s.skip(entry, entryPath)
		}
	}
}

func (s *SecureDirectoryScanner) skip(entry os.DirEntry, path string) {
	s.skipped = append(s.skipped, FileInfo{
		Name: entry.Name(),
		Path: path,
		Mode: entry.Type(),
	})
}

// shouldSkipDirectory determines if a directory should be skipped based on configured rules.
func (s *SecureDirectoryScanner) shouldSkipDirectory(dirName string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(dirName, ".") {
		return true
	}
	return slices.Contains(s.opts.SkipPatterns, dirName)
}

// shouldIncludeFile determines if a file should be included based on configured rules.
func (s *SecureDirectoryScanner) shouldIncludeFile(fileName string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(fileName, ".") {
		return false
	}
	if s.opts.FileFilter != nil {
		return s.opts.FileFilter(fileName)
	}
	return true
}

// createFileInfo creates a FileInfo struct from directory entry information.
func (s *SecureDirectoryScanner) createFileInfo(entry os.DirEntry, path string) (FileInfo, error) {
	info, err := entry.Info()
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return FileInfo{
		Name:    entry.Name(),
		Path:    path,
		IsDir:   entry.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}, nil
}

// GetResults returns the regular files found by the last scan.
func (s *SecureDirectoryScanner) GetResults() []FileInfo {
	return slices.Clone(s.results)
}

// Directories returns the directories walked by the last scan, relative to
// the root, children before parents. The root itself is last, as ".".
func (s *SecureDirectoryScanner) Directories() []string {
	return slices.Clone(s.dirs)
}

// Skipped returns the symlinks and special files passed over by the last scan.
func (s *SecureDirectoryScanner) Skipped() []FileInfo {
	return slices.Clone(s.skipped)
}

// Problems returns the entries the last scan could not read.
func (s *SecureDirectoryScanner) Problems() []ScanProblem {
	return slices.Clone(s.problems)
}

// ScanStats summarizes the last scan.
type ScanStats struct {
	TotalFiles       int
	TotalDirectories int
	SkippedEntries   int
	Problems         int
	LargestFile      int64
	TotalSize        int64
}

// GetScanStats calculates and returns statistics about the current scan results.
func (s *SecureDirectoryScanner) GetScanStats() ScanStats {
	stats := ScanStats{
		TotalDirectories: len(s.dirs),
		SkippedEntries:   len(s.skipped),
		Problems:         len(s.problems),
	}

	for _, file := range s.results {
		stats.TotalFiles++
		stats.TotalSize += file.Size
		if file.Size > stats.LargestFile {
			stats.LargestFile = file.Size
		}
	}

	return stats
}
