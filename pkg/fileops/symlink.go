package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsSymlink checks if a given path is a symbolic link.
// This function uses lstat to examine the file without following symlinks.
//
// Usage example:
//
//	isLink, err := fileops.IsSymlink("/path/to/potential/symlink")
//	if err != nil {
//	    return fmt.Errorf("failed to check symlink: %w", err)
//	}
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ResolveSymlink returns the absolute path of linkPath with every symbolic
// link along it resolved. Non-link paths are returned cleaned and absolute.
func ResolveSymlink(linkPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlink: %w", err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlink: %w", err)
	}
	return abs, nil
}
