package fileops

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandPath expands a path that starts with "~/" to the user's home directory.
//
// Usage example:
//
//	expanded := fileops.ExpandPath("~/Documents/file.txt")
//	// Returns something like "/home/user/Documents/file.txt"
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// IsProtectedDirectory reports whether a recursive wipe of path must be
// refused: the filesystem root, a system directory or anything below one,
// the user's home directory itself, and the user's key stores.
//
// Symlinks in path are resolved before comparison. Paths that cannot be
// made absolute are treated as protected.
func IsProtectedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	absPath = canonical(absPath)

	// Always treat root as protected
	if absPath == filepath.VolumeName(absPath)+string(os.PathSeparator) {
		return true
	}

	for _, reserved := range getSystemDirectories() {
		reserved = canonical(reserved)
		if samePath(absPath, reserved) || isWithin(absPath, reserved) {
			// User temp directories may live below a system directory
			if isUserTempDirectory(absPath) {
				continue
			}
			return true
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		home = canonical(home)
		if samePath(absPath, home) {
			return true
		}
		for _, keys := range []string{".ssh", ".gnupg"} {
			dir := filepath.Join(home, keys)
			if samePath(absPath, dir) || isWithin(absPath, dir) {
				return true
			}
		}
	}

	return false
}

// getSystemDirectories returns platform-specific system directories.
func getSystemDirectories() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\ProgramData\\Microsoft",
		}

	case "darwin": // macOS
		return []string{
			"/System",
			"/usr",
			"/bin",
			"/sbin",
			"/etc",
			"/var/db",
			"/Library/System",
			"/Applications",
			"/private/etc",
		}

	default: // Linux and other Unix
		return []string{
			"/bin",
			"/sbin",
			"/lib",
			"/lib64",
			"/usr",
			"/etc",
			"/boot",
			"/dev",
			"/proc",
			"/sys",
		}
	}
}

// isUserTempDirectory detects legitimate user temp directories
func isUserTempDirectory(path string) bool {
	// macOS: /var/folders/xx/yyyy/T/ are user temp dirs
	if runtime.GOOS == "darwin" && strings.Contains(path, "/var/folders/") {
		return true
	}

	systemTemp := canonical(os.TempDir())
	return samePath(path, systemTemp) || isWithin(path, systemTemp)
}

// canonical cleans path and resolves symlinks when possible.
func canonical(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func samePath(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// isWithin reports whether path is strictly below dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}
