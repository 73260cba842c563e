// Package fileops provides the filesystem primitives used to find wipe targets.
//
// # Directory Scanning
//
// SecureDirectoryScanner walks a directory tree inside an os.Root boundary and
// reports regular files only. Symbolic links are never followed: a link found
// during the walk is reported as skipped, together with devices, FIFOs and
// sockets. Entries that cannot be read do not stop the walk; they are collected
// and returned by Problems so the caller can report each one.
//
//	scanner, err := fileops.NewDirectoryScanner("/data/old", nil)
//	if err != nil {
//	    return err
//	}
//	defer scanner.Close()
//
//	files, err := scanner.ScanDirectory()
//	if err != nil {
//	    return err
//	}
//	for _, p := range scanner.Problems() {
//	    fmt.Fprintf(os.Stderr, "%s: %v\n", p.Path, p.Err)
//	}
//
// Directories returns every directory that was walked, children before their
// parent, which is the order they can be removed in once emptied.
//
// # Path Helpers
//
// ExpandPath resolves a leading "~/", ResolveSymlink canonicalizes a path and
// IsProtectedDirectory flags system locations a recursive wipe must refuse.
package fileops
