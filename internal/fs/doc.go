// Package fs is the file system surface used to persist point files.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and injects write, sync and
//     rename failures
//
// Writers create a temporary file next to the target, sync it and rename it
// into place, so a failed write never leaves a truncated point file behind:
//
//	f, err := fs.Default.CreateTemp(dir, ".points-*")
//	// write, Sync, Close
//	err = fs.Default.Rename(f.Name(), path)
package fs
