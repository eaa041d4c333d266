// Package types provides io/fs views over filesystem stats.
package types // nolint:revive // Internal package with clear purpose

import (
	"io/fs"
	"time"
)

const (
	// FileMode is reported for objects.
	FileMode fs.FileMode = 0o644

	// DirMode is reported for emulated directories and buckets.
	DirMode = fs.ModeDir | 0o755
)

// FileInfo implements fs.FileInfo for objects and emulated directories.
type FileInfo struct {
	FileName    string
	FileSize    int64
	FileModTime time.Time
	FileMode    fs.FileMode
}

// Name returns the name of the file.
func (fi *FileInfo) Name() string { return fi.FileName }

// Size returns the length in bytes for regular files.
func (fi *FileInfo) Size() int64 { return fi.FileSize }

// Mode returns the file mode bits.
func (fi *FileInfo) Mode() fs.FileMode { return fi.FileMode }

// ModTime returns the modification time.
func (fi *FileInfo) ModTime() time.Time { return fi.FileModTime }

// IsDir returns true if this describes a directory.
func (fi *FileInfo) IsDir() bool { return fi.FileMode&fs.ModeDir != 0 }

// Sys returns the underlying data source (always nil).
func (fi *FileInfo) Sys() interface{} { return nil }

// NewFileInfo creates a FileInfo, choosing the mode from isDir.
func NewFileInfo(name string, size int64, modTime time.Time, isDir bool) *FileInfo {
	mode := FileMode
	if isDir {
		mode = DirMode
	}
	return &FileInfo{
		FileName:    name,
		FileSize:    size,
		FileModTime: modTime,
		FileMode:    mode,
	}
}

// DirEntry implements fs.DirEntry on top of a FileInfo.
type DirEntry struct {
	info *FileInfo
}

// NewDirEntry wraps info.
func NewDirEntry(info *FileInfo) *DirEntry {
	return &DirEntry{info: info}
}

// Name returns the name of the entry.
func (e *DirEntry) Name() string { return e.info.Name() }

// IsDir reports whether the entry describes a directory.
func (e *DirEntry) IsDir() bool { return e.info.IsDir() }

// Type returns the type bits for the entry.
func (e *DirEntry) Type() fs.FileMode { return e.info.Mode().Type() }

// Info returns the FileInfo for the entry.
func (e *DirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

// Compile-time interface checks.
var (
	_ fs.FileInfo = (*FileInfo)(nil)
	_ fs.DirEntry = (*DirEntry)(nil)
)
