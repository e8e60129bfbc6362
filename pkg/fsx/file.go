package fsx

import (
	"path/filepath"
	"strings"
)

// File is one record flowing through a pipeline: its contents plus enough
// metadata to place it under a destination directory.
type File struct {
	// Path is where the file was read from, or where a transform wants it
	// to end up relative to Base.
	Path string
	// Base is the directory the file's relative layout is anchored at.
	// Empty means "use only the file's base name when writing".
	Base     string
	Contents []byte
}

// Rel returns the path of the file relative to its base. Files outside the
// base, or files without one, flatten down to their base name.
func (f *File) Rel() string {
	if f.Base != "" {
		rel, err := filepath.Rel(f.Base, f.Path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(f.Path)
}

// Clone returns a deep copy so that one transform cannot observe another
// file's mutations.
func (f *File) Clone() *File {
	contents := make([]byte, len(f.Contents))
	copy(contents, f.Contents)
	return &File{
		Path:     f.Path,
		Base:     f.Base,
		Contents: contents,
	}
}
