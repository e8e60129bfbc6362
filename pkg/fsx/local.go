package fsx

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

type SrcOptions struct {
	// Base overrides the base directory inferred from the pattern's
	// non-magic prefix.
	Base string
}

// Src opens a glob pattern (or a plain path) as a stream of file records.
// Matches are emitted in lexical order so pipelines behave deterministically.
func Src(pattern string, opts SrcOptions) (Stream, error) {
	base := opts.Base
	if base == "" {
		base, _ = doublestar.SplitPattern(filepath.ToSlash(pattern))
		if base == "." || base == "" {
			base = ""
		} else {
			base = filepath.FromSlash(base)
		}
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad pattern %q", pattern)
	}
	sort.Strings(paths)

	return &globStream{base: base, paths: paths}, nil
}

// Sink writes file records under a destination directory, preserving each
// record's base-relative layout.
type Sink struct {
	dir string
}

func Dest(dir string) *Sink {
	return &Sink{dir: dir}
}

func (s *Sink) Write(f *File) error {
	target := filepath.Join(s.dir, f.Rel())
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", target)
	}
	if err := os.WriteFile(target, f.Contents, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", target)
	}
	return nil
}
