package fsx

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Stream produces file records one at a time. Next returns io.EOF once the
// stream is exhausted.
type Stream interface {
	Next() (*File, error)
}

// FromFile returns a stream that emits the given record once and then ends.
func FromFile(f *File) Stream {
	return FromFiles(f)
}

// FromFiles returns a stream over an in-memory list of records.
func FromFiles(files ...*File) Stream {
	return &sliceStream{files: files}
}

type sliceStream struct {
	files []*File
	i     int
}

func (s *sliceStream) Next() (*File, error) {
	if s.i >= len(s.files) {
		return nil, io.EOF
	}
	f := s.files[s.i]
	s.i++
	return f, nil
}

// globStream reads matched paths lazily, one file per Next call.
type globStream struct {
	base  string
	paths []string
	i     int
}

func (s *globStream) Next() (*File, error) {
	for s.i < len(s.paths) {
		path := s.paths[s.i]
		s.i++

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if info.IsDir() {
			continue
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}

		return &File{Path: path, Base: s.base, Contents: contents}, nil
	}
	return nil, io.EOF
}
