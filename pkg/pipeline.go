package gild

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gild-run/gild/pkg/fsx"
)

// runPipeline streams the task's source records through its transform chain,
// applies the rename, and writes to the destination sink if one is set. Any
// transform or stream error fails the whole pipeline.
func runPipeline(ctx context.Context, t *Task, logger *logrus.Logger) error {
	var stream fsx.Stream
	if t.File != nil {
		stream = fsx.FromFile(t.File.Clone())
	} else {
		var err error
		stream, err = fsx.Src(t.Src, fsx.SrcOptions{Base: t.Base})
		if err != nil {
			return err
		}
	}

	var sink *fsx.Sink
	if t.Dest != "" {
		sink = fsx.Dest(t.Dest)
	}

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		out, err := applyTransforms(t, f)
		if err != nil {
			return err
		}
		if t.Rename != nil {
			t.Rename(out)
		}
		if sink != nil {
			if err := sink.Write(out); err != nil {
				return err
			}
		}
		count++
	}

	logger.WithFields(logrus.Fields{"task": t.DisplayName(), "files": count}).Debug("pipeline finished")
	return nil
}

func applyTransforms(t *Task, f *fsx.File) (*fsx.File, error) {
	for i, transform := range t.Transforms {
		out, err := transform(f.Contents, f)
		if err != nil {
			return nil, errors.Wrapf(err, "task %s: transform %d failed on %s", t.DisplayName(), i+1, f.Path)
		}
		switch v := out.(type) {
		case *fsx.File:
			f = v
		case fsx.File:
			f = &v
		case []byte:
			f.Contents = v
		case string:
			f.Contents = []byte(v)
		default:
			return nil, &TransformContractError{Task: t.DisplayName(), Path: f.Path, Value: out}
		}
	}
	return f, nil
}
