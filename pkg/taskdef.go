// Package gild compiles a declarative map of task descriptions into named,
// runnable actions: aliases resolve through the task table, series and
// parallel groups compose recursively, file pipelines stream records through
// transform chains, and tasks flagged for watching get a synthesized "watch"
// task observing their sources.
package gild

import (
	"context"
	"path/filepath"

	"github.com/mitchellh/mapstructure"

	"github.com/gild-run/gild/pkg/fsx"
	"github.com/gild-run/gild/pkg/util/maputil"
)

// Func is the one calling convention for a unit of work: it runs to
// completion and reports its outcome through the returned error.
type Func func(ctx context.Context) error

// Sync adapts a plain function with no completion signalling of its own.
func Sync(fn func() error) Func {
	return func(context.Context) error {
		return fn()
	}
}

// Transform maps one file's contents to new contents. It may return a
// *fsx.File (taking full control of the record), []byte, or string; anything
// else fails the pipeline with a TransformContractError.
type Transform func(contents []byte, f *fsx.File) (interface{}, error)

// RenameFunc rewrites a file record's path after all transforms ran.
type RenameFunc func(f *fsx.File)

// RenameTo renames every file in a pipeline to the given base name, keeping
// its directory.
func RenameTo(name string) RenameFunc {
	return func(f *fsx.File) {
		f.Path = filepath.Join(filepath.Dir(f.Path), name)
	}
}

// DefSpec is the object shape of a raw task description. Exactly one of the
// source group (Src/File) and the nesting group (Task/Series/Parallel) may be
// used; the validator enforces this before normalization.
type DefSpec struct {
	// Src is a path or doublestar glob feeding the pipeline.
	Src string `yaml:"src,omitempty" mapstructure:"src"`
	// File is an inline record used as a single-element source instead
	// of Src.
	File       *fsx.File   `yaml:"-" mapstructure:"-"`
	Transforms []Transform `yaml:"-" mapstructure:"-"`
	Rename     RenameFunc  `yaml:"-" mapstructure:"-"`
	Dest       string      `yaml:"dest,omitempty" mapstructure:"dest"`
	Base       string      `yaml:"base,omitempty" mapstructure:"base"`

	// Task wraps one nested description; Series and Parallel compose many.
	Task     interface{}   `yaml:"task,omitempty" mapstructure:"task"`
	Series   []interface{} `yaml:"series,omitempty" mapstructure:"series"`
	Parallel []interface{} `yaml:"parallel,omitempty" mapstructure:"parallel"`

	// Watch asks for the task to be re-run when Src changes. WatchGlob
	// names an explicit pattern instead of reusing Src.
	Watch     bool   `yaml:"-" mapstructure:"-"`
	WatchGlob string `yaml:"-" mapstructure:"-"`
}

// Template is the default pipeline configuration merged into every
// pipeline-shaped task. Explicit task values always win over the template.
type Template struct {
	Transforms []Transform
	Dest       string
	Base       string
}

func defaultTemplate() *Template {
	return &Template{
		Transforms: []Transform{},
		Dest:       ".",
	}
}

// decodeSpec turns a raw map description into a DefSpec. Keys holding typed
// values that mapstructure cannot decode (functions, file records, the
// bool-or-string watch field) are popped off first.
func decodeSpec(name string, raw map[string]interface{}) (*DefSpec, error) {
	m := map[string]interface{}{}
	for k, v := range raw {
		m[k] = v
	}

	spec := &DefSpec{}

	switch w := m["watch"].(type) {
	case nil:
	case bool:
		spec.Watch = w
	case string:
		spec.WatchGlob = w
	default:
		return nil, structureErrorf(name, "watch must be true or a path, got %T", w)
	}
	delete(m, "watch")

	if v, ok := m["file"]; ok {
		f, isFile := v.(*fsx.File)
		if !isFile {
			return nil, structureErrorf(name, "file must be a *fsx.File, got %T", v)
		}
		spec.File = f
		delete(m, "file")
	}

	if v, ok := m["transforms"]; ok {
		ts, isTransforms := v.([]Transform)
		if !isTransforms {
			return nil, structureErrorf(name, "transforms must be a []Transform, got %T", v)
		}
		spec.Transforms = ts
		delete(m, "transforms")
	}

	if v, ok := m["rename"]; ok {
		switch r := v.(type) {
		case RenameFunc:
			spec.Rename = r
		case func(*fsx.File):
			spec.Rename = r
		case string:
			spec.Rename = RenameTo(r)
		default:
			return nil, structureErrorf(name, "rename must be a name or a RenameFunc, got %T", v)
		}
		delete(m, "rename")
	}

	config := &mapstructure.DecoderConfig{
		Result:      spec,
		ErrorUnused: true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, structureErrorf(name, "%v", err)
	}

	return spec, nil
}

// asSpec coerces the object-shaped raw descriptions Compile accepts into a
// private copy of a DefSpec.
func asSpec(name string, raw interface{}) (*DefSpec, bool, error) {
	switch v := raw.(type) {
	case *DefSpec:
		spec := *v
		return &spec, true, nil
	case DefSpec:
		return &v, true, nil
	case map[string]interface{}:
		spec, err := decodeSpec(name, v)
		return spec, true, err
	case map[interface{}]interface{}:
		m, err := maputil.CastKeysToStrings(v)
		if err != nil {
			return nil, true, structureErrorf(name, "%v", err)
		}
		spec, err := decodeSpec(name, m)
		return spec, true, err
	}
	return nil, false, nil
}

// asFunc coerces the function shapes Compile accepts into the canonical
// contract.
func asFunc(raw interface{}) (Func, bool) {
	switch fn := raw.(type) {
	case Func:
		return fn, true
	case func(ctx context.Context) error:
		return fn, true
	case func() error:
		return Sync(fn), true
	}
	return nil, false
}
