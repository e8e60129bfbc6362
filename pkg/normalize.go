package gild

import (
	"dario.cat/mergo"

	"github.com/pkg/errors"
)

// normalize converts one raw description into a canonical Task. The template
// is merged into pipeline-shaped objects only and never propagates into
// nested descriptions. The name argument is the registry key; nested tasks
// normalize with an empty name and stay anonymous unless they can inherit
// one.
func normalize(raw interface{}, tpl *Template, name string) (*Task, error) {
	if err := validateRaw(name, raw); err != nil {
		return nil, err
	}

	if target, ok := raw.(string); ok {
		n := name
		if n == "" {
			n = target
		}
		return &Task{Name: n, Kind: KindAlias, Target: target}, nil
	}

	if fn, ok := asFunc(raw); ok {
		return &Task{Name: name, Kind: KindCallback, Fn: fn}, nil
	}

	spec, _, err := asSpec(name, raw)
	if err != nil {
		return nil, err
	}
	if err := spec.validate(name); err != nil {
		return nil, err
	}

	pipelineShaped := spec.Task == nil && len(spec.Series) == 0 && len(spec.Parallel) == 0
	if pipelineShaped && tpl != nil {
		if err := mergeTemplate(spec, tpl); err != nil {
			return nil, errors.Wrapf(err, "merging template into task %s", name)
		}
	}

	if spec.Watch && spec.WatchGlob == "" {
		spec.WatchGlob = spec.Src
	}

	switch {
	case spec.Task != nil:
		inner, err := normalize(spec.Task, nil, "")
		if err != nil {
			return nil, err
		}
		t := &Task{Name: name, Kind: KindWrapped, Inner: inner, WatchGlob: spec.WatchGlob}
		if t.Name == "" {
			t.Name = inner.Name
		}
		return t, nil

	case len(spec.Series) > 0:
		steps, err := normalizeSteps(spec.Series)
		if err != nil {
			return nil, err
		}
		return &Task{Name: name, Kind: KindSeries, Steps: steps, WatchGlob: spec.WatchGlob}, nil

	case len(spec.Parallel) > 0:
		steps, err := normalizeSteps(spec.Parallel)
		if err != nil {
			return nil, err
		}
		return &Task{Name: name, Kind: KindParallel, Steps: steps, WatchGlob: spec.WatchGlob}, nil

	default:
		return &Task{
			Name:       name,
			Kind:       KindPipeline,
			Src:        spec.Src,
			File:       spec.File,
			Transforms: spec.Transforms,
			Rename:     spec.Rename,
			Dest:       spec.Dest,
			Base:       spec.Base,
			WatchGlob:  spec.WatchGlob,
		}, nil
	}
}

func normalizeSteps(raws []interface{}) ([]*Task, error) {
	steps := make([]*Task, 0, len(raws))
	for _, raw := range raws {
		step, err := normalize(raw, nil, "")
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// mergeTemplate fills empty pipeline fields from the template; values already
// present on the task are never overridden.
func mergeTemplate(spec *DefSpec, tpl *Template) error {
	defaults := DefSpec{
		Transforms: tpl.Transforms,
		Dest:       tpl.Dest,
		Base:       tpl.Base,
	}
	return mergo.Merge(spec, defaults)
}
