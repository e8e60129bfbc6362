package gild

// validateRaw rejects descriptions that are neither a task name, a function,
// nor an object shape. Object-level rules live in DefSpec.validate and run
// after decoding, before any normalization happens.
func validateRaw(name string, raw interface{}) error {
	if raw == nil {
		return structureErrorf(name, "task description is nil")
	}
	if _, ok := raw.(string); ok {
		return nil
	}
	if _, ok := asFunc(raw); ok {
		return nil
	}
	switch raw.(type) {
	case *DefSpec, DefSpec, map[string]interface{}, map[interface{}]interface{}:
		return nil
	}
	return structureErrorf(name, "must be a task name, a function, or a task object, got %T", raw)
}

func (s *DefSpec) validate(name string) error {
	hasSource := s.Src != "" || s.File != nil

	nested := 0
	if s.Task != nil {
		nested++
	}
	if len(s.Series) > 0 {
		nested++
	}
	if len(s.Parallel) > 0 {
		nested++
	}

	if !hasSource && nested == 0 {
		return structureErrorf(name, "task does nothing: define one of src, file, task, series or parallel")
	}
	if hasSource && nested > 0 {
		return structureErrorf(name, "src cannot be combined with task, series or parallel")
	}
	if nested > 1 {
		return structureErrorf(name, "only one of task, series or parallel is allowed")
	}
	if s.Src != "" && s.File != nil {
		return structureErrorf(name, "src and file are mutually exclusive")
	}
	if s.Watch && s.Src == "" {
		return structureErrorf(name, "watch: true requires src")
	}
	return nil
}
