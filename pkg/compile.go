package gild

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// Options configures one compile pass.
type Options struct {
	// Template is the default pipeline configuration merged into every
	// pipeline-shaped task. Nil selects the built-in default (no
	// transforms, current-directory destination).
	Template *Template
	// Logger receives compile and watch diagnostics. Nil discards all
	// output.
	Logger *logrus.Logger
	// Beep enables audible completion signalling for watch-triggered
	// runs.
	Beep bool
	// Registry, when non-nil, additionally receives every compiled
	// action under its task name, overwriting prior registrations.
	Registry *Registry

	// Tones is where beep signals are written; defaults to stderr.
	Tones io.Writer

	observe observeFunc
}

// compilation owns one compile pass: the task table is built, extended with
// a synthesized watch task, composed into actions, and then discarded.
// Nothing survives into the next Compile call.
type compilation struct {
	table    map[string]*Task
	composer *composer
	logger   *logrus.Logger
	beep     bool
	tones    io.Writer
	observe  observeFunc
}

// Compile turns a map of raw task descriptions into runnable actions. A raw
// description is a task name (alias), a Func, or an object shape (*DefSpec
// or an equivalent map). Structural errors abort the whole call: the caller
// sees a fully formed action set or none at all.
func Compile(defs map[string]interface{}, opts Options) (map[string]*Action, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	tpl := opts.Template
	if tpl == nil {
		tpl = defaultTemplate()
	}
	tones := opts.Tones
	if tones == nil {
		tones = os.Stderr
	}
	observe := opts.observe
	if observe == nil {
		observe = defaultObserve
	}

	c := &compilation{
		table:   map[string]*Task{},
		logger:  logger,
		beep:    opts.Beep,
		tones:   tones,
		observe: observe,
	}

	for _, name := range sortedDefKeys(defs) {
		t, err := normalize(defs[name], tpl, name)
		if err != nil {
			return nil, err
		}
		c.table[name] = t
	}

	c.synthesizeWatch()

	c.composer = newComposer(c.table, logger)

	actions := map[string]*Action{}
	for _, name := range sortedKeys(c.table) {
		a, err := c.composer.compose(c.table[name])
		if err != nil {
			return nil, err
		}
		actions[name] = a
	}

	if opts.Registry != nil {
		for name, a := range actions {
			opts.Registry.Register(name, a)
		}
	}

	return actions, nil
}

// actionFor resolves a task's memoized action at run time. Every task
// reachable from the table is composed before any action can run, so the
// memo lookup is expected to hit.
func (c *compilation) actionFor(t *Task) *Action {
	if a, ok := c.composer.memo[t]; ok {
		return a
	}
	a, err := c.composer.compose(t)
	if err != nil {
		c.logger.Errorf("composing %s: %v", t.DisplayName(), err)
		return NewAction(t.DisplayName(), func(context.Context) error { return err })
	}
	return a
}

func sortedKeys(m map[string]*Task) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDefKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
