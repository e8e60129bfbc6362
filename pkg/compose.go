package gild

import (
	"context"

	"github.com/sirupsen/logrus"
)

// composer turns canonical Tasks into Actions for one compile pass. Actions
// are memoized per Task so shared sub-tasks compose exactly once; the
// visiting slice is the explicit cycle guard for alias chains.
type composer struct {
	table    map[string]*Task
	memo     map[*Task]*Action
	visiting []string
	logger   *logrus.Logger
}

func newComposer(table map[string]*Task, logger *logrus.Logger) *composer {
	return &composer{
		table:  table,
		memo:   map[*Task]*Action{},
		logger: logger,
	}
}

func (c *composer) compose(t *Task) (*Action, error) {
	if a, ok := c.memo[t]; ok {
		return a, nil
	}
	a, err := c.build(t)
	if err != nil {
		return nil, err
	}
	c.memo[t] = a
	return a, nil
}

func (c *composer) build(t *Task) (*Action, error) {
	switch t.Kind {
	case KindAlias:
		return c.buildAlias(t)

	case KindCallback:
		fn := t.Fn
		return NewAction(t.DisplayName(), func(ctx context.Context) error {
			if fn == nil {
				return nil
			}
			return fn(ctx)
		}), nil

	case KindPipeline:
		// The stream is built lazily so every run re-reads the sources.
		logger := c.logger
		return NewAction(t.DisplayName(), func(ctx context.Context) error {
			return runPipeline(ctx, t, logger)
		}), nil

	case KindWrapped:
		inner, err := c.compose(t.Inner)
		if err != nil {
			return nil, err
		}
		return NewAction(t.DisplayName(), inner.Run), nil

	case KindSeries:
		steps, err := c.composeSteps(t.Steps)
		if err != nil {
			return nil, err
		}
		return InSeries(t.DisplayName(), steps...), nil

	case KindParallel:
		steps, err := c.composeSteps(t.Steps)
		if err != nil {
			return nil, err
		}
		return InParallel(t.DisplayName(), steps...), nil
	}

	return nil, &InvalidTaskShapeError{Task: t.DisplayName(), Kind: t.Kind}
}

func (c *composer) buildAlias(t *Task) (*Action, error) {
	for _, seen := range c.visiting {
		if seen == t.Target {
			return nil, &CircularAliasError{Chain: append(append([]string{}, c.visiting...), t.Target)}
		}
	}

	target, ok := c.table[t.Target]
	if !ok {
		return nil, &UndefinedTaskError{Name: t.Target}
	}

	c.visiting = append(c.visiting, t.Target)
	resolved, err := c.compose(target)
	c.visiting = c.visiting[:len(c.visiting)-1]
	if err != nil {
		return nil, err
	}

	targetName := t.Target
	logger := c.logger
	return NewAction(t.DisplayName(), func(ctx context.Context) error {
		logger.WithFields(logrus.Fields{"task": targetName}).Debug("running aliased task")
		return resolved.Run(ctx)
	}), nil
}

func (c *composer) composeSteps(tasks []*Task) ([]*Action, error) {
	actions := make([]*Action, 0, len(tasks))
	for _, t := range tasks {
		a, err := c.compose(t)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
