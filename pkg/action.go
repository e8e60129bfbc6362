package gild

import (
	"context"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
)

// Action is the compiled, invocable form of a Task. One Action is produced
// per Task per compile pass and may be run any number of times.
type Action struct {
	// Name is the display name used for diagnostics and watch logging.
	Name string
	run  Func
}

func NewAction(name string, run Func) *Action {
	if name == "" {
		name = anonymousName
	}
	return &Action{Name: name, run: run}
}

func (a *Action) Run(ctx context.Context) error {
	if a.run == nil {
		return nil
	}
	return a.run(ctx)
}

func (a *Action) String() string {
	return a.Name
}

// InSeries runs actions strictly in order, aborting at the first failure.
// The failing action's error is returned unchanged.
func InSeries(name string, actions ...*Action) *Action {
	return NewAction(name, func(ctx context.Context) error {
		for _, a := range actions {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.Run(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// InParallel starts all actions concurrently and waits for every one of them
// before reporting. A single failure is returned unchanged; multiple
// failures aggregate into a multierror.
func InParallel(name string, actions ...*Action) *Action {
	return NewAction(name, func(ctx context.Context) error {
		var wg sync.WaitGroup
		var mu sync.Mutex
		var result *multierror.Error

		for _, a := range actions {
			a := a
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := a.Run(ctx); err != nil {
					mu.Lock()
					result = multierror.Append(result, err)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if result == nil {
			return nil
		}
		if len(result.Errors) == 1 {
			return result.Errors[0]
		}
		return result
	})
}
