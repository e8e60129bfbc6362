package gild

import (
	"context"
	"io"
	"sync"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/gild-run/gild/pkg/watchfs"
)

// WatchTaskName is the reserved name of the synthesized watch task. A
// user-defined task of the same name suppresses synthesis.
const WatchTaskName = "watch"

// observeFunc is the watch collaborator boundary; tests swap in a fake.
type observeFunc func(paths []string, delay time.Duration, onChange func(path string)) (io.Closer, error)

func defaultObserve(paths []string, delay time.Duration, onChange func(path string)) (io.Closer, error) {
	return watchfs.Observe(paths, delay, onChange)
}

// synthesizeWatch adds a "watch" task to the table if any task is flagged
// for watching and the name is still free. It reports whether a task was
// added.
func (c *compilation) synthesizeWatch() bool {
	if _, ok := c.table[WatchTaskName]; ok {
		c.logger.Warnf("a task named %q is already defined; not synthesizing one", WatchTaskName)
		return false
	}

	watched := collectWatched(c.table)
	if len(watched) == 0 {
		return false
	}

	c.table[WatchTaskName] = &Task{
		Name: WatchTaskName,
		Kind: KindCallback,
		Fn:   c.watchFunc(watched),
	}
	return true
}

// collectWatched walks every task in the table, descending through wrapped,
// series and parallel nesting, and returns each watched task once in stable
// table-key order.
func collectWatched(table map[string]*Task) []*Task {
	seen := map[*Task]bool{}
	var watched []*Task

	var walk func(t *Task)
	walk = func(t *Task) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		if t.Watched() {
			watched = append(watched, t)
		}
		walk(t.Inner)
		for _, step := range t.Steps {
			walk(step)
		}
	}

	for _, name := range sortedKeys(table) {
		walk(table[name])
	}
	return watched
}

// watchFunc builds the synthesized task's unit of work: attach one observer
// per watched task, re-run that task's action on change, and tear all
// observers down concurrently when the context is cancelled.
func (c *compilation) watchFunc(watched []*Task) Func {
	return func(ctx context.Context) error {
		sig := newSignaller(c.beep, c.tones, c.logger)

		observers := make([]io.Closer, 0, len(watched))
		closeAll := func() error {
			var wg sync.WaitGroup
			var mu sync.Mutex
			var result *multierror.Error
			for _, obs := range observers {
				obs := obs
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := obs.Close(); err != nil {
						mu.Lock()
						result = multierror.Append(result, err)
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			return result.ErrorOrNil()
		}

		for _, wt := range watched {
			wt := wt
			action := c.actionFor(wt)

			c.logger.WithFields(logrus.Fields{
				"task": wt.DisplayName(),
				"path": wt.WatchGlob,
			}).Info("watching for changes")

			obs, err := c.observe([]string{wt.WatchGlob}, 0, func(path string) {
				c.logger.WithFields(logrus.Fields{
					"task": wt.DisplayName(),
					"path": path,
				}).Info("change detected")
				go sig.run(ctx, action)
			})
			if err != nil {
				closeAll()
				return err
			}
			observers = append(observers, obs)
		}

		<-ctx.Done()
		return closeAll()
	}
}
