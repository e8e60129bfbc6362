// Package watchfs observes filesystem paths and invokes a callback on
// change, with optional debouncing. It is the watch backend consumed by the
// task compiler; callers treat it as a black box with a Close contract.
package watchfs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Observer watches a set of paths or glob patterns until closed.
//
// Close is safe to call any number of times and only returns once the event
// loop has fully stopped, so no callback fires after Close returns.
type Observer struct {
	watcher  *fsnotify.Watcher
	patterns []string
	delay    time.Duration
	onChange func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Observe starts watching paths. Each path may be a file, a directory, or a
// doublestar glob; globs are anchored at their non-magic prefix. A delay of
// zero reports every event immediately.
func Observe(paths []string, delay time.Duration, onChange func(path string)) (*Observer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	o := &Observer{
		watcher:  watcher,
		patterns: paths,
		delay:    delay,
		onChange: onChange,
		timers:   map[string]*time.Timer{},
		done:     make(chan struct{}),
	}

	for _, p := range paths {
		if err := o.addTarget(p); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go o.loop()

	return o, nil
}

func (o *Observer) addTarget(pattern string) error {
	if !hasMeta(pattern) {
		// Plain path: watch the directory so renames are seen too.
		info, err := os.Stat(pattern)
		if err == nil && info.IsDir() {
			return o.addDirRecursively(pattern)
		}
		return errors.Wrapf(o.watcher.Add(filepath.Dir(pattern)), "watching %s", pattern)
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return o.addDirRecursively(filepath.FromSlash(base))
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func (o *Observer) addDirRecursively(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", dir)
		}
		if info.IsDir() {
			if err := o.watcher.Add(path); err != nil {
				return errors.Wrapf(err, "watching %s", path)
			}
		}
		return nil
	})
}

func (o *Observer) matches(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range o.patterns {
		p := filepath.ToSlash(pattern)
		if !hasMeta(p) {
			// Plain paths match themselves and anything beneath them.
			if slashed == p || withinDir(p, slashed) {
				return true
			}
			continue
		}
		if ok, err := doublestar.Match(p, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(path))
	return err == nil && rel != ".." && !filepath.IsAbs(rel) &&
		!(len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator))
}

func (o *Observer) loop() {
	defer close(o.done)
	for {
		select {
		case ev, ok := <-o.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// Keep watching directories that appear under a
				// watched tree.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := o.watcher.Add(ev.Name); err != nil {
						log.Debugf("watchfs: cannot watch new directory %s: %v", ev.Name, err)
					}
					continue
				}
			}
			if !o.matches(ev.Name) {
				continue
			}
			o.report(ev.Name)
		case err, ok := <-o.watcher.Errors:
			if !ok {
				return
			}
			log.Debugf("watchfs: %v", err)
		}
	}
}

func (o *Observer) report(path string) {
	if o.delay <= 0 {
		o.onChange(path)
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if t, ok := o.timers[path]; ok {
		t.Stop()
	}
	o.timers[path] = time.AfterFunc(o.delay, func() {
		o.onChange(path)
	})
}

func (o *Observer) Close() error {
	o.closeOnce.Do(func() {
		o.closeErr = o.watcher.Close()
		<-o.done
		o.mu.Lock()
		for _, t := range o.timers {
			t.Stop()
		}
		o.mu.Unlock()
	})
	return o.closeErr
}
