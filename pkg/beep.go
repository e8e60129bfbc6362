package gild

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// quietPeriod is how long a watched run's completion waits before signalling,
// so overlapping runs produce one tone instead of a burst.
const quietPeriod = 100 * time.Millisecond

// signaller funnels watch-triggered runs through shared completion tracking.
// The running counter is incremented before a run starts and decremented
// after it settles; a tone is emitted only when the counter has drained.
type signaller struct {
	mu      sync.Mutex
	running int

	beep   bool
	out    io.Writer
	logger *logrus.Logger
}

func newSignaller(beep bool, out io.Writer, logger *logrus.Logger) *signaller {
	return &signaller{beep: beep, out: out, logger: logger}
}

// run executes a watch-triggered action. Failures are logged, never
// propagated: a failing watched run must not stop observation.
func (s *signaller) run(ctx context.Context, action *Action) {
	s.mu.Lock()
	s.running++
	s.mu.Unlock()

	err := action.Run(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"task": action.Name}).Errorf("watched run failed: %v", err)
	}

	s.mu.Lock()
	s.running--
	s.mu.Unlock()

	if !s.beep {
		return
	}

	time.AfterFunc(quietPeriod, func() {
		s.mu.Lock()
		idle := s.running == 0
		s.mu.Unlock()
		if !idle {
			return
		}
		if err != nil {
			s.tone(3)
		} else {
			s.tone(1)
		}
	})
}

func (s *signaller) tone(n int) {
	for i := 0; i < n; i++ {
		fmt.Fprint(s.out, "\a")
	}
}
