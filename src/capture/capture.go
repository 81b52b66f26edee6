// Package capture runs the periodic screenshot loop. It owns the sequence
// counter and the on-disk naming scheme, and corrects for per-tick capture
// latency so the long-run cadence matches the configured interval.
package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/screenshot"
)

// Source produces encoded image bytes for a region (nil means full screen).
type Source func(region *screenshot.Region) ([]byte, error)

// Image describes one persisted capture. Immutable once written.
type Image struct {
	Path       string
	Sequence   int
	CapturedAt time.Time
}

// Sink receives each successfully persisted capture.
type Sink func(Image)

// SchedulerConfig wires a Scheduler.
type SchedulerConfig struct {
	Source   Source
	Dir      string
	Prefix   string
	Format   string
	Interval time.Duration
	Region   *screenshot.Region
	Sink     Sink
}

// Scheduler captures images at a fixed nominal cadence until its context is
// cancelled. Not safe for concurrent Run calls.
type Scheduler struct {
	cfg SchedulerConfig
	seq int

	// Injected for tests; default to the wall clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Run executes capture ticks until ctx is cancelled. The next-tick sleep is
// computed from a fixed reference start time, so capture latency does not
// accumulate drift: sleep = interval - (elapsed mod interval), never
// negative.
func (s *Scheduler) Run(ctx context.Context) {
	start := s.now()
	log.Printf("capture: starting, interval=%s dir=%s", s.cfg.Interval, s.cfg.Dir)

	for {
		if ctx.Err() != nil {
			log.Printf("capture: stopping after %d captures", s.seq)
			return
		}

		s.tick()

		if s.cfg.Interval <= 0 {
			// Back-to-back mode; still yield to cancellation.
			if !s.sleep(ctx, 0) {
				return
			}
			continue
		}

		elapsed := s.now().Sub(start)
		wait := s.cfg.Interval - elapsed%s.cfg.Interval
		if wait < 0 {
			wait = 0
		}
		if !s.sleep(ctx, wait) {
			log.Printf("capture: stopping after %d captures", s.seq)
			return
		}
	}
}

// tick captures and persists one image. A failed capture is a skipped tick:
// logged, sequence untouched.
func (s *Scheduler) tick() {
	capturedAt := s.now()

	data, err := s.cfg.Source(s.cfg.Region)
	if err != nil {
		log.Printf("capture: tick skipped: %v", err)
		return
	}

	name := fmt.Sprintf("%s_%s_%06d.%s", s.cfg.Prefix, capturedAt.Format("20060102_150405"), s.seq, s.cfg.Format)
	path := filepath.Join(s.cfg.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("capture: tick skipped, could not write %s: %v", name, err)
		return
	}

	img := Image{Path: path, Sequence: s.seq, CapturedAt: capturedAt}
	s.seq++
	log.Printf("capture: saved #%d %s (%d bytes)", s.seq, name, len(data))

	if s.cfg.Sink != nil {
		s.cfg.Sink(img)
	}
}

// sleepCtx waits d or until ctx is cancelled; reports false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
