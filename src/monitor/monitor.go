// Package monitor coordinates the two schedulers: it owns the shared
// cancellation context, the run counters, and the shutdown sequencing.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analysis"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/capture"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/screenshot"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/worker"
)

// Mode selects how analysis is driven.
type Mode string

const (
	// ModeBatch analyzes the whole directory on its own timer.
	ModeBatch Mode = "batch"
	// ModeStream analyzes each image right after capture.
	ModeStream Mode = "stream"
)

// Config wires a Monitor.
type Config struct {
	Source           capture.Source
	Dir              string
	Prefix           string
	Format           string
	CaptureInterval  time.Duration
	AnalysisInterval time.Duration
	Region           *screenshot.Region
	Mode             Mode
	Analyzer         *analyzer.Analyzer
	MaxConcurrent    int
	Sink             analysis.ReportSink
}

// Monitor owns both schedulers and the run lifecycle.
type Monitor struct {
	cfg  Config
	run  *RunState
	sink analysis.ReportSink

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	ctx    context.Context

	wg   sync.WaitGroup
	pool *worker.Pool
}

// New builds a Monitor in StateIdle.
func New(cfg Config) *Monitor {
	m := &Monitor{
		cfg:   cfg,
		run:   NewRunState(),
		state: StateIdle,
	}
	m.sink = &countingSink{run: m.run, next: cfg.Sink}
	return m
}

// RunState exposes the run counters (read-side for callers, write-side for
// the scheduler sinks).
func (m *Monitor) RunState() *RunState { return m.run }

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start launches both schedulers. It is an error to start a monitor that is
// not idle.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return fmt.Errorf("monitor: cannot start from state %s", m.state)
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.state = StateRunning
	m.mu.Unlock()

	log.Printf("monitor: run %s starting (mode=%s)", m.run.RunID, m.cfg.Mode)

	if m.cfg.Mode == ModeStream {
		m.pool = worker.New(m.cfg.MaxConcurrent, m.cfg.Analyzer)
	}

	capScheduler := capture.NewScheduler(capture.SchedulerConfig{
		Source:   m.cfg.Source,
		Dir:      m.cfg.Dir,
		Prefix:   m.cfg.Prefix,
		Format:   m.cfg.Format,
		Interval: m.cfg.CaptureInterval,
		Region:   m.cfg.Region,
		Sink:     m.onCapture,
	})
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		capScheduler.Run(m.ctx)
	}()

	if m.cfg.Mode == ModeBatch {
		anScheduler := analysis.NewScheduler(m.cfg.Dir, m.cfg.AnalysisInterval, m.cfg.Analyzer, m.sink)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			anScheduler.Run(m.ctx)
		}()
	}

	return nil
}

// Stop requests cancellation, waits for both schedulers to observe it and
// return, then reports the final counts. Safe to call once per run; calls
// in other states are no-ops returning the current report.
func (m *Monitor) Stop() FinalReport {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return m.run.report()
	}
	m.state = StateStopRequested
	cancel := m.cancel
	m.mu.Unlock()

	log.Printf("monitor: run %s stop requested", m.run.RunID)
	cancel()
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Close()
	}

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()

	report := m.run.report()
	log.Printf("monitor: run %s stopped: captured=%d analyzed=%d calories=%d errors=%d",
		report.RunID, report.ImagesCaptured, report.AnalysesRun, report.TotalCalories, report.Errors)
	return report
}

// onCapture is the capture scheduler's sink: count the image and, in
// streaming mode, hand it to the analysis pool.
func (m *Monitor) onCapture(img capture.Image) {
	m.run.CaptureCount.Add(1)

	if m.cfg.Mode != ModeStream {
		return
	}
	if !m.pool.Submit(m.ctx, img.Path, m.sink.Result) {
		log.Printf("monitor: analysis backlog full, skipping streaming analysis for %s", img.Path)
	}
}

// countingSink folds every reported result into the run counters before
// forwarding to the operator-facing sink.
type countingSink struct {
	run  *RunState
	next analysis.ReportSink
}

func (s *countingSink) Result(res analyzer.Result) {
	s.run.AnalysisCount.Add(1)
	if res.Status == analyzer.StatusError {
		s.run.Errors.Add(1)
	} else {
		s.run.TotalCalories.Add(int64(res.Detection.TotalCalories))
		if res.Detection.TotalCalories > 0 {
			s.run.FoodImages.Add(1)
		}
	}
	if s.next != nil {
		s.next.Result(res)
	}
}

func (s *countingSink) Summary(sum analyzer.Summary) {
	if s.next != nil {
		s.next.Summary(sum)
	}
}
