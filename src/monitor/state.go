package monitor

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the coordinator lifecycle. Transitions only move forward:
// Idle -> Running -> StopRequested -> Stopped, and StopRequested is never
// skipped even when a scheduler is already idle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopRequested
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopRequested:
		return "stop-requested"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RunState carries the per-run counters shared between the schedulers'
// sinks. All counters are atomics; both scheduler goroutines update them.
type RunState struct {
	RunID string

	CaptureCount  atomic.Int64
	AnalysisCount atomic.Int64
	FoodImages    atomic.Int64
	TotalCalories atomic.Int64
	Errors        atomic.Int64
}

func NewRunState() *RunState {
	return &RunState{RunID: uuid.NewString()}
}

// FinalReport is the run-level summary emitted once the monitor stops.
type FinalReport struct {
	RunID          string
	ImagesCaptured int64
	AnalysesRun    int64
	FoodImages     int64
	TotalCalories  int64
	Errors         int64
}

func (r *RunState) report() FinalReport {
	return FinalReport{
		RunID:          r.RunID,
		ImagesCaptured: r.CaptureCount.Load(),
		AnalysesRun:    r.AnalysisCount.Load(),
		FoodImages:     r.FoodImages.Load(),
		TotalCalories:  r.TotalCalories.Load(),
		Errors:         r.Errors.Load(),
	}
}
