// Package analysis runs the periodic batch pass over the capture directory:
// on each tick every image currently on disk is analyzed and the batch is
// folded into a summary for the report sink. The first pass runs only after
// one full interval, giving the capture loop time to produce images.
package analysis

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
)

// ReportSink receives per-image results and per-batch summaries.
type ReportSink interface {
	Result(res analyzer.Result)
	Summary(sum analyzer.Summary)
}

// Scheduler drives periodic batch analysis until its context is cancelled.
type Scheduler struct {
	dir      string
	interval time.Duration
	an       *analyzer.Analyzer
	sink     ReportSink
}

func NewScheduler(dir string, interval time.Duration, an *analyzer.Analyzer, sink ReportSink) *Scheduler {
	return &Scheduler{dir: dir, interval: interval, an: an, sink: sink}
}

// Run ticks every interval. The ticker's first fire already gives the
// required initial delay before the first batch.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("analysis: starting, interval=%s dir=%s", s.interval, s.dir)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("analysis: stopping")
			return
		case <-ticker.C:
			s.RunBatch(ctx)
		}
	}
}

// RunBatch analyzes every image currently in the directory. Per-image
// failures surface as error results; only an unreadable directory aborts
// the pass (and just that pass).
func (s *Scheduler) RunBatch(ctx context.Context) {
	paths, err := ListImages(s.dir)
	if err != nil {
		log.Printf("analysis: cannot list %s: %v", s.dir, err)
		return
	}
	if len(paths) == 0 {
		log.Printf("analysis: no images in %s yet", s.dir)
		return
	}

	results := s.an.AnalyzeBatch(ctx, paths)
	for _, res := range results {
		s.sink.Result(res)
	}
	s.sink.Summary(analyzer.Summarize(results))
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// ListImages returns the image files in dir sorted by filename. The capture
// naming scheme makes that order chronological.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
