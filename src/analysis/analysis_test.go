package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
)

type staticProvider struct {
	reply string
}

func (p staticProvider) Infer(ctx context.Context, imageData []byte) (string, error) {
	if p.reply == "" {
		return "", fmt.Errorf("service down")
	}
	return p.reply, nil
}

type recordingSink struct {
	mu        sync.Mutex
	results   []analyzer.Result
	summaries []analyzer.Summary
}

func (s *recordingSink) Result(res analyzer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
}

func (s *recordingSink) Summary(sum analyzer.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, sum)
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"screenshot_20260829_120010_000001.png",
		"screenshot_20260829_120000_000000.png",
		"screenshot_20260829_120020_000002.jpg",
		"notes.txt",
		"capture.log",
	)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"screenshot_20260829_120000_000000.png",
		"screenshot_20260829_120010_000001.png",
		"screenshot_20260829_120020_000002.jpg",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d images, got %v", len(want), paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("position %d: got %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}

func TestRunBatchEmitsResultsAndSummary(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png")

	an := analyzer.New(staticProvider{
		reply: `{"food_detected": true, "food_items":[{"name":"pizza","calories":350}], "total_calories":350}`,
	}, analyzer.Options{MaxConcurrent: 1})
	sink := &recordingSink{}

	s := NewScheduler(dir, time.Minute, an, sink)
	s.RunBatch(context.Background())

	if len(sink.results) != 2 {
		t.Fatalf("expected 2 per-image results, got %d", len(sink.results))
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sink.summaries))
	}
	sum := sink.summaries[0]
	if sum.ImagesAnalyzed != 2 || sum.FoodImages != 2 || sum.TotalCalories != 700 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestRunBatchSkipsWhenDirectoryEmpty(t *testing.T) {
	an := analyzer.New(staticProvider{reply: "irrelevant"}, analyzer.Options{})
	sink := &recordingSink{}

	s := NewScheduler(t.TempDir(), time.Minute, an, sink)
	s.RunBatch(context.Background())

	if len(sink.summaries) != 0 {
		t.Errorf("expected no summary for empty directory, got %d", len(sink.summaries))
	}
}

func TestRunBatchCountsFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png", "c.png")

	an := analyzer.New(staticProvider{reply: ""}, analyzer.Options{MaxConcurrent: 1})
	sink := &recordingSink{}

	s := NewScheduler(dir, time.Minute, an, sink)
	s.RunBatch(context.Background())

	if len(sink.results) != 3 {
		t.Fatalf("expected results for all images, got %d", len(sink.results))
	}
	sum := sink.summaries[0]
	if sum.Errors != 3 || sum.TotalCalories != 0 || sum.FoodImages != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestRunFirstTickWaitsForInterval(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png")

	an := analyzer.New(staticProvider{
		reply: `{"food_detected": false, "food_items": [], "total_calories": 0}`,
	}, analyzer.Options{MaxConcurrent: 1})
	sink := &recordingSink{}

	s := NewScheduler(dir, 80*time.Millisecond, an, sink)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Before the first interval has elapsed, no batch may have run.
	time.Sleep(30 * time.Millisecond)
	sink.mu.Lock()
	early := len(sink.summaries)
	sink.mu.Unlock()
	if early != 0 {
		t.Errorf("batch ran before the initial interval elapsed")
	}

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.summaries) == 0 {
		t.Error("expected at least one batch after the interval")
	}
}
