package worker

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

type slowProvider struct {
	delay time.Duration
}

func (p slowProvider) Infer(ctx context.Context, imageData []byte) (string, error) {
	time.Sleep(p.delay)
	return `{"food_detected": false, "food_items": [], "total_calories": 0}`, nil
}

func writeImage(t *testing.T, dir string, i int) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("img_%06d.png", i))
	if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPoolProcessesSubmittedJobs(t *testing.T) {
	dir := t.TempDir()
	an := analyzer.New(slowProvider{}, analyzer.Options{})
	p := New(2, an)

	var mu sync.Mutex
	var results []analyzer.Result
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		path := writeImage(t, dir, i)
		for !p.Submit(ctx, path, func(res analyzer.Result) {
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}) {
			time.Sleep(time.Millisecond)
		}
	}
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Status != analyzer.StatusSuccess {
			t.Errorf("unexpected result status %q (%s)", res.Status, res.ErrorDetail)
		}
	}
}

func TestPoolSubmitDropsWhenSaturated(t *testing.T) {
	dir := t.TempDir()
	an := analyzer.New(slowProvider{delay: 200 * time.Millisecond}, analyzer.Options{})
	p := New(1, an)
	defer p.Close()

	ctx := context.Background()
	accepted := 0
	// One in-flight job plus one queue slot; pushing well past that must
	// eventually drop.
	for i := 0; i < 8; i++ {
		if p.Submit(ctx, writeImage(t, dir, i), func(analyzer.Result) {}) {
			accepted++
		}
	}
	if accepted == 8 {
		t.Fatal("expected saturation to drop at least one submit")
	}
	if accepted == 0 {
		t.Fatal("expected at least one submit to be accepted")
	}
}

func TestPoolSkipsJobsWithCancelledContext(t *testing.T) {
	dir := t.TempDir()
	an := analyzer.New(slowProvider{}, analyzer.Options{})
	p := New(1, an)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	p.Submit(ctx, writeImage(t, dir, 0), func(analyzer.Result) { called = true })
	p.Close()

	if called {
		t.Error("callback should not run for a cancelled job")
	}
}
