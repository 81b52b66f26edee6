// Package analyzer drives captured images through the recognition service
// and the extractor, producing one validated result per image. Batch
// analysis runs with bounded parallelism, or strictly sequentially when the
// provider needs spacing between calls.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/extract"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/vision"
)

// Status marks whether an image's analysis call succeeded. An empty
// detection from a successful call is still StatusSuccess.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the analysis outcome for one image.
type Result struct {
	SourceImage string
	Detection   extract.Detection
	Status      Status
	ErrorDetail string
}

// Summary aggregates one batch. Error results count as zero-calorie
// non-food entries but stay visible through Errors.
type Summary struct {
	ImagesAnalyzed int
	FoodImages     int
	TotalCalories  int
	Errors         int
}

// Options tune analysis behavior.
type Options struct {
	// MinCallSpacing > 0 serializes recognition calls with at least this
	// much time between starts (provider rate constraint).
	MinCallSpacing time.Duration
	// MaxConcurrent caps in-flight analyses in batch mode. Ignored when
	// MinCallSpacing forces sequential calls. Defaults to 4.
	MaxConcurrent int
}

const defaultMaxConcurrent = 4

type Analyzer struct {
	provider      vision.Provider
	limiter       *spacingLimiter
	maxConcurrent int
}

func New(provider vision.Provider, opts Options) *Analyzer {
	a := &Analyzer{
		provider:      provider,
		maxConcurrent: opts.MaxConcurrent,
	}
	if a.maxConcurrent <= 0 {
		a.maxConcurrent = defaultMaxConcurrent
	}
	if opts.MinCallSpacing > 0 {
		a.limiter = newSpacingLimiter(opts.MinCallSpacing)
	}
	return a
}

// AnalyzeFile analyzes a single image file. Failures never propagate as
// errors; they come back as a StatusError result carrying the detail.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) Result {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return errorResult(name, fmt.Errorf("read image: %v", err))
	}

	if a.limiter != nil {
		if err := a.limiter.wait(ctx); err != nil {
			return errorResult(name, fmt.Errorf("cancelled while waiting for rate limit: %v", err))
		}
	}

	raw, err := a.provider.Infer(ctx, data)
	if err != nil {
		return errorResult(name, fmt.Errorf("recognition call: %v", err))
	}

	return Result{
		SourceImage: name,
		Detection:   extract.Parse(raw),
		Status:      StatusSuccess,
	}
}

// AnalyzeBatch analyzes the given files and returns one result per file, in
// input order. With a rate limiter the batch runs sequentially; otherwise up
// to MaxConcurrent analyses run in flight.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	if a.limiter != nil || a.maxConcurrent == 1 {
		for i, path := range paths {
			results[i] = a.AnalyzeFile(ctx, path)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = a.AnalyzeFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Summarize folds per-image results into a batch summary.
func Summarize(results []Result) Summary {
	var sum Summary
	sum.ImagesAnalyzed = len(results)
	for _, r := range results {
		if r.Status == StatusError {
			sum.Errors++
			continue
		}
		sum.TotalCalories += r.Detection.TotalCalories
		if r.Detection.TotalCalories > 0 {
			sum.FoodImages++
		}
	}
	return sum
}

func errorResult(name string, err error) Result {
	log.Printf("analyzer: %s: %v", name, err)
	return Result{
		SourceImage: name,
		Detection:   extract.Empty(),
		Status:      StatusError,
		ErrorDetail: err.Error(),
	}
}
