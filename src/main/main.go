package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/config"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/logutil"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/monitor"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/notification"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/screenshot"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/vision"
)

// normalizeFlagDashes maps GNU-style --long-flag to Go's -long-flag.
func normalizeFlagDashes() {
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--" {
			return
		}
		if strings.HasPrefix(os.Args[i], "--") {
			os.Args[i] = os.Args[i][1:]
		}
	}
}

func main() {
	directory := flag.String("d", "", "Directory to save screenshots (default: screenshots)")
	captureInterval := flag.Float64("i", -1, "Time between screenshots in seconds (default: 10)")
	analysisInterval := flag.Int("a", -1, "Time between calorie analyses in seconds (default: 60)")
	apiKey := flag.String("k", "", "API key for the vision model (optional if set in .env)")
	region := flag.String("r", "", "Region to capture (format: left,top,width,height)")
	screenHalf := flag.String("s", "", "Which half of screen to capture (left or right)")
	format := flag.String("f", "", "Image format: png, jpg or jpeg (default: png)")
	prefix := flag.String("p", "", "Prefix for screenshot filenames (default: screenshot)")
	provider := flag.String("provider", "", "Vision provider: gemini or openai (default: gemini)")
	model := flag.String("model", "", "Vision model name")
	mode := flag.String("mode", "", "Analysis mode: batch or stream (default: batch)")
	maxConcurrent := flag.Int("max-concurrent", -1, "Maximum concurrent analyses in batch mode (default: 4)")
	runOnce := flag.Bool("run-once", false, "Capture and analyze a single screenshot, print the result, and exit")
	normalizeFlagDashes()
	flag.Parse()

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Directory:        *directory,
		APIKey:           *apiKey,
		Provider:         *provider,
		Model:            *model,
		Region:           *region,
		ScreenHalf:       *screenHalf,
		Format:           *format,
		Prefix:           *prefix,
		Mode:             *mode,
		CaptureInterval:  *captureInterval,
		AnalysisInterval: *analysisInterval,
		MaxConcurrent:    *maxConcurrent,
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logutil.Setup(cfg.EnableFileLogging)
	log.Printf("config loaded: provider=%s model=%s key=%s", cfg.Provider, cfg.Model, logutil.RedactKey(cfg.APIKey))

	captureRegion := cfg.Region
	if cfg.ScreenHalf != "" {
		half, err := screenshot.HalfRegion(cfg.ScreenHalf)
		if err != nil {
			log.Fatalf("Cannot resolve screen half: %v", err)
		}
		captureRegion = &half
	}

	visionProvider, err := vision.New(vision.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create vision provider: %v", err)
	}

	an := analyzer.New(visionProvider, analyzer.Options{
		MinCallSpacing: cfg.MinCallSpacing,
		MaxConcurrent:  cfg.MaxConcurrent,
	})

	if *runOnce {
		runAnalyzeOnce(cfg, captureRegion, an)
		return
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("Cannot create output directory %s: %v", cfg.OutputDir, err)
	}
	absDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		absDir = cfg.OutputDir
	}
	fmt.Printf("Screenshots will be saved to: %s\n", absDir)

	notifier := notification.New(cfg.EnableNotifications)
	notifier.Started()

	m := monitor.New(monitor.Config{
		Source: func(region *screenshot.Region) ([]byte, error) {
			return screenshot.Capture(region, cfg.Format)
		},
		Dir:              cfg.OutputDir,
		Prefix:           cfg.Prefix,
		Format:           cfg.Format,
		CaptureInterval:  cfg.CaptureInterval,
		AnalysisInterval: cfg.AnalysisInterval,
		Region:           captureRegion,
		Mode:             monitor.Mode(cfg.Mode),
		Analyzer:         an,
		MaxConcurrent:    cfg.MaxConcurrent,
		Sink:             &monitor.ConsoleSink{Out: os.Stdout, Notifier: notifier},
	})

	if err := m.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start monitor: %v", err)
	}
	fmt.Printf("Taking screenshots every %s, analyzing every %s (%s mode)\n", cfg.CaptureInterval, cfg.AnalysisInterval, cfg.Mode)
	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nStopping calorie monitor...")
	report := m.Stop()
	fmt.Printf("Total screenshots taken: %d\n", report.ImagesCaptured)
	fmt.Printf("Analyses run: %d\n", report.AnalysesRun)
	fmt.Printf("Total calories observed: %d\n", report.TotalCalories)
	if report.Errors > 0 {
		fmt.Printf("Failed analyses: %d\n", report.Errors)
	}
}

// runAnalyzeOnce captures one screenshot to a temp file, analyzes it
// immediately, and prints the result.
func runAnalyzeOnce(cfg *config.Config, region *screenshot.Region, an *analyzer.Analyzer) {
	data, err := screenshot.Capture(region, cfg.Format)
	if err != nil {
		log.Fatalf("Capture failed: %v", err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("calorie_once.%s", cfg.Format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Cannot write %s: %v", path, err)
	}
	defer os.Remove(path)

	sink := &monitor.ConsoleSink{Out: os.Stdout}
	sink.Result(an.AnalyzeFile(context.Background(), path))
}
