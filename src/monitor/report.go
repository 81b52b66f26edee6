package monitor

import (
	"fmt"
	"io"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
	"github.com/kodjima33/screenshot-calorie-analyzer/src/notification"
)

// ConsoleSink prints per-image results and batch summaries for the operator
// and mirrors detections to desktop notifications.
type ConsoleSink struct {
	Out      io.Writer
	Notifier *notification.Notifier
}

func (c *ConsoleSink) Result(res analyzer.Result) {
	if res.Status == analyzer.StatusError {
		fmt.Fprintf(c.Out, "✗ %s: analysis failed (%s)\n", res.SourceImage, res.ErrorDetail)
		if c.Notifier != nil {
			c.Notifier.Failure(fmt.Errorf("%s: %s", res.SourceImage, res.ErrorDetail))
		}
		return
	}

	det := res.Detection
	if !det.FoodDetected {
		fmt.Fprintf(c.Out, "✓ %s: No food detected (0 calories)\n", res.SourceImage)
		return
	}

	fmt.Fprintf(c.Out, "✓ %s: %d calories\n", res.SourceImage, det.TotalCalories)
	for _, item := range det.Items {
		fmt.Fprintf(c.Out, "    - %s: %d calories\n", item.Name, item.Calories)
	}

	if c.Notifier != nil {
		names := make([]string, len(det.Items))
		for i, item := range det.Items {
			names[i] = item.Name
		}
		c.Notifier.FoodDetected(det.TotalCalories, names)
	}
}

func (c *ConsoleSink) Summary(sum analyzer.Summary) {
	fmt.Fprintln(c.Out, "\n===== CALORIE ANALYSIS SUMMARY =====")
	fmt.Fprintf(c.Out, "Total screenshots analyzed: %d\n", sum.ImagesAnalyzed)
	fmt.Fprintf(c.Out, "Screenshots containing food: %d\n", sum.FoodImages)
	fmt.Fprintf(c.Out, "Estimated total calories: %d\n", sum.TotalCalories)
	if sum.Errors > 0 {
		fmt.Fprintf(c.Out, "Failed analyses: %d\n", sum.Errors)
	}
	fmt.Fprintln(c.Out, "===================================")
}
