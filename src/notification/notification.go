// Package notification delivers operator-facing desktop notifications.
// Delivery is best-effort: a failed notification is logged, never fatal.
package notification

import (
	"fmt"
	"strings"
)

// Notifier sends desktop notifications when enabled; disabled it is a no-op,
// so callers never need to guard their calls.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Started announces that the monitor is running.
func (n *Notifier) Started() {
	if !n.enabled {
		return
	}
	show("Calorie Monitor Started", "Taking screenshots and analyzing for food", "")
}

// FoodDetected announces a detection with its calorie total and item names.
func (n *Notifier) FoodDetected(totalCalories int, items []string) {
	if !n.enabled {
		return
	}
	subtitle := strings.Join(items, ", ")
	if len(subtitle) > 50 {
		subtitle = subtitle[:50] + "..."
	}
	show("Food Detected!", fmt.Sprintf("%d calories detected", totalCalories), subtitle)
}

// Failure announces an analysis or capture problem.
func (n *Notifier) Failure(err error) {
	if !n.enabled {
		return
	}
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50] + "..."
	}
	show("Calorie Monitor Error", "Error: "+msg, "")
}
