// Package extract turns the recognition model's free-text reply into a
// validated detection record. The model is prompted to answer with a JSON
// object but routinely wraps it in prose or markdown fences, so extraction
// is lenient: anything that cannot be parsed resolves to the canonical
// "no food detected" value instead of an error.
package extract

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
)

// FoodItem is one detected food entry with its estimated calories.
type FoodItem struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Detection is the validated outcome of one recognition call.
type Detection struct {
	FoodDetected  bool       `json:"food_detected"`
	Items         []FoodItem `json:"food_items"`
	TotalCalories int        `json:"total_calories"`
}

// Empty returns the canonical no-food detection.
func Empty() Detection {
	return Detection{FoodDetected: false, Items: nil, TotalCalories: 0}
}

type rawPayload struct {
	FoodDetected json.RawMessage `json:"food_detected"`
	FoodItems    []rawItem       `json:"food_items"`
	Total        *float64        `json:"total_calories"`
}

type rawItem struct {
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
}

// Parse extracts a Detection from raw model output. It is a total function:
// for any input it returns a well-formed Detection and never panics. The
// JSON payload is taken as the span from the first '{' to the last '}';
// malformed or absent payloads resolve to Empty.
func Parse(raw string) Detection {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Empty()
	}

	var payload rawPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		log.Printf("extract: unparseable payload, falling back to empty result: %v", err)
		return Empty()
	}

	detected, ok := coerceBool(payload.FoodDetected)
	if !ok {
		log.Printf("extract: food_detected missing or not boolean-coercible, falling back to empty result")
		return Empty()
	}
	if !detected {
		return Empty()
	}

	var items []FoodItem
	sum := 0
	for _, it := range payload.FoodItems {
		if it.Calories == nil {
			// Entry without a calorie estimate is unusable; drop just
			// that item rather than rejecting the whole result.
			log.Printf("extract: dropping item %q: no calories field", it.Name)
			continue
		}
		cal := int(*it.Calories)
		if cal < 0 {
			cal = 0
		}
		items = append(items, FoodItem{Name: it.Name, Calories: cal})
		sum += cal
	}

	total := sum
	if payload.Total != nil {
		total = int(*payload.Total)
		if total < 0 {
			total = 0
		}
	}
	// The service-provided total wins even when it disagrees with the item
	// sum; surface the mismatch but never overwrite it.
	if payload.Total != nil && len(items) > 0 && total != sum {
		log.Printf("extract: total_calories %d differs from item sum %d", total, sum)
	}

	return Detection{FoodDetected: true, Items: items, TotalCalories: total}
}

// coerceBool accepts JSON booleans plus the string and numeric spellings
// models occasionally emit ("true", "False", 1).
func coerceBool(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 {
		return false, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s))); err == nil {
			return v, true
		}
		return false, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, true
	}

	return false, false
}
