// Package vision sends captured images to an external recognition model and
// returns its raw text reply. Two providers are supported: the Gemini
// generateContent API (default) and any OpenAI-compatible chat-completions
// endpoint. Neither provider interprets the reply; parsing is the extract
// package's job.
package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Provider sends one image to a vision model and returns the raw reply text.
type Provider interface {
	Infer(ctx context.Context, imageData []byte) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "gemini" or "openai"
	APIKey   string
	Model    string
	BaseURL  string // optional override, mainly for OpenAI-compatible gateways
}

// calorie analysis prompt. The model is asked for a strict JSON shape, but
// replies are treated as free text downstream.
const caloriePrompt = `Analyze this image and identify any food items present.
If food is detected, provide:
1. A list of each distinct food item
2. Estimated calories for each item
3. Total calories

Output in JSON format like this:
{
    "food_detected": true/false,
    "food_items": [
        {"name": "item1", "calories": 123},
        {"name": "item2", "calories": 456}
    ],
    "total_calories": 579
}

If no food is detected, simply return:
{
    "food_detected": false,
    "food_items": [],
    "total_calories": 0
}`

// New builds the provider named by cfg.Provider.
func New(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newGeminiClient(cfg), nil
	case "openai":
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Provider)
	}
}

// mimeType sniffs the image content type for the request payload.
func mimeType(imageData []byte) string {
	t := http.DetectContentType(imageData)
	if !strings.HasPrefix(t, "image/") {
		return "image/png"
	}
	return t
}
