// Package screenshot wraps display capture for the calorie monitor. It
// produces encoded image bytes for the full virtual screen or a sub-region.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/kbinani/screenshot"
)

// Region is a screen sub-region in virtual-screen coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

const jpegQuality = 90

// Capture grabs the region when one is given, otherwise the whole virtual
// screen, and returns it encoded in the requested format ("png", "jpg",
// "jpeg").
func Capture(region *Region, format string) ([]byte, error) {
	var (
		img *image.RGBA
		err error
	)
	if region != nil {
		img, err = captureRegion(*region)
	} else {
		img, err = captureFull()
	}
	if err != nil {
		return nil, err
	}
	return Encode(img, format)
}

func captureRegion(region Region) (*image.RGBA, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}

	bounds := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %v", err)
	}
	return img, nil
}

// captureFull captures the union of all active displays.
func captureFull() (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %v", err)
	}
	return img, nil
}

// HalfRegion returns the left or right half of the primary display.
func HalfRegion(half string) (Region, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Region{}, fmt.Errorf("no active displays found")
	}
	bounds := screenshot.GetDisplayBounds(0)

	halfWidth := bounds.Dx() / 2
	switch strings.ToLower(strings.TrimSpace(half)) {
	case "left":
		return Region{X: bounds.Min.X, Y: bounds.Min.Y, Width: halfWidth, Height: bounds.Dy()}, nil
	case "right":
		return Region{X: bounds.Min.X + halfWidth, Y: bounds.Min.Y, Width: bounds.Dx() - halfWidth, Height: bounds.Dy()}, nil
	default:
		return Region{}, fmt.Errorf("invalid screen half %q: want left or right", half)
	}
}

// Encode serializes an image in the requested format.
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode image as PNG: %v", err)
		}
	case "jpg", "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image as JPEG: %v", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}
