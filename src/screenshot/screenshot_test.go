package screenshot

import (
	"image"
	"strings"
	"testing"
)

func TestCaptureRejectsInvalidRegion(t *testing.T) {
	cases := []Region{
		{X: 0, Y: 0, Width: 0, Height: 100},
		{X: 0, Y: 0, Width: 100, Height: 0},
		{X: 10, Y: 10, Width: -5, Height: 20},
	}
	for _, r := range cases {
		region := r
		if _, err := Capture(&region, "png"); err == nil {
			t.Errorf("expected error for region %+v", r)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	for _, format := range []string{"png", "jpg", "jpeg", ""} {
		data, err := Encode(img, format)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("Encode(%q) returned empty data", format)
		}
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	_, err := Encode(img, "tiff")
	if err == nil || !strings.Contains(err.Error(), "unsupported image format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestHalfRegionRejectsInvalidValue(t *testing.T) {
	if _, err := HalfRegion("top"); err == nil {
		t.Fatal("expected error for invalid screen half")
	}
}
