package media

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeCheckerboard writes a high-contrast block pattern whose edges
// survive downscaling and score far above any sane blur threshold.
func writeCheckerboard(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/8)+(y/8))%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	writeImage(t, path, img)
}

// writeFlat writes a uniform image with no edge response at all.
func writeFlat(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	writeImage(t, path, img)
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestIsBlurrySharpImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sharp.png")
	writeCheckerboard(t, path, 200)

	if IsBlurry(path, 50) {
		t.Error("checkerboard image classified as blurry")
	}
}

func TestIsBlurryFlatImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	writeFlat(t, path, 200)

	if !IsBlurry(path, 50) {
		t.Error("flat image classified as sharp")
	}
}

func TestIsBlurryDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	if !IsBlurry(path, 50) {
		t.Error("undecodable file must be treated as blurry")
	}
}

func TestIsBlurryMissingFile(t *testing.T) {
	if !IsBlurry(filepath.Join(t.TempDir(), "nope.jpg"), 50) {
		t.Error("missing file must be treated as blurry")
	}
}

func TestIsBlurryMeasurementFailureFailsOpen(t *testing.T) {
	// 2x2 decodes fine but is too small for the Laplacian; a measurement
	// failure on a decodable image must not reject it.
	path := filepath.Join(t.TempDir(), "tiny.png")
	writeFlat(t, path, 2)

	if IsBlurry(path, 50) {
		t.Error("measurement failure must fail open")
	}
}

func TestIsBlurryLargeImageDownscaled(t *testing.T) {
	// Larger than the downscale bound on one side; just verify the check
	// completes and still sees the edges.
	path := filepath.Join(t.TempDir(), "large.png")
	writeCheckerboard(t, path, 1400)

	if IsBlurry(path, 50) {
		t.Error("large checkerboard classified as blurry")
	}
}
