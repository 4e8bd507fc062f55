package media

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// maxBlurDimension bounds the cost of the sharpness measurement on large
// photos and keeps scores comparable across resolutions.
const maxBlurDimension = 1000

// IsBlurry reports whether the image at path fails the sharpness check.
// A file that cannot be decoded at all is treated as blurry; a failure
// while measuring an already decoded image is not, since that is no
// evidence of blur.
func IsBlurry(path string, threshold float64) bool {
	img, err := imaging.Open(path)
	if err != nil {
		return true
	}

	variance, err := laplacianVariance(img)
	if err != nil {
		return false
	}

	return variance < threshold
}

// laplacianVariance measures edge response over the grayscale image: the
// variance of a discrete 3x3 Laplacian. Sharp images have strong second
// derivatives at edges; blurred ones do not.
func laplacianVariance(img image.Image) (float64, error) {
	b := img.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return 0, fmt.Errorf("image %dx%d too small to measure", b.Dx(), b.Dy())
	}

	if b.Dx() > maxBlurDimension || b.Dy() > maxBlurDimension {
		if b.Dx() >= b.Dy() {
			img = imaging.Resize(img, maxBlurDimension, 0, imaging.Linear)
		} else {
			img = imaging.Resize(img, 0, maxBlurDimension, imaging.Linear)
		}
	}

	gray := imaging.Grayscale(img)
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()

	// Grayscale output has equal channels; read the red one as intensity.
	at := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x*4])
	}

	var sum, sumSq float64
	n := 0

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			sum += lap
			sumSq += lap * lap
			n++
		}
	}

	if n == 0 {
		return 0, fmt.Errorf("no interior pixels")
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean, nil
}
