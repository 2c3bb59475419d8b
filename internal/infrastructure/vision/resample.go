//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"github.com/nfnt/resize"
)

// Resampler фильтр, которым масштабируется вход.
const Resampler = "nfnt/bilinear"

// resample растягивает изображение до size×size билинейным фильтром.
func resample(img image.Image, size int) (image.Image, error) {
	return resize.Resize(uint(size), uint(size), img, resize.Bilinear), nil
}
