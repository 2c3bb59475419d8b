//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// Resampler фильтр, которым масштабируется вход.
const Resampler = "gocv/area"

// resample растягивает изображение до size×size фильтром INTER_AREA.
func resample(img image.Image, size int) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(size, size), 0, 0, gocv.InterpolationArea)

	return resized.ToImage()
}
