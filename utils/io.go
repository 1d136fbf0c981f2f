package utils

import (
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ReadImage decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and WebP
// are supported.
func ReadImage(path string) (image.Image, error) {
	return imaging.Open(path)
}

// SaveImage encodes img in the format implied by the file extension,
// replacing any existing file.
func SaveImage(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}
