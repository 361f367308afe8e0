package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ContentType of every normalized picture.
const ContentType = "image/jpeg"

// Normalize decodes an uploaded image, applies its EXIF orientation, flattens
// transparency onto white and shrinks it to fit maxDim x maxDim. The result is
// a JPEG at the given quality. Smaller images are not enlarged.
func Normalize(r io.Reader, maxDim, quality int) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, src, image.Pt(0, 0), 1.0)

	var out image.Image = flat
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		out = imaging.Fit(flat, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
