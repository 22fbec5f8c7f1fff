// Package imaging prepares detected regions of scanned worksheet pages
// for OCR. It crops element bounding boxes out of the page image,
// upscales small crops so the OCR engine has enough pixels to work
// with, converts to grayscale, and encodes the result as PNG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/layoutkit/pagesort/model"
)

// PreparerConfig holds configuration for region preparation.
type PreparerConfig struct {
	// Padding is the number of pixels added on every side of a crop,
	// clamped to the page bounds. A little context around a region
	// improves OCR accuracy on tight detector boxes.
	Padding int

	// MinHeight is the minimum crop height in pixels. Crops shorter
	// than this are upscaled before OCR.
	MinHeight int

	// MaxScale caps the upscaling factor so tiny detector noise does
	// not balloon into huge images.
	MaxScale float64
}

// DefaultPreparerConfig returns the default region preparation configuration.
func DefaultPreparerConfig() PreparerConfig {
	return PreparerConfig{
		Padding:   4,
		MinHeight: 32,
		MaxScale:  4.0,
	}
}

// Preparer crops and normalizes page regions for OCR.
type Preparer struct {
	config PreparerConfig
}

// NewPreparer creates a Preparer with default configuration.
func NewPreparer() *Preparer {
	return NewPreparerWithConfig(DefaultPreparerConfig())
}

// NewPreparerWithConfig creates a Preparer with the given configuration.
func NewPreparerWithConfig(config PreparerConfig) *Preparer {
	return &Preparer{config: config}
}

// PrepareRegion crops the element's bounding box out of the page image
// and returns it as grayscale PNG data ready for OCR. The crop is
// padded, upscaled if it is below the minimum height, and converted to
// grayscale.
func (p *Preparer) PrepareRegion(page image.Image, box model.BBox) ([]byte, error) {
	crop, err := p.Crop(page, box)
	if err != nil {
		return nil, err
	}

	if h := crop.Bounds().Dy(); h > 0 && h < p.config.MinHeight {
		factor := float64(p.config.MinHeight) / float64(h)
		if factor > p.config.MaxScale {
			factor = p.config.MaxScale
		}
		crop = Upscale(crop, factor)
	}

	return EncodePNG(Grayscale(crop))
}

// Crop extracts the element bounding box from the page image, padded
// per the configuration and clamped to the page bounds. It returns an
// error when the box does not intersect the page at all.
func (p *Preparer) Crop(page image.Image, box model.BBox) (image.Image, error) {
	bounds := page.Bounds()

	rect := image.Rect(
		int(box.X)-p.config.Padding,
		int(box.Y)-p.config.Padding,
		int(box.X+box.Width)+p.config.Padding,
		int(box.Y+box.Height)+p.config.Padding,
	).Intersect(bounds)

	if rect.Empty() {
		return nil, fmt.Errorf("region (%.0f,%.0f %.0fx%.0f) lies outside the page bounds %v",
			box.X, box.Y, box.Width, box.Height, bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(dst, dst.Bounds(), page, rect.Min, xdraw.Src)
	return dst, nil
}

// Upscale resamples the image by the given factor using Catmull-Rom
// interpolation. Factors at or below 1 return the image unchanged.
func Upscale(img image.Image, factor float64) image.Image {
	if factor <= 1 {
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(bounds.Dx())*factor),
		int(float64(bounds.Dy())*factor)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// Grayscale converts the image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return dst
}

// EncodePNG encodes the image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes PNG data into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}
