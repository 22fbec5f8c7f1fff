package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/layoutkit/pagesort/format"
)

// Decode decodes scan image data in any supported format (PNG, JPEG,
// TIFF, BMP, GIF), detecting the format from the content.
func Decode(data []byte) (image.Image, error) {
	f := format.Detect(data)
	r := bytes.NewReader(data)

	switch f {
	case format.PNG:
		return png.Decode(r)
	case format.JPEG:
		return jpeg.Decode(r)
	case format.TIFF:
		return tiff.Decode(r)
	case format.BMP:
		return bmp.Decode(r)
	case format.GIF:
		return gif.Decode(r)
	case format.HOCR:
		return nil, fmt.Errorf("data is an hOCR document, not an image; parse it with the hocr package")
	default:
		return nil, fmt.Errorf("unrecognized scan format")
	}
}
