// Package format provides scan file format detection for the pagesort
// library. Worksheet scans arrive as raster images in a handful of
// formats, plus hOCR HTML when a scan was already OCRed upstream.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported scan format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image (little or big endian).
	TIFF
	// BMP indicates a Windows bitmap image.
	BMP
	// GIF indicates a GIF image.
	GIF
	// HOCR indicates an hOCR HTML document.
	HOCR
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case GIF:
		return "GIF"
	case HOCR:
		return "hOCR"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	case GIF:
		return ".gif"
	case HOCR:
		return ".hocr"
	default:
		return ""
	}
}

// IsImage reports whether the format is a raster image.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, TIFF, BMP, GIF:
		return true
	default:
		return false
	}
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	tiffLE    = []byte{'I', 'I', 0x2A, 0x00}
	tiffBE    = []byte{'M', 'M', 0x00, 0x2A}
	bmpMagic  = []byte{'B', 'M'}
	gifMagic  = []byte{'G', 'I', 'F', '8'}
)

// Detect identifies the format from the first bytes of the data.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return TIFF
	case bytes.HasPrefix(data, bmpMagic):
		return BMP
	case bytes.HasPrefix(data, gifMagic):
		return GIF
	}

	if looksLikeHOCR(data) {
		return HOCR
	}
	return Unknown
}

// DetectReader identifies the format by reading up to 512 bytes from r.
// The consumed bytes are not restored; callers that need the full
// stream should buffer it first.
func DetectReader(r io.Reader) (Format, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, err
	}
	return Detect(head[:n]), nil
}

// DetectPath identifies the format from a file name alone. Useful as a
// fallback when the content is not yet available.
func DetectPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".gif":
		return GIF
	case ".hocr":
		return HOCR
	case ".html", ".htm":
		// Plain HTML may or may not be hOCR; content detection decides.
		return Unknown
	default:
		return Unknown
	}
}

// looksLikeHOCR reports whether the data appears to be an hOCR HTML
// document: HTML-ish content mentioning the ocr_page class.
func looksLikeHOCR(data []byte) bool {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	lower := bytes.ToLower(head)
	if !bytes.Contains(lower, []byte("<html")) && !bytes.Contains(lower, []byte("<!doctype html")) && !bytes.Contains(lower, []byte("<div")) {
		return false
	}
	return bytes.Contains(lower, []byte("ocr_page")) || bytes.Contains(lower, []byte("ocr-system"))
}
