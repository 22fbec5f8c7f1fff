//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting text from detected regions of scanned worksheet images.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// PageSegMode represents page segmentation modes for OCR.
type PageSegMode = gosseract.PageSegMode

// Page segmentation modes commonly used for worksheet regions.
const (
	PSM_AUTO         = gosseract.PSM_AUTO
	PSM_SINGLE_BLOCK = gosseract.PSM_SINGLE_BLOCK
	PSM_SINGLE_LINE  = gosseract.PSM_SINGLE_LINE
	PSM_SINGLE_WORD  = gosseract.PSM_SINGLE_WORD
	PSM_SPARSE_TEXT  = gosseract.PSM_SPARSE_TEXT
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeLine performs OCR on image data that holds a single line of
// text, such as a cropped question number or unit label. The page
// segmentation mode is switched to single-line for the call and left
// there afterwards.
func (c *Client) RecognizeLine(imageData []byte) (string, error) {
	if err := c.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set segmentation mode: %w", err)
	}
	return c.RecognizeImage(imageData)
}

// HOCR performs OCR on image data and returns the result as an hOCR
// HTML document, preserving word bounding boxes and confidences. The
// output can be parsed with the hocr package to recover detections.
func (c *Client) HOCR(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	html, err := c.client.HOCRText()
	if err != nil {
		return "", fmt.Errorf("hOCR generation failed: %w", err)
	}

	return html, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the region layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}

// SetWhitelist restricts recognition to the given characters. Useful
// for question-number regions where only digits and punctuation occur.
func (c *Client) SetWhitelist(chars string) error {
	return c.client.SetWhitelist(chars)
}
