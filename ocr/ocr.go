//go:build ocr

// Package ocr recognizes lyric text printed beneath staff regions on
// manuscript page images.
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
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/chantlab/neumatic/model"
)

// Client wraps Tesseract for lyric recognition.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client configured for single-line text, the usual
// layout of a lyric line under a staff.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for recognition. Multiple languages can
// be specified as a "+" separated string (e.g. "lat+eng"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
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

// RecognizeRegion crops the page image to the given box and recognizes the
// text inside it. The box is clipped to the image bounds; an empty
// intersection yields an empty string.
func (c *Client) RecognizeRegion(imageData []byte, box model.BBox) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode page image: %w", err)
	}

	rect := image.Rect(box.ULX, box.ULY, box.LRX(), box.LRY()).Intersect(src.Bounds())
	if rect.Empty() {
		return "", nil
	}

	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			crop.Set(x, y, src.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}
	return c.RecognizeImage(buf.Bytes())
}
