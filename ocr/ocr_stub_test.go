//go:build !ocr

package ocr

import (
	"errors"
	"testing"

	"github.com/chantlab/neumatic/model"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestStubOperationsReturnError(t *testing.T) {
	client := &Client{}
	if _, err := client.RecognizeImage(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage: expected ErrOCRNotEnabled, got %v", err)
	}
	if _, err := client.RecognizeRegion(nil, model.BBox{}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeRegion: expected ErrOCRNotEnabled, got %v", err)
	}
	if err := client.SetLanguage("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguage: expected ErrOCRNotEnabled, got %v", err)
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}
