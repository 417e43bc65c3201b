package analyzer

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
)

func TestDecodeBytes_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(12, 9, color.RGBA{121, 200, 82, 255})); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}

	img, format, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png, got %s", format)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 9 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
}

func TestDecodeBytes_Invalid(t *testing.T) {
	inputs := map[string][]byte{
		"empty":         nil,
		"garbage":       []byte("definitely not an image"),
		"truncated png": {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeBytes(data)
			if err == nil {
				t.Fatal("Expected decode error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
				t.Errorf("Expected decode error type, got %v", err)
			}
		})
	}
}
