package analyzer

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
)

// DecodeImage parses an image from r. Any failure is reported as a decode error.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", apperrors.NewDecodeError("could not read image file", err)
	}
	return img, format, nil
}

// DecodeBytes is DecodeImage for an in-memory buffer
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", apperrors.NewDecodeError("could not read image file", io.ErrUnexpectedEOF)
	}
	return DecodeImage(bytes.NewReader(data))
}
