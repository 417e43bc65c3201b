package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for uploaded image access
type ImageRepository interface {
	// LoadUpload stages the upload, decodes it and removes the staged copy
	// before returning, whatever the outcome
	LoadUpload(ctx context.Context, originalName string, data []byte) (image.Image, *ImageMetadata, error)
}

// ImageMetadata contains metadata about a decoded upload
type ImageMetadata struct {
	StagedName    string
	ContentLength int64
	Width         int
	Height        int
	Format        string
}
