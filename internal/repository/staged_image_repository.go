package repository

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/AphiweJoko/AgriAssist/internal/analyzer"
	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
	"github.com/AphiweJoko/AgriAssist/internal/logger"
	"github.com/AphiweJoko/AgriAssist/internal/storage"
)

// StagedImageRepository implements ImageRepository on top of a staging store
type StagedImageRepository struct {
	store storage.StagingStore
}

// NewStagedImageRepository creates a repository that stages uploads in store
func NewStagedImageRepository(store storage.StagingStore) ImageRepository {
	return &StagedImageRepository{
		store: store,
	}
}

// LoadUpload stages, opens and decodes an upload. Decode failures are
// returned as decode errors; staging failures as storage errors.
func (r *StagedImageRepository) LoadUpload(ctx context.Context, originalName string, data []byte) (image.Image, *ImageMetadata, error) {
	if len(data) == 0 {
		return nil, nil, apperrors.NewValidationError("no image supplied", ErrEmptyUpload)
	}

	staged, err := r.store.Stage(ctx, originalName, data)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to stage upload", fmt.Errorf("%w: %v", ErrStagingUnavailable, err))
	}
	defer func() {
		if err := staged.Release(ctx); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"staged_name": staged.Name(),
				"backend":     r.store.Backend(),
			}).Error("Failed to release staged upload")
		}
	}()

	rc, err := staged.Open(ctx)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to open staged upload", err)
	}
	defer rc.Close()

	img, format, err := analyzer.DecodeImage(rc)
	if err != nil {
		return nil, nil, err
	}

	bounds := img.Bounds()
	return img, &ImageMetadata{
		StagedName:    staged.Name(),
		ContentLength: int64(len(data)),
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
	}, nil
}
