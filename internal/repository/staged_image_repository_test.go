package repository

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
	"github.com/AphiweJoko/AgriAssist/internal/storage"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 160, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected staging dir to be empty, found %d entries", len(entries))
	}
}

func newLocalRepo(t *testing.T) (ImageRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return NewStagedImageRepository(store), dir
}

func TestLoadUpload_Success(t *testing.T) {
	repo, dir := newLocalRepo(t)

	img, meta, err := repo.LoadUpload(context.Background(), "leaf.PNG", encodePNG(t, 12, 8))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
	if meta.Format != "png" || meta.Width != 12 || meta.Height != 8 {
		t.Errorf("Unexpected metadata %+v", meta)
	}
	assertEmptyDir(t, dir)
}

func TestLoadUpload_DecodeFailureReleases(t *testing.T) {
	repo, dir := newLocalRepo(t)

	_, _, err := repo.LoadUpload(context.Background(), "notes.jpg", []byte("definitely not an image"))
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestLoadUpload_EmptyUpload(t *testing.T) {
	repo, _ := newLocalRepo(t)

	_, _, err := repo.LoadUpload(context.Background(), "leaf.png", nil)
	if !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("Expected ErrEmptyUpload, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Stage(context.Context, string, []byte) (storage.StagedImage, error) {
	return nil, errors.New("disk full")
}

func (failingStore) Backend() string { return "failing" }

func TestLoadUpload_StagingFailure(t *testing.T) {
	repo := NewStagedImageRepository(failingStore{})

	_, _, err := repo.LoadUpload(context.Background(), "leaf.png", []byte{1, 2, 3})
	if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
	if !errors.Is(err, ErrStagingUnavailable) {
		t.Errorf("Expected ErrStagingUnavailable in chain, got %v", err)
	}
}
