package storage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// StagedImage is an uploaded image held in the staging area for the lifetime
// of one request. Release must be called on every exit path.
type StagedImage interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
	Release(ctx context.Context) error
}

// StagingStore saves uploads under collision-free names
type StagingStore interface {
	Stage(ctx context.Context, originalName string, data []byte) (StagedImage, error)
	Backend() string
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// stagedName returns a unique object name that keeps a sanitized extension of
// the client's filename. Nothing else of the client's name is used.
func stagedName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}
