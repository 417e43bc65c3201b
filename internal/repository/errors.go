package repository

import "errors"

var (
	// ErrEmptyUpload indicates the upload carried no bytes
	ErrEmptyUpload = errors.New("empty upload")

	// ErrStagingUnavailable indicates the staging store could not accept the upload
	ErrStagingUnavailable = errors.New("staging store unavailable")
)
