package upload

import "errors"

var (
	ErrNoFile        = errors.New("no image file provided")
	ErrEmptyFile     = errors.New("file is empty")
	ErrNotImage      = errors.New("file type is not an image")
	ErrFileTooLarge  = errors.New("file exceeds maximum allowed size")
	ErrDuplicateFile = errors.New("stored file name already in use")
	ErrPersistence   = errors.New("failed to persist upload record")
)
