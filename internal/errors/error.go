package errors

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidSize       = errors.New("invalid board size")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidFilename   = errors.New("invalid save file name")
	ErrMalformedSnapshot = errors.New("malformed game snapshot")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrArchiveNotFound   = errors.New("archived game not found")
	ErrInternal          = errors.New("internal error")
)
