package repository

import "errors"

var (
	ErrSelectionNotFound = errors.New("model selection not found")
)
