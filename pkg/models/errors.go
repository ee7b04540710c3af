// Package models manages the local Whisper model inventory
package models

import (
	"errors"
)

// Common error types for the models package
var (
	// ErrUnknownModel indicates an identifier outside the supported catalog
	ErrUnknownModel = errors.New("unknown model identifier")

	// ErrDownloadFailed indicates that fetching a model failed
	ErrDownloadFailed = errors.New("model download failed")

	// ErrDeleteFailed indicates that removing a model artifact failed
	ErrDeleteFailed = errors.New("model delete failed")
)
