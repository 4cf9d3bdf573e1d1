package repository

import "errors"

var (
	// ErrInvalidArtifactName indicates a name that is empty or leaves the store directory
	ErrInvalidArtifactName = errors.New("invalid artifact name")
)
