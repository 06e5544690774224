package project

import (
	"context"

	"github.com/google/uuid"
)

// DefaultID is handed out by the fixed source unless configured otherwise.
const DefaultID = "test-project-id"

// IDSource hands out project identifiers.
type IDSource interface {
	NewID(ctx context.Context) (string, error)
}

// FixedID returns the same identifier for every project.
type FixedID string

// NewID returns the fixed identifier.
func (f FixedID) NewID(context.Context) (string, error) {
	return string(f), nil
}

// UUIDSource issues random (v4) UUIDs.
type UUIDSource struct{}

// NewID returns a fresh UUID string.
func (UUIDSource) NewID(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
