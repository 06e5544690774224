// Package project models project creation. Nothing here is persisted.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/teamhub/pkg/clock"
)

// Sentinel kinds for project errors.
var (
	ErrNameRequired = errors.New("name is required")
	ErrDecode       = errors.New("decode project body")
)

// Project is the created entity as returned to clients.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// MarshalJSON renders createdAt as millisecond ISO-8601 in UTC.
func (p Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	}{p.ID, p.Name, clock.Format(p.CreatedAt)})
}

// CreateInput is the POST /api/projects body. Name is optional on the wire
// and required by Validate.
type CreateInput struct {
	Name *string `json:"name"`
}

// DecodeCreateInput parses body as a JSON object. An empty body is treated as {}.
func DecodeCreateInput(body string) (CreateInput, error) {
	var in CreateInput
	if strings.TrimSpace(body) == "" {
		return in, nil
	}
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&in); err != nil {
		return CreateInput{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if dec.More() {
		return CreateInput{}, fmt.Errorf("%w: unexpected data after JSON object", ErrDecode)
	}
	return in, nil
}

// Validate returns the name to use or ErrNameRequired. Only an absent or
// empty name is rejected; whitespace is a name like any other.
func (in CreateInput) Validate() (string, error) {
	if in.Name == nil || *in.Name == "" {
		return "", ErrNameRequired
	}
	return *in.Name, nil
}

// Factory fabricates projects from validated input.
type Factory struct {
	ids   IDSource
	clock clock.Clock
}

// NewFactory builds a Factory. Nil arguments fall back to FixedID(DefaultID)
// and the system clock.
func NewFactory(ids IDSource, c clock.Clock) *Factory {
	if ids == nil {
		ids = FixedID(DefaultID)
	}
	if c == nil {
		c = clock.System()
	}
	return &Factory{ids: ids, clock: c}
}

// Create validates in and returns a new project.
func (f *Factory) Create(ctx context.Context, in CreateInput) (Project, error) {
	name, err := in.Validate()
	if err != nil {
		return Project{}, err
	}
	id, err := f.ids.NewID(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("generate project id: %w", err)
	}
	return Project{ID: id, Name: name, CreatedAt: f.clock.Now()}, nil
}
