// Package session persists per-conversation state. Two backends implement
// the same Store contract: an in-process map for single-instance
// deployments and Redis for anything horizontally scaled. Updates are
// serialized per session so concurrent turns on the same conversation
// cannot lose history.
package session

import (
	"context"
	"errors"

	"butik-nlu/internal/models"
)

// ErrNotFound is returned when the session id is unknown.
var ErrNotFound = errors.New("session not found")

// Store is the session persistence contract. Implementations return
// defensive copies; mutating a returned session never changes stored
// state except through Update.
type Store interface {
	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Create initializes an empty session under id. Creating an existing
	// id returns the existing session unchanged.
	Create(ctx context.Context, id string) (*models.Session, error)
	// Update applies fn to the session under a per-session critical
	// section and persists the result. Returns ErrNotFound for unknown
	// ids.
	Update(ctx context.Context, id string, fn func(*models.Session)) (*models.Session, error)
	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
	// Close releases backend resources.
	Close() error
}

func copySession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]models.HistoryEntry(nil), s.History...)
	return &out
}
