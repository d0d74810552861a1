// Package store persists funnel sessions and their answer log, and caches
// run state for fast resume.
package store

import (
	"context"
	"time"

	"funnel-engine/internal/models"
)

// SessionStore is the durable session repository. Update applies merge
// semantics: score deltas are added to the stored score and tags are unioned
// into the stored set inside one transaction, so concurrent writers cannot
// lose increments.
type SessionStore interface {
	// Create inserts a new active session at the given entry node.
	Create(ctx context.Context, entryNodeID string, meta models.SessionMetadata) (*models.Session, error)

	// Get returns the session or errors.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)

	// GetWithAnswers returns the session with its answer log ordered by
	// recording time.
	GetWithAnswers(ctx context.Context, id string) (*models.SessionWithAnswers, error)

	// Update applies a merge patch and returns the updated row. The stored
	// tier is recomputed from the post-delta score.
	Update(ctx context.Context, id string, patch models.SessionPatch) (*models.Session, error)

	// MarkWebhookSent stamps webhook delivery time exactly once.
	MarkWebhookSent(ctx context.Context, id string, at time.Time) error

	// ListRecent returns the newest sessions first, up to limit.
	ListRecent(ctx context.Context, limit int) ([]models.Session, error)
}
