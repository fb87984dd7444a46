package store

import (
	"context"

	"kbvcri/internal/kbv/models"
	dErrors "kbvcri/pkg/domain-errors"
)

var (
	// ErrNotFound keeps store-specific 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "kbv item not found")

	// ErrConflict signals a concurrent writer won the read-modify-write race.
	ErrConflict = dErrors.New(dErrors.CodeConflict, "kbv item revision conflict")
)

// Store persists per-session KBV items. The question state blob is opaque
// here; only the domain layer interprets it.
//
// Save is conditional: the item's Revision must match the persisted record
// (zero for a new item) or ErrConflict is returned. On success the store
// bumps the revision on the passed item.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.KBVItem, error)
	Save(ctx context.Context, item *models.KBVItem) error
}
