package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbvcri/internal/kbv/models"
	dErrors "kbvcri/pkg/domain-errors"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	item := &models.KBVItem{SessionID: "s1", QuestionState: `{"qaPairs":[]}`}
	require.NoError(t, s.Save(ctx, item))
	assert.Equal(t, int64(1), item.Revision)

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, int64(1), got.Revision)

	// Mutating the returned copy must not touch the stored record.
	got.Status = models.StatusPass
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Status)
}

func TestMemoryStoreRevisionConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &models.KBVItem{SessionID: "s1"}))

	// Two readers load revision 1; the second save must lose.
	first, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	second, err := s.Get(ctx, "s1")
	require.NoError(t, err)

	first.Status = models.StatusPass
	require.NoError(t, s.Save(ctx, first))

	second.Status = models.StatusFail
	err = s.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPass, got.Status)
}

func TestMemoryStoreRejectsStaleCreate(t *testing.T) {
	s := NewMemoryStore()

	err := s.Save(context.Background(), &models.KBVItem{SessionID: "s1", Revision: 3})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}
