package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"kbvcri/internal/kbv/models"
)

// PostgresStore persists KBV items in PostgreSQL. This store is pure I/O;
// all round logic belongs in the service.
//
// Schema:
//
//	CREATE TABLE kbv_items (
//	    session_id     TEXT PRIMARY KEY,
//	    status         TEXT NOT NULL DEFAULT '',
//	    auth_ref_no    TEXT NOT NULL DEFAULT '',
//	    urn            TEXT NOT NULL DEFAULT '',
//	    expiry_epoch   BIGINT NOT NULL DEFAULT 0,
//	    question_state TEXT NOT NULL DEFAULT '',
//	    revision       BIGINT NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed KBV item store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*models.KBVItem, error) {
	query := `
		SELECT session_id, status, auth_ref_no, urn, expiry_epoch, question_state, revision
		FROM kbv_items
		WHERE session_id = $1
	`
	var item models.KBVItem
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&item.SessionID, &item.Status, &item.AuthRefNo, &item.URN,
		&item.ExpiryEpoch, &item.QuestionState, &item.Revision,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get kbv item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) Save(ctx context.Context, item *models.KBVItem) error {
	if item.Revision == 0 {
		query := `
			INSERT INTO kbv_items (session_id, status, auth_ref_no, urn, expiry_epoch, question_state, revision)
			VALUES ($1, $2, $3, $4, $5, $6, 1)
			ON CONFLICT (session_id) DO NOTHING
		`
		result, err := s.db.ExecContext(ctx, query,
			item.SessionID, item.Status, item.AuthRefNo, item.URN,
			item.ExpiryEpoch, item.QuestionState,
		)
		if err != nil {
			return fmt.Errorf("insert kbv item: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert kbv item: %w", err)
		}
		if affected == 0 {
			return ErrConflict
		}
		item.Revision = 1
		return nil
	}

	query := `
		UPDATE kbv_items
		SET status = $2, auth_ref_no = $3, urn = $4, expiry_epoch = $5, question_state = $6, revision = revision + 1
		WHERE session_id = $1 AND revision = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		item.SessionID, item.Status, item.AuthRefNo, item.URN,
		item.ExpiryEpoch, item.QuestionState, item.Revision,
	)
	if err != nil {
		return fmt.Errorf("update kbv item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update kbv item: %w", err)
	}
	if affected == 0 {
		return ErrConflict
	}
	item.Revision++
	return nil
}
