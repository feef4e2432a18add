package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// RatingRepo persists per-(user, smoke) votes. The table's composite
// primary key on (user_id, smoke_id) guarantees at most one row per pair;
// the engine's upsert semantics, not application checks, win races between
// concurrent votes from the same user.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Upsert creates or overwrites the caller's vote on a smoke. The smoke's
// existence check and the write share one transaction, with the smoke row
// locked, so a concurrent soft delete cannot slip between the check and
// the insert and leave a vote attached to deleted content. Values other
// than +1/-1 never reach this method; the boundary rejects them first.
func (r *RatingRepo) Upsert(ctx context.Context, userID, smokeID uint64, value int8) error {
	if value != model.Upvote && value != model.Downvote {
		return errors.New("rating value out of range")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockLiveSmoke(ctx, tx, smokeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ratings (user_id, smoke_id, value) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE value=VALUES(value)`,
		userID, smokeID, value); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove deletes the caller's vote on a smoke if one exists. Removing a
// vote that was never cast is not an error; the delete is idempotent. The
// smoke must still exist and not be deleted, matching the upsert path.
func (r *RatingRepo) Remove(ctx context.Context, userID, smokeID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockLiveSmoke(ctx, tx, smokeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ratings WHERE user_id=? AND smoke_id=?", userID, smokeID); err != nil {
		return err
	}
	return tx.Commit()
}

// lockLiveSmoke verifies inside tx that the smoke exists and is not
// soft-deleted, taking a row lock so the state holds until commit.
func lockLiveSmoke(ctx context.Context, tx *sql.Tx, smokeID uint64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM smokes WHERE id=? AND deleted_at IS NULL LIMIT 1 FOR UPDATE",
		smokeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
