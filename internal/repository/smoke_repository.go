package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// SmokeRepo persists smoke lineup clips. Deletion is soft: deleted_at is
// set and every read in this repository filters deleted rows out.
type SmokeRepo struct{ DB *sql.DB }

func NewSmokeRepo(db *sql.DB) *SmokeRepo { return &SmokeRepo{DB: db} }

// ListByMap returns the non-deleted smokes of a map, each with a score
// derived as the signed sum of its rating values. The LEFT JOIN keeps
// unrated smokes in the result with score 0 instead of dropping them, and
// the author/map fields are joined in rather than lazy-loaded. The result
// is ordered by model.SortByScore: score first, then recency.
func (r *SmokeRepo) ListByMap(ctx context.Context, mapID uint64) ([]model.SmokeWithScore, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.title, s.video_url, s.timestamp_sec, s.x, s.y,
		       s.user_id, s.map_id, s.created_at, s.updated_at,
		       COALESCE(SUM(r.value), 0) AS score,
		       u.id, u.display_name, u.avatar_url,
		       m.name
		FROM smokes s
		JOIN users u ON u.id = s.user_id
		JOIN maps  m ON m.id = s.map_id
		LEFT JOIN ratings r ON r.smoke_id = s.id
		WHERE s.map_id = ? AND s.deleted_at IS NULL
		GROUP BY s.id, s.title, s.video_url, s.timestamp_sec, s.x, s.y,
		         s.user_id, s.map_id, s.created_at, s.updated_at,
		         u.id, u.display_name, u.avatar_url, m.name`, mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SmokeWithScore, 0, 32)
	for rows.Next() {
		var s model.SmokeWithScore
		if err := rows.Scan(
			&s.ID, &s.Title, &s.VideoURL, &s.TimestampSec, &s.X, &s.Y,
			&s.UserID, &s.MapID, &s.CreatedAt, &s.UpdatedAt,
			&s.Score,
			&s.Author.ID, &s.Author.DisplayName, &s.Author.AvatarURL,
			&s.MapName,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	model.SortByScore(out)
	return out, nil
}

// GetByID fetches a single non-deleted smoke with its derived score and
// denormalized author/map fields.
func (r *SmokeRepo) GetByID(ctx context.Context, id uint64) (model.SmokeWithScore, error) {
	var s model.SmokeWithScore
	err := r.DB.QueryRowContext(ctx, `
		SELECT s.id, s.title, s.video_url, s.timestamp_sec, s.x, s.y,
		       s.user_id, s.map_id, s.created_at, s.updated_at,
		       COALESCE(SUM(r.value), 0) AS score,
		       u.id, u.display_name, u.avatar_url,
		       m.name
		FROM smokes s
		JOIN users u ON u.id = s.user_id
		JOIN maps  m ON m.id = s.map_id
		LEFT JOIN ratings r ON r.smoke_id = s.id
		WHERE s.id = ? AND s.deleted_at IS NULL
		GROUP BY s.id, s.title, s.video_url, s.timestamp_sec, s.x, s.y,
		         s.user_id, s.map_id, s.created_at, s.updated_at,
		         u.id, u.display_name, u.avatar_url, m.name
		LIMIT 1`, id).Scan(
		&s.ID, &s.Title, &s.VideoURL, &s.TimestampSec, &s.X, &s.Y,
		&s.UserID, &s.MapID, &s.CreatedAt, &s.UpdatedAt,
		&s.Score,
		&s.Author.ID, &s.Author.DisplayName, &s.Author.AvatarURL,
		&s.MapName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SmokeWithScore{}, ErrNotFound
	}
	return s, err
}

// Create inserts a smoke and returns the stored row. The owner id comes
// from the verified caller identity, never from client input. A fresh
// smoke necessarily has score 0 since no rating can reference it yet.
func (r *SmokeRepo) Create(ctx context.Context, ownerID, mapID uint64, title, videoURL string, timestampSec uint32, x, y float64) (model.SmokeWithScore, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO smokes (title, video_url, timestamp_sec, x, y, user_id, map_id)
		 VALUES (?,?,?,?,?,?,?)`,
		title, videoURL, timestampSec, x, y, ownerID, mapID)
	if err != nil {
		return model.SmokeWithScore{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SmokeWithScore{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// SoftDelete marks a smoke deleted on behalf of ownerID. The checks run in
// the order the API promises them: existence first (a repeat delete or an
// unknown id both surface ErrNotFound), ownership second (ErrForbidden),
// and only then the deleted_at write. Historical rating and report rows
// survive because the row itself stays in place.
func (r *SmokeRepo) SoftDelete(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var dbOwner uint64
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM smokes WHERE id=? AND deleted_at IS NULL LIMIT 1 FOR UPDATE",
		id).Scan(&dbOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE smokes SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id); err != nil {
		return err
	}
	return tx.Commit()
}
