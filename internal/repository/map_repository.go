package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// MapRepo is a read-only catalog over the maps table. Maps are seeded at
// startup and never written through a request path.
type MapRepo struct{ DB *sql.DB }

func NewMapRepo(db *sql.DB) *MapRepo { return &MapRepo{DB: db} }

// List returns every map ordered by name.
func (r *MapRepo) List(ctx context.Context) ([]model.Map, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,image_url,created_at FROM maps ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Map, 0, 16)
	for rows.Next() {
		var m model.Map
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.ImageURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches a single map.
func (r *MapRepo) GetByID(ctx context.Context, id uint64) (model.Map, error) {
	var m model.Map
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,image_url,created_at FROM maps WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Name, &m.Description, &m.ImageURL, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Map{}, ErrNotFound
	}
	return m, err
}

// Exists reports whether a map with the given id exists.
func (r *MapRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM maps WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
