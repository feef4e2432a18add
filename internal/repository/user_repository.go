package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// UserRepo persists users keyed by their Steam identity.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Reconcile maps an external Steam identity onto an internal user row.
// On first sight it inserts a new user; on every later sight it refreshes
// display_name and avatar_url with the freshly supplied values, leaving all
// other columns untouched. The upsert runs atomically on the steam_id
// unique key, then the resulting row is read back.
func (r *UserRepo) Reconcile(ctx context.Context, steamID, displayName, avatarURL string) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (steam_id, display_name, avatar_url) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE display_name=VALUES(display_name), avatar_url=VALUES(avatar_url)`,
		steamID, displayName, avatarURL)
	if err != nil {
		return model.User{}, err
	}
	return r.GetBySteamID(ctx, steamID)
}

// GetBySteamID fetches a user by Steam identity.
func (r *UserRepo) GetBySteamID(ctx context.Context, steamID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,steam_id,display_name,avatar_url,created_at,updated_at FROM users WHERE steam_id=? LIMIT 1",
		steamID).Scan(&u.ID, &u.SteamID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by internal id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,steam_id,display_name,avatar_url,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.SteamID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
