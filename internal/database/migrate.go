package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the application schema if it does not exist yet.  The
// statements are idempotent so the server can run them on every startup.
//
// Invariants the schema enforces on behalf of the application:
//   - users.steam_id is unique: one internal account per Steam identity.
//   - ratings has a composite unique key on (user_id, smoke_id) so a racing
//     duplicate insert is rejected by the engine, not by application checks.
//   - reports has the same composite unique key; a second report from the
//     same user against the same smoke always fails with a duplicate-key
//     error that the repository converts into a conflict.
//   - deleting a user or a smoke cascades to its ratings and reports.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			steam_id     VARCHAR(32)  NOT NULL,
			display_name VARCHAR(100) NOT NULL,
			avatar_url   VARCHAR(500) NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_steam_id (steam_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS maps (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			name        VARCHAR(64)  NOT NULL,
			description VARCHAR(255) NOT NULL DEFAULT '',
			image_url   VARCHAR(500) NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_maps_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS smokes (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			title         VARCHAR(120) NOT NULL,
			video_url     VARCHAR(500) NOT NULL,
			timestamp_sec INT UNSIGNED NOT NULL,
			x             DOUBLE NOT NULL,
			y             DOUBLE NOT NULL,
			user_id       BIGINT UNSIGNED NOT NULL,
			map_id        BIGINT UNSIGNED NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			deleted_at    DATETIME NULL DEFAULT NULL,
			PRIMARY KEY (id),
			KEY idx_smokes_map (map_id),
			CONSTRAINT fk_smokes_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
			CONSTRAINT fk_smokes_map  FOREIGN KEY (map_id)  REFERENCES maps (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS ratings (
			user_id    BIGINT UNSIGNED NOT NULL,
			smoke_id   BIGINT UNSIGNED NOT NULL,
			value      TINYINT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, smoke_id),
			CONSTRAINT fk_ratings_user  FOREIGN KEY (user_id)  REFERENCES users (id)  ON DELETE CASCADE,
			CONSTRAINT fk_ratings_smoke FOREIGN KEY (smoke_id) REFERENCES smokes (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS reports (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			reason     VARCHAR(500) NOT NULL,
			status     VARCHAR(20)  NOT NULL DEFAULT 'PENDING',
			user_id    BIGINT UNSIGNED NOT NULL,
			smoke_id   BIGINT UNSIGNED NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_reports_user_smoke (user_id, smoke_id),
			CONSTRAINT fk_reports_user  FOREIGN KEY (user_id)  REFERENCES users (id)  ON DELETE CASCADE,
			CONSTRAINT fk_reports_smoke FOREIGN KEY (smoke_id) REFERENCES smokes (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL DEFAULT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_refresh_tokens_hash (token_hash),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeedMaps inserts the competitive map pool.  Maps are static reference data
// and are never created through a request path, so seeding here is the only
// write the maps table ever sees.  INSERT IGNORE keeps the call idempotent.
func SeedMaps(ctx context.Context, db *sql.DB) error {
	maps := []struct {
		name, description string
	}{
		{"de_mirage", "Mid control map, A ramp and jungle smokes decide rounds"},
		{"de_dust2", "Classic long/short split, xbox and CT cross smokes"},
		{"de_inferno", "Banana control, coffins and library smokes"},
		{"de_nuke", "Vertical map, outside lineup smokes for A/B hits"},
		{"de_overpass", "Long A and monster smokes for B executes"},
		{"de_ancient", "Mid and donut smokes for both site takes"},
		{"de_anubis", "Water and mid connector smokes"},
		{"de_train", "Ivy, popdog and A-site cross smokes"},
	}
	for _, m := range maps {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO maps (name, description) VALUES (?, ?)",
			m.name, m.description); err != nil {
			return fmt.Errorf("seed maps: %w", err)
		}
	}
	return nil
}
