package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// ReportRepo persists moderation reports. Unlike ratings this is never an
// upsert: the unique (user_id, smoke_id) key makes a second report from
// the same user fail with a duplicate-key error, which surfaces here as
// ErrDuplicate rather than overwriting the original report.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Create files a report against a smoke with the initial PENDING status.
// The smoke's existence check and the insert share one transaction with
// the smoke row locked, so a racing delete cannot produce a report against
// just-deleted content. A duplicate report returns ErrDuplicate and leaves
// the existing row untouched.
func (r *ReportRepo) Create(ctx context.Context, userID, smokeID uint64, reason string) (model.Report, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Report{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockLiveSmoke(ctx, tx, smokeID); err != nil {
		return model.Report{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO reports (reason, status, user_id, smoke_id) VALUES (?,?,?,?)",
		reason, model.ReportStatusPending, userID, smokeID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Report{}, ErrDuplicate
		}
		return model.Report{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Report{}, err
	}

	var rep model.Report
	err = tx.QueryRowContext(ctx,
		"SELECT id,reason,status,user_id,smoke_id,created_at,updated_at FROM reports WHERE id=? LIMIT 1",
		id).Scan(&rep.ID, &rep.Reason, &rep.Status, &rep.UserID, &rep.SmokeID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return model.Report{}, err
	}
	return rep, tx.Commit()
}

// StatusFor returns, for the given reporter, which of the smoke ids
// already have a report filed. Pure read used to drive "already reported"
// state in clients; ids not present in the result have no report.
func (r *ReportRepo) StatusFor(ctx context.Context, userID uint64, smokeIDs []uint64) (map[uint64]bool, error) {
	reported := make(map[uint64]bool, len(smokeIDs))
	if len(smokeIDs) == 0 {
		return reported, nil
	}

	placeholders := strings.Repeat("?,", len(smokeIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(smokeIDs)+1)
	args = append(args, userID)
	for _, id := range smokeIDs {
		args = append(args, id)
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT smoke_id FROM reports WHERE user_id=? AND smoke_id IN ("+placeholders+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		reported[id] = true
	}
	return reported, rows.Err()
}
