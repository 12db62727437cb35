package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// HistoryRepo provides the append-only PNR audit log. Rows are never
// updated or deleted; every mutating command appends one.
type HistoryRepo struct {
	db    *sql.DB
	agent string // agent sign recorded on each row
}

// NewHistoryRepo returns a new HistoryRepo bound to the given
// database, stamping rows with the given agent sign.
func NewHistoryRepo(db *sql.DB, agent string) *HistoryRepo {
	return &HistoryRepo{db: db, agent: agent}
}

// Append records one action against a PNR.
func (r *HistoryRepo) Append(ctx context.Context, pnrID uint64, action string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pnr_history (pnr_id, action, agent) VALUES (?, ?, ?)`,
		pnrID, action, r.agent)
	return err
}

// ListByPNR returns a PNR's history oldest first.
func (r *HistoryRepo) ListByPNR(ctx context.Context, pnrID uint64) ([]model.HistoryEntry, error) {
	const q = `SELECT id, pnr_id, action, agent, created_at
	           FROM pnr_history WHERE pnr_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, pnrID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		if err := rows.Scan(&h.ID, &h.PNRID, &h.Action, &h.Agent, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
