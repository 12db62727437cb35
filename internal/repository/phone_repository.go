package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// PhoneRepo provides access to the phones contact fields on a PNR.
type PhoneRepo struct {
	db *sql.DB
}

// NewPhoneRepo returns a new PhoneRepo bound to the given database.
func NewPhoneRepo(db *sql.DB) *PhoneRepo { return &PhoneRepo{db: db} }

// ListByPNR returns the PNR's phone fields in insertion order.
func (r *PhoneRepo) ListByPNR(ctx context.Context, pnrID uint64) ([]model.Phone, error) {
	const q = `SELECT id, pnr_id, phone_type, number FROM phones WHERE pnr_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, pnrID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var phones []model.Phone
	for rows.Next() {
		var p model.Phone
		if err := rows.Scan(&p.ID, &p.PNRID, &p.Type, &p.Number); err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return phones, nil
}

// Add inserts a phone field.
func (r *PhoneRepo) Add(ctx context.Context, pnrID uint64, phoneType, number string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO phones (pnr_id, phone_type, number) VALUES (?, ?, ?)`,
		pnrID, phoneType, number)
	return err
}
