package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// PassengerRepo provides access to the passengers table. Passengers
// are ordered by their "group.member" sequence number, which is also
// their display order.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a new PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

// ListByPNR returns all passengers on a PNR in sequence order.
func (r *PassengerRepo) ListByPNR(ctx context.Context, pnrID uint64) ([]model.Passenger, error) {
	const q = `SELECT id, pnr_id, seq_number, last_name, first_name, COALESCE(title, '')
	           FROM passengers WHERE pnr_id = ? ORDER BY seq_number`
	rows, err := r.db.QueryContext(ctx, q, pnrID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var passengers []model.Passenger
	for rows.Next() {
		var p model.Passenger
		if err := rows.Scan(&p.ID, &p.PNRID, &p.SeqNumber, &p.LastName, &p.FirstName, &p.Title); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passengers, nil
}

// LastSeq returns the highest sequence number on the PNR, or an empty
// string when the record has no passengers yet.
func (r *PassengerRepo) LastSeq(ctx context.Context, pnrID uint64) (string, error) {
	const q = `SELECT seq_number FROM passengers WHERE pnr_id = ? ORDER BY seq_number DESC LIMIT 1`
	var seq string
	err := r.db.QueryRowContext(ctx, q, pnrID).Scan(&seq)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return seq, nil
}

// Add inserts a passenger. An empty title is stored as NULL.
func (r *PassengerRepo) Add(ctx context.Context, pnrID uint64, seq, lastName, firstName, title string) error {
	var t interface{}
	if title != "" {
		t = title
	}
	const q = `INSERT INTO passengers (pnr_id, seq_number, last_name, first_name, title) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, pnrID, seq, lastName, firstName, t)
	return err
}

// Count returns the number of passengers on the PNR.
func (r *PassengerRepo) Count(ctx context.Context, pnrID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passengers WHERE pnr_id = ?`, pnrID).Scan(&n)
	return n, err
}
