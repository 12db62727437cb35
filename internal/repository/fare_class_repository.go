package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// FareClassRepo owns the seat inventory on fare_classes rows. The
// sell path uses a conditional update so that concurrent sells from
// different sessions can never jointly push sold_seats past
// total_seats; the availability check and the increment are one
// atomically-applied statement against live state, not the session's
// cached snapshot.
type FareClassRepo struct {
	db *sql.DB
}

// NewFareClassRepo returns a new FareClassRepo bound to the given database.
func NewFareClassRepo(db *sql.DB) *FareClassRepo { return &FareClassRepo{db: db} }

// SellSeats increments sold_seats by n for the given flight and class,
// but only when the class still has n seats left. When the update
// matches no row (class missing or capacity would be exceeded) it
// returns ErrSeatsUnavailable and inventory is untouched.
func (r *FareClassRepo) SellSeats(ctx context.Context, flightID uint64, classCode string, n int) error {
	const q = `UPDATE fare_classes
	           SET sold_seats = sold_seats + ?
	           WHERE flight_id = ? AND class_code = ? AND sold_seats + ? <= total_seats`
	res, err := r.db.ExecContext(ctx, q, n, flightID, classCode, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSeatsUnavailable
	}
	return nil
}

// ReleaseSeats decrements sold_seats by n, floored at zero so a
// release can never drive the count negative. Releasing against a
// missing class is a no-op.
func (r *FareClassRepo) ReleaseSeats(ctx context.Context, flightID uint64, classCode string, n int) error {
	const q = `UPDATE fare_classes
	           SET sold_seats = GREATEST(CAST(sold_seats AS SIGNED) - ?, 0)
	           WHERE flight_id = ? AND class_code = ?`
	_, err := r.db.ExecContext(ctx, q, n, flightID, classCode)
	return err
}

// Availability reads the live seat counts for one (flight, class)
// pair. It returns sql.ErrNoRows when the class does not exist on the
// flight.
func (r *FareClassRepo) Availability(ctx context.Context, flightID uint64, classCode string) (model.FareClass, error) {
	const q = `SELECT id, flight_id, class_code, total_seats, sold_seats
	           FROM fare_classes
	           WHERE flight_id = ? AND class_code = ?`
	var fc model.FareClass
	err := r.db.QueryRowContext(ctx, q, flightID, classCode).Scan(
		&fc.ID, &fc.FlightID, &fc.ClassCode, &fc.TotalSeats, &fc.SoldSeats)
	return fc, err
}
