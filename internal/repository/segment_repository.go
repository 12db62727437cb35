package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

// SegmentRepo provides access to itinerary segments. Segment numbers
// for a PNR must stay a dense 1..count range after every mutation;
// Renumber restores that invariant after deletions.
type SegmentRepo struct {
	db *sql.DB
}

// NewSegmentRepo returns a new SegmentRepo bound to the given database.
func NewSegmentRepo(db *sql.DB) *SegmentRepo { return &SegmentRepo{db: db} }

// ListByPNR returns the PNR's segments joined with their flight
// schedule fields, ordered by segment number.
func (r *SegmentRepo) ListByPNR(ctx context.Context, pnrID uint64) ([]model.ItinerarySegment, error) {
	const q = `SELECT s.id, s.pnr_id, s.flight_id, s.seg_number, s.travel_date, s.class_code,
	                  s.status, s.num_passengers,
	                  f.flight_number, f.origin, f.destination, f.depart_time, f.arrive_time,
	                  f.equipment, f.duration_mins
	           FROM segments s
	           JOIN flights f ON f.id = s.flight_id
	           WHERE s.pnr_id = ?
	           ORDER BY s.seg_number`
	rows, err := r.db.QueryContext(ctx, q, pnrID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var segments []model.ItinerarySegment
	for rows.Next() {
		var s model.ItinerarySegment
		if err := rows.Scan(&s.ID, &s.PNRID, &s.FlightID, &s.SegNumber, &s.TravelDate, &s.ClassCode,
			&s.Status, &s.NumPassengers,
			&s.FlightNumber, &s.Origin, &s.Destination, &s.DepartTime, &s.ArriveTime,
			&s.Equipment, &s.DurationMins); err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

// NextNumber returns the next dense segment number for the PNR.
func (r *SegmentRepo) NextNumber(ctx context.Context, pnrID uint64) (int, error) {
	var maxSeg sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(seg_number) FROM segments WHERE pnr_id = ?`, pnrID).Scan(&maxSeg)
	if err != nil {
		return 0, err
	}
	return int(maxSeg.Int64) + 1, nil
}

// Insert adds a segment and populates its generated ID.
func (r *SegmentRepo) Insert(ctx context.Context, seg *model.Segment) error {
	const q = `INSERT INTO segments (pnr_id, flight_id, seg_number, travel_date, class_code, status, num_passengers)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, seg.PNRID, seg.FlightID, seg.SegNumber,
		utils.ISODate(seg.TravelDate), seg.ClassCode, seg.Status, seg.NumPassengers)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	seg.ID = uint64(id)
	return nil
}

// MarkCancelled flips a segment's status to XX ahead of its removal.
func (r *SegmentRepo) MarkCancelled(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE segments SET status = ? WHERE id = ?`, model.SegStatusCancelled, id)
	return err
}

// Delete physically removes a segment row.
func (r *SegmentRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM segments WHERE id = ?`, id)
	return err
}

// Renumber rewrites the PNR's remaining segment numbers to the dense
// range 1..count, preserving their prior relative order. Survivors are
// updated in ascending order so each new number is always free before
// it is assigned, which keeps the (pnr_id, seg_number) unique
// constraint happy mid-transaction.
func (r *SegmentRepo) Renumber(ctx context.Context, pnrID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	rows, err := tx.QueryContext(ctx, `SELECT id FROM segments WHERE pnr_id = ? ORDER BY seg_number`, pnrID)
	if err != nil {
		return err
	}
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE segments SET seg_number = ? WHERE id = ?`, i+1, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
