package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// PNRRepo provides CRUD access to pnrs rows plus the name search and
// the end-transaction commit. The commit runs its four-table
// validation and its writes inside one database transaction so a
// mid-sequence failure can never leave a PNR stamped committed
// without its history entry.
type PNRRepo struct {
	db    *sql.DB
	agent string // agent sign recorded on commit history rows
}

// NewPNRRepo returns a new PNRRepo bound to the given database. The
// agent sign is stamped on history rows written during commit.
func NewPNRRepo(db *sql.DB, agent string) *PNRRepo { return &PNRRepo{db: db, agent: agent} }

func scanPNR(row *sql.Row) (*model.PNR, error) {
	var p model.PNR
	var receivedFrom, ticketing sql.NullString
	err := row.Scan(&p.ID, &p.RecordLocator, &p.Status, &receivedFrom, &ticketing, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ReceivedFrom = receivedFrom.String
	p.Ticketing = ticketing.String
	return &p, nil
}

// ByLocator loads a PNR by its six-letter record locator. It returns
// a nil record, without error, when no such record exists.
func (r *PNRRepo) ByLocator(ctx context.Context, locator string) (*model.PNR, error) {
	const q = `SELECT id, record_locator, status, received_from, ticketing, created_at, updated_at
	           FROM pnrs WHERE record_locator = ?`
	return scanPNR(r.db.QueryRowContext(ctx, q, locator))
}

// ByID loads a PNR by primary key.
func (r *PNRRepo) ByID(ctx context.Context, id uint64) (*model.PNR, error) {
	const q = `SELECT id, record_locator, status, received_from, ticketing, created_at, updated_at
	           FROM pnrs WHERE id = ?`
	return scanPNR(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts an empty PNR with the given locator and returns its
// ID. A locator collision returns ErrDuplicateLocator so the caller
// can generate a new one and retry.
func (r *PNRRepo) Create(ctx context.Context, locator string) (uint64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO pnrs (record_locator) VALUES (?)`, locator)
	if err != nil {
		// MySQL duplicate key error is 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateLocator
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetReceivedFrom stores the received-from field.
func (r *PNRRepo) SetReceivedFrom(ctx context.Context, id uint64, value string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pnrs SET received_from = ? WHERE id = ?`, value, id)
	return err
}

// SetTicketing stores the ticketing time-limit field.
func (r *PNRRepo) SetTicketing(ctx context.Context, id uint64, value string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pnrs SET ticketing = ? WHERE id = ?`, value, id)
	return err
}

// SearchByName finds PNRs whose passengers match the last name exactly
// (case-insensitive) and, when given, the first name as a prefix. Each
// summary carries the first itinerary segment, when one exists, for
// display on the pick list. Results are ordered by record locator.
func (r *PNRRepo) SearchByName(ctx context.Context, lastName, firstName string) ([]model.PNRSummary, error) {
	q := `SELECT p.id, p.record_locator, pax.last_name, pax.first_name, COALESCE(pax.title, ''),
	             COALESCE(f.flight_number, ''), s.travel_date
	      FROM pnrs p
	      JOIN passengers pax ON pax.pnr_id = p.id
	      LEFT JOIN segments s ON s.pnr_id = p.id
	           AND s.seg_number = (SELECT MIN(s2.seg_number) FROM segments s2 WHERE s2.pnr_id = p.id)
	      LEFT JOIN flights f ON f.id = s.flight_id
	      WHERE UPPER(pax.last_name) = ?`
	args := []interface{}{strings.ToUpper(lastName)}
	if firstName != "" {
		q += ` AND UPPER(pax.first_name) LIKE ?`
		args = append(args, strings.ToUpper(firstName)+"%")
	}
	q += ` ORDER BY p.record_locator`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.PNRSummary
	for rows.Next() {
		var s model.PNRSummary
		var travelDate sql.NullTime
		if err := rows.Scan(&s.PNRID, &s.RecordLocator, &s.LastName, &s.FirstName, &s.Title,
			&s.FlightNumber, &travelDate); err != nil {
			return nil, err
		}
		if travelDate.Valid {
			s.TravelDate = travelDate.Time
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Commit validates and finalises a PNR in a single transaction. It
// checks the four commit requirements (passenger, segment, phone,
// received-from); when any are missing it returns their requirement
// lines, in fixed order, and writes nothing. Otherwise it bumps the
// record's updated_at, appends an END TRANSACTION history entry and
// commits, returning an empty slice.
func (r *PNRRepo) Commit(ctx context.Context, id uint64) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var receivedFrom sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT received_from FROM pnrs WHERE id = ?`, id).Scan(&receivedFrom); err != nil {
		return nil, err
	}
	counts := []struct {
		query   string
		missing string
	}{
		{`SELECT COUNT(*) FROM passengers WHERE pnr_id = ?`, model.NeedPassenger},
		{`SELECT COUNT(*) FROM segments WHERE pnr_id = ?`, model.NeedSegment},
		{`SELECT COUNT(*) FROM phones WHERE pnr_id = ?`, model.NeedPhone},
	}
	var missing []string
	for _, c := range counts {
		var n int
		if err := tx.QueryRowContext(ctx, c.query, id).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			missing = append(missing, c.missing)
		}
	}
	if !receivedFrom.Valid || receivedFrom.String == "" {
		missing = append(missing, model.NeedReceivedFrom)
	}
	if len(missing) > 0 {
		return missing, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE pnrs SET updated_at = UTC_TIMESTAMP() WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pnr_history (pnr_id, action, agent) VALUES (?, ?, ?)`,
		id, "END TRANSACTION", r.agent); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return nil, nil
}
