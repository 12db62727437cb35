package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// FlightRepo provides read-only access to the flight schedule.
// Flights are reference data seeded at startup; nothing in the
// simulator mutates them.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// ByRoute returns all flights between origin and destination ordered
// by departure time, each paired with its fare-class seat counts in
// the fixed class display order. An empty route returns an empty slice
// and nil error.
func (r *FlightRepo) ByRoute(ctx context.Context, origin, destination string) ([]model.FlightAvailability, error) {
	const q = `SELECT id, airline_code, flight_number, origin, destination,
	                  depart_time, arrive_time, equipment, duration_mins
	           FROM flights
	           WHERE origin = ? AND destination = ?
	           ORDER BY depart_time`
	rows, err := r.db.QueryContext(ctx, q, origin, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var flights []model.FlightAvailability
	for rows.Next() {
		var f model.FlightAvailability
		if err := rows.Scan(&f.ID, &f.AirlineCode, &f.FlightNumber, &f.Origin, &f.Destination,
			&f.DepartTime, &f.ArriveTime, &f.Equipment, &f.DurationMins); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Load fare classes per flight. FIELD() pins the display order of
	// the known booking classes; unknown codes sort after them.
	const clsQ = `SELECT id, flight_id, class_code, total_seats, sold_seats
	              FROM fare_classes
	              WHERE flight_id = ?
	              ORDER BY FIELD(class_code, 'Y', 'B', 'M', 'H', 'Q', 'K'), class_code`
	for i := range flights {
		crows, err := r.db.QueryContext(ctx, clsQ, flights[i].ID)
		if err != nil {
			return nil, err
		}
		for crows.Next() {
			var fc model.FareClass
			if err := crows.Scan(&fc.ID, &fc.FlightID, &fc.ClassCode, &fc.TotalSeats, &fc.SoldSeats); err != nil {
				crows.Close()
				return nil, err
			}
			flights[i].Classes = append(flights[i].Classes, fc)
		}
		if err := crows.Close(); err != nil {
			return nil, err
		}
	}
	return flights, nil
}
