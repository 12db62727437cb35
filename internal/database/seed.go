package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type seedFlight struct {
	airline   string
	number    string
	origin    string
	dest      string
	depart    string
	arrive    string
	equipment string
	duration  int
}

type seedClass struct {
	code  string
	total int
	sold  int
}

type seedPNR struct {
	locator      string
	receivedFrom string
	ticketing    string
	passengers   []seedPassenger
	phones       []seedPhone
	segments     []seedSegment
}

type seedPassenger struct {
	seq   string
	last  string
	first string
	title string
}

type seedPhone struct {
	phoneType string
	number    string
}

type seedSegment struct {
	flightNumber string
	daysOut      int // travel date relative to seed time
	classCode    string
}

var seedAirlines = [][2]string{
	{"AA", "AMERICAN AIRLINES"},
	{"UA", "UNITED AIRLINES"},
	{"DL", "DELTA AIR LINES"},
}

var seedAirports = [][3]string{
	{"SFO", "SAN FRANCISCO INTL", "SAN FRANCISCO"},
	{"JFK", "JOHN F KENNEDY INTL", "NEW YORK"},
	{"LAX", "LOS ANGELES INTL", "LOS ANGELES"},
	{"ORD", "OHARE INTL", "CHICAGO"},
	{"DFW", "DALLAS FORT WORTH INTL", "DALLAS"},
}

var seedFlights = []seedFlight{
	{"AA", "AA100", "SFO", "JFK", "06:00:00", "14:30:00", "B738", 330},
	{"AA", "AA212", "SFO", "JFK", "09:15:00", "17:45:00", "A321", 330},
	{"UA", "UA440", "SFO", "JFK", "12:00:00", "20:25:00", "B777", 325},
	{"DL", "DL890", "SFO", "JFK", "17:20:00", "01:40:00", "A330", 320},
	{"AA", "AA305", "JFK", "SFO", "08:00:00", "11:35:00", "B738", 395},
	{"UA", "UA521", "JFK", "SFO", "15:30:00", "19:05:00", "B777", 395},
	{"AA", "AA777", "SFO", "LAX", "07:30:00", "08:55:00", "A320", 85},
	{"DL", "DL456", "LAX", "JFK", "10:45:00", "19:10:00", "A330", 325},
	{"UA", "UA964", "SFO", "ORD", "11:10:00", "17:25:00", "B739", 255},
	{"AA", "AA631", "ORD", "DFW", "13:40:00", "16:10:00", "B738", 150},
}

// seedClassDefaults give every flight the full six-bucket hierarchy.
// A handful of overrides close out cheap classes so the sell flow has
// something to refuse.
var seedClassDefaults = []seedClass{
	{"Y", 20, 2},
	{"B", 16, 4},
	{"M", 12, 6},
	{"H", 10, 8},
	{"Q", 8, 7},
	{"K", 6, 6},
}

var seedClassOverrides = map[string]map[string]seedClass{
	"AA100": {
		"Y": {"Y", 20, 18},
		"K": {"K", 6, 6},
		"Q": {"Q", 8, 8},
	},
	"UA440": {
		"M": {"M", 12, 12},
	},
	"DL890": {
		"Y": {"Y", 20, 20},
		"B": {"B", 16, 16},
	},
}

// seedPNRs include several SMITHs so the name-search pick list has
// something to show.
var seedPNRs = []seedPNR{
	{
		locator: "QWERTY", receivedFrom: "SMITH/J", ticketing: "TAW25NOV/",
		passengers: []seedPassenger{{"1.1", "SMITH", "JOHN", "MR"}},
		phones:     []seedPhone{{"M", "415-555-0123"}},
		segments:   []seedSegment{{"DL890", 14, "Y"}},
	},
	{
		locator: "ABCDEF", receivedFrom: "SMITH/M", ticketing: "",
		passengers: []seedPassenger{{"1.1", "SMITH", "MARGARET", "MRS"}},
		phones:     []seedPhone{{"H", "212-555-0177"}},
		segments:   []seedSegment{{"AA305", 21, "B"}},
	},
	{
		locator: "ZXCVBN", receivedFrom: "SMITH/J", ticketing: "",
		passengers: []seedPassenger{
			{"1.1", "SMITH", "JAMES", "MR"},
			{"1.2", "SMITH", "LINDA", "MRS"},
		},
		phones:   []seedPhone{{"B", "312-555-0100"}},
		segments: []seedSegment{{"UA964", 7, "M"}},
	},
	{
		locator: "GHJKLM", receivedFrom: "JONES/P", ticketing: "TAW01DEC/",
		passengers: []seedPassenger{{"1.1", "JONES", "PATRICIA", "MS"}},
		phones:     []seedPhone{{"M", "646-555-0142"}},
		segments:   []seedSegment{{"DL456", 10, "Y"}},
	},
	{
		locator: "PNRDEM", receivedFrom: "GARCIA/C", ticketing: "",
		passengers: []seedPassenger{{"1.1", "GARCIA", "CARLOS", "DR"}},
		phones:     []seedPhone{{"H", "214-555-0188"}},
		segments:   []seedSegment{{"AA631", 5, "H"}},
	},
}

// Seed loads the reference data set inside one transaction.  It is a
// no-op when airlines already exist, so restarts keep accumulated
// booking state.
func Seed(ctx context.Context, db *sql.DB, now time.Time) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM airlines`).Scan(&count); err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, a := range seedAirlines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO airlines (code, name) VALUES (?, ?)`, a[0], a[1]); err != nil {
			return fmt.Errorf("seed airline %s: %w", a[0], err)
		}
	}
	for _, a := range seedAirports {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO airports (code, name, city) VALUES (?, ?, ?)`, a[0], a[1], a[2]); err != nil {
			return fmt.Errorf("seed airport %s: %w", a[0], err)
		}
	}

	flightIDs := make(map[string]int64, len(seedFlights))
	for _, f := range seedFlights {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO flights (airline_code, flight_number, origin, destination,
			depart_time, arrive_time, equipment, duration_mins)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.airline, f.number, f.origin, f.dest, f.depart, f.arrive, f.equipment, f.duration)
		if err != nil {
			return fmt.Errorf("seed flight %s: %w", f.number, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed flight %s id: %w", f.number, err)
		}
		flightIDs[f.number] = id

		for _, def := range seedClassDefaults {
			cls := def
			if ov, ok := seedClassOverrides[f.number][def.code]; ok {
				cls = ov
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fare_classes (flight_id, class_code, total_seats, sold_seats)
				VALUES (?, ?, ?, ?)`,
				id, cls.code, cls.total, cls.sold); err != nil {
				return fmt.Errorf("seed fare class %s/%s: %w", f.number, cls.code, err)
			}
		}
	}

	for _, p := range seedPNRs {
		var receivedFrom, ticketing interface{}
		if p.receivedFrom != "" {
			receivedFrom = p.receivedFrom
		}
		if p.ticketing != "" {
			ticketing = p.ticketing
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO pnrs (record_locator, received_from, ticketing) VALUES (?, ?, ?)`,
			p.locator, receivedFrom, ticketing)
		if err != nil {
			return fmt.Errorf("seed pnr %s: %w", p.locator, err)
		}
		pnrID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed pnr %s id: %w", p.locator, err)
		}

		for _, pax := range p.passengers {
			var title interface{}
			if pax.title != "" {
				title = pax.title
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO passengers (pnr_id, seq_number, last_name, first_name, title)
				VALUES (?, ?, ?, ?, ?)`,
				pnrID, pax.seq, pax.last, pax.first, title); err != nil {
				return fmt.Errorf("seed passenger %s/%s: %w", p.locator, pax.seq, err)
			}
		}
		for _, ph := range p.phones {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO phones (pnr_id, phone_type, number) VALUES (?, ?, ?)`,
				pnrID, ph.phoneType, ph.number); err != nil {
				return fmt.Errorf("seed phone %s: %w", p.locator, err)
			}
		}
		for i, seg := range p.segments {
			fid, ok := flightIDs[seg.flightNumber]
			if !ok {
				return fmt.Errorf("seed segment %s: unknown flight %s", p.locator, seg.flightNumber)
			}
			travelDate := now.AddDate(0, 0, seg.daysOut).Format("2006-01-02")
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO segments (pnr_id, flight_id, seg_number, travel_date,
				class_code, status, num_passengers)
				VALUES (?, ?, ?, ?, ?, 'HK', ?)`,
				pnrID, fid, i+1, travelDate, seg.classCode, len(p.passengers)); err != nil {
				return fmt.Errorf("seed segment %s/%d: %w", p.locator, i+1, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pnr_history (pnr_id, action) VALUES (?, 'PNR CREATED')`, pnrID); err != nil {
			return fmt.Errorf("seed history %s: %w", p.locator, err)
		}
	}

	return tx.Commit()
}
