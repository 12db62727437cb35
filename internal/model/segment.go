package model

import "time"

// Segment status codes.  HK is "holding confirmed"; XX marks a segment
// cancelled and pending physical removal (it only ever exists inside
// the cancel flow, which removes the row in the same command).
const (
	SegStatusConfirmed = "HK"
	SegStatusCancelled = "XX"
)

// Segment is one flight leg within a PNR.  Segment numbers form a
// dense 1..count range per PNR at all times after any mutation;
// cancellation renumbers the survivors.  NumPassengers is a snapshot
// of the PNR's passenger count taken at sale time and drives how many
// seats the leg releases on cancellation.
type Segment struct {
	ID            uint64    // segments.id
	PNRID         uint64    // segments.pnr_id
	FlightID      uint64    // segments.flight_id
	SegNumber     int       // segments.seg_number (1-based, dense)
	TravelDate    time.Time // segments.travel_date (date only, UTC)
	ClassCode     string    // segments.class_code
	Status        string    // segments.status
	NumPassengers int       // segments.num_passengers
}

// ItinerarySegment is a Segment joined with its flight's schedule
// fields, as loaded for display and cancellation.
type ItinerarySegment struct {
	Segment
	FlightNumber string // flights.flight_number
	Origin       string // flights.origin
	Destination  string // flights.destination
	DepartTime   string // flights.depart_time
	ArriveTime   string // flights.arrive_time
	Equipment    string // flights.equipment
	DurationMins int    // flights.duration_mins
}

// SegmentRef identifies a flight/date/class triple for the
// flight-change statistics heuristic: the first cancelled segment in a
// session is remembered as the "original", the next sold segment as
// the "new" one.
type SegmentRef struct {
	FlightNumber string
	TravelDate   time.Time
	ClassCode    string
}
