package model

// Flight is a scheduled flight between two airports.  Flights are
// read-mostly reference data: the simulator never creates or mutates
// them at runtime, it only queries them by route and joins them onto
// itinerary segments for display.
//
// Fields:
//  ID           – primary key identifier.
//  AirlineCode  – two-letter carrier code (e.g. "AA").
//  FlightNumber – carrier designator plus number (e.g. "AA123").
//  Origin       – three-letter departure airport code.
//  Destination  – three-letter arrival airport code.
//  DepartTime   – local departure clock time as "HH:MM:SS".
//  ArriveTime   – local arrival clock time as "HH:MM:SS".
//  Equipment    – aircraft type shown on displays.
//  DurationMins – block time in minutes.
type Flight struct {
	ID           uint64 // flights.id
	AirlineCode  string // flights.airline_code
	FlightNumber string // flights.flight_number
	Origin       string // flights.origin
	Destination  string // flights.destination
	DepartTime   string // flights.depart_time
	ArriveTime   string // flights.arrive_time
	Equipment    string // flights.equipment
	DurationMins int    // flights.duration_mins
}

// FareClass is one priced seat bucket on a flight with its own
// inventory.  The invariant 0 <= SoldSeats <= TotalSeats must hold
// after every sell and cancel; the repository enforces it with a
// conditional update at sell time and a floor at release time.
type FareClass struct {
	ID         uint64 // fare_classes.id
	FlightID   uint64 // fare_classes.flight_id
	ClassCode  string // fare_classes.class_code (single letter)
	TotalSeats int    // fare_classes.total_seats
	SoldSeats  int    // fare_classes.sold_seats
}

// Available returns the number of unsold seats in the class.
func (fc FareClass) Available() int { return fc.TotalSeats - fc.SoldSeats }

// ClassPriority is the fixed display and lookup order of fare classes
// on availability lines.  Classes not listed here sort after the
// listed ones in unspecified order.
var ClassPriority = []string{"Y", "B", "M", "H", "Q", "K"}
