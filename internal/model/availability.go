package model

import "time"

// FlightAvailability pairs a flight with its fare-class seat counts as
// they stood at search time.  The slice order of Classes follows
// ClassPriority.
type FlightAvailability struct {
	Flight
	Classes []FareClass
}

// AvailabilitySnapshot caches a session's most recent availability
// search.  Line numbers on the display are 1-based positions into
// Flights.  The snapshot stays valid for line and class resolution
// until the next search; seat counts in it are advisory only and are
// revalidated against live inventory when selling.
type AvailabilitySnapshot struct {
	Date        time.Time
	Origin      string
	Destination string
	NumSeats    int
	Flights     []FlightAvailability
}

// PNRSummary is one row of a name-search result list: enough to render
// the numbered pick list and to open the PNR once selected.
type PNRSummary struct {
	PNRID         uint64
	RecordLocator string
	LastName      string
	FirstName     string
	Title         string
	FlightNumber  string    // first segment's flight, empty when none
	TravelDate    time.Time // first segment's date, zero when none
}
