package model

import "time"

// PNR is a Passenger Name Record: one reservation holding passengers,
// itinerary segments and contact fields.  A PNR is created implicitly
// when the first passenger name is added with no record in context and
// is never physically deleted by the core.
//
// Fields:
//  ID            – primary key identifier.
//  RecordLocator – unique six-letter retrieval key.
//  Status        – lifecycle status ("ACTIVE").
//  ReceivedFrom  – who requested the booking; required to commit.
//  Ticketing     – ticketing time limit field (free text).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – bumped on every successful end transaction.
type PNR struct {
	ID            uint64    // pnrs.id
	RecordLocator string    // pnrs.record_locator
	Status        string    // pnrs.status
	ReceivedFrom  string    // pnrs.received_from (empty when unset)
	Ticketing     string    // pnrs.ticketing (empty when unset)
	CreatedAt     time.Time // pnrs.created_at
	UpdatedAt     time.Time // pnrs.updated_at
}

// Passenger belongs to exactly one PNR.  SeqNumber has the form
// "group.member" ("1.1", "1.2", ...); ordering by it is display order.
type Passenger struct {
	ID        uint64 // passengers.id
	PNRID     uint64 // passengers.pnr_id
	SeqNumber string // passengers.seq_number
	LastName  string // passengers.last_name
	FirstName string // passengers.first_name
	Title     string // passengers.title (empty when absent)
}

// Phone is a contact field on a PNR.  Type is a single letter:
// H (home), B (business) or M (mobile).
type Phone struct {
	ID     uint64 // phones.id
	PNRID  uint64 // phones.pnr_id
	Type   string // phones.phone_type
	Number string // phones.number
}

// PhoneTypeLabel maps a phone type letter to its display label.
// Unknown letters fall back to the raw letter.
func PhoneTypeLabel(t string) string {
	switch t {
	case "H":
		return "HOME"
	case "B":
		return "BUSINESS"
	case "M":
		return "MOBILE"
	}
	return t
}

// HistoryEntry is an append-only audit row on a PNR.  Entries are
// never mutated or deleted.
type HistoryEntry struct {
	ID        uint64    // pnr_history.id
	PNRID     uint64    // pnr_history.pnr_id
	Action    string    // pnr_history.action
	Agent     string    // pnr_history.agent
	CreatedAt time.Time // pnr_history.created_at
}

// Commit requirement lines.  A PNR may be ended (ET/ER) only when none
// of these are missing; violations surface one line each, in this
// order, under an "UNABLE TO END TRANSACTION" header.
const (
	NeedPassenger    = "NEED PASSENGER NAME"
	NeedSegment      = "NEED ITINERARY SEGMENT"
	NeedPhone        = "NEED PHONE FIELD"
	NeedReceivedFrom = "NEED RECEIVED FROM"
)
