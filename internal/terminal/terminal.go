// Package terminal implements the command interpreter and the
// reservation/inventory state machine behind it: pattern-based
// dispatch, per-session context, availability search, seat sell and
// release, PNR field assembly and the end-transaction protocol.
// Transport and presentation live elsewhere; this package consumes a
// record store and produces structured results.
package terminal

import (
	"context"
	"time"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/queue"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
	"github.com/iliyamo/airline-pnr-terminal/pkg/logger"
	"github.com/iliyamo/airline-pnr-terminal/pkg/metrics"
)

// Result is what every command returns to the presentation layer.
// Output is a plain multi-line text block rendered verbatim. Beep
// signals an error cue. DelayMs is extra processing-simulation delay.
// IsDemo marks the scripted walkthrough response.
type Result struct {
	Output  string `json:"output"`
	Beep    bool   `json:"beep"`
	DelayMs int    `json:"delay"`
	IsDemo  bool   `json:"isDemo"`

	// committedLocator is set by ET/ER on success so the dispatcher
	// can append the flight-change statistics block.
	committedLocator string
}

// ScheduleStore reads the flight schedule with seat counts.
type ScheduleStore interface {
	ByRoute(ctx context.Context, origin, destination string) ([]model.FlightAvailability, error)
}

// InventoryStore mutates fare-class seat inventory. SellSeats must be
// atomic against live state: it fails with
// repository.ErrSeatsUnavailable instead of overselling.
type InventoryStore interface {
	SellSeats(ctx context.Context, flightID uint64, classCode string, n int) error
	ReleaseSeats(ctx context.Context, flightID uint64, classCode string, n int) error
	Availability(ctx context.Context, flightID uint64, classCode string) (model.FareClass, error)
}

// PNRStore reads and writes reservation records, including the
// transactional commit.
type PNRStore interface {
	ByLocator(ctx context.Context, locator string) (*model.PNR, error)
	ByID(ctx context.Context, id uint64) (*model.PNR, error)
	Create(ctx context.Context, locator string) (uint64, error)
	SetReceivedFrom(ctx context.Context, id uint64, value string) error
	SetTicketing(ctx context.Context, id uint64, value string) error
	SearchByName(ctx context.Context, lastName, firstName string) ([]model.PNRSummary, error)
	Commit(ctx context.Context, id uint64) (missing []string, err error)
}

// PassengerStore reads and writes passengers on a PNR.
type PassengerStore interface {
	ListByPNR(ctx context.Context, pnrID uint64) ([]model.Passenger, error)
	LastSeq(ctx context.Context, pnrID uint64) (string, error)
	Add(ctx context.Context, pnrID uint64, seq, lastName, firstName, title string) error
	Count(ctx context.Context, pnrID uint64) (int, error)
}

// SegmentStore reads and writes itinerary segments.
type SegmentStore interface {
	ListByPNR(ctx context.Context, pnrID uint64) ([]model.ItinerarySegment, error)
	NextNumber(ctx context.Context, pnrID uint64) (int, error)
	Insert(ctx context.Context, seg *model.Segment) error
	MarkCancelled(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
	Renumber(ctx context.Context, pnrID uint64) error
}

// PhoneStore reads and writes phone contact fields.
type PhoneStore interface {
	ListByPNR(ctx context.Context, pnrID uint64) ([]model.Phone, error)
	Add(ctx context.Context, pnrID uint64, phoneType, number string) error
}

// HistoryStore appends to and reads the PNR audit log.
type HistoryStore interface {
	Append(ctx context.Context, pnrID uint64, action string) error
	ListByPNR(ctx context.Context, pnrID uint64) ([]model.HistoryEntry, error)
}

// EventPublisher pushes committed-PNR events to the broker. Publishing
// is best effort; a broker outage never fails a commit.
type EventPublisher interface {
	PublishPNRCommitted(ctx context.Context, event queue.PNRCommittedEvent) error
}

// Config wires a Terminal. Store fields are required; Faults, Now,
// Log, Metrics and Events default to sensible values when zero.
type Config struct {
	Flights    ScheduleStore
	Inventory  InventoryStore
	PNRs       PNRStore
	Passengers PassengerStore
	Segments   SegmentStore
	Phones     PhoneStore
	History    HistoryStore

	Locators *utils.LocatorGenerator
	Faults   *FaultInjector
	Events   EventPublisher
	Log      logger.Logger
	Metrics  *metrics.Metrics

	// Now is the clock used for date resolution, stale-context expiry
	// and the statistics timers. Defaults to time.Now.
	Now func() time.Time

	// StaleAfter is how long a PNR may stay open before a non-display
	// command forces it closed. Defaults to 5 minutes.
	StaleAfter time.Duration

	// AgentSign is the agent identifier stamped on broker events.
	AgentSign string
}

// Terminal is the dispatcher plus its engines. Construct with New.
type Terminal struct {
	flights    ScheduleStore
	inventory  InventoryStore
	pnrs       PNRStore
	passengers PassengerStore
	segments   SegmentStore
	phones     PhoneStore
	history    HistoryStore

	locators *utils.LocatorGenerator
	faults   *FaultInjector
	events   EventPublisher
	log      logger.Logger
	metrics  *metrics.Metrics

	now        func() time.Time
	staleAfter time.Duration
	agentSign  string

	routes []route
}

// New builds a Terminal from the given configuration.
func New(cfg Config) *Terminal {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}
	if cfg.Faults == nil {
		cfg.Faults = NoFaults()
	}
	t := &Terminal{
		flights:    cfg.Flights,
		inventory:  cfg.Inventory,
		pnrs:       cfg.PNRs,
		passengers: cfg.Passengers,
		segments:   cfg.Segments,
		phones:     cfg.Phones,
		history:    cfg.History,
		locators:   cfg.Locators,
		faults:     cfg.Faults,
		events:     cfg.Events,
		log:        cfg.Log,
		metrics:    cfg.Metrics,
		now:        cfg.Now,
		staleAfter: cfg.StaleAfter,
		agentSign:  cfg.AgentSign,
	}
	t.routes = t.buildRoutes()
	return t
}
