package terminal

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/queue"
	"github.com/iliyamo/airline-pnr-terminal/internal/repository"
)

// memStore is an in-memory record store implementing every store
// interface the Terminal consumes.  Sell and release follow the same
// conditional rules as the SQL repositories.
type memStore struct {
	mu sync.Mutex

	flights map[uint64]model.Flight
	classes map[uint64][]model.FareClass // by flight ID, priority order

	pnrs       map[uint64]*model.PNR
	passengers map[uint64][]model.Passenger
	segments   map[uint64][]model.Segment
	phones     map[uint64][]model.Phone
	history    map[uint64][]model.HistoryEntry

	nextPNRID uint64
	nextSegID uint64
	now       func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		flights:    make(map[uint64]model.Flight),
		classes:    make(map[uint64][]model.FareClass),
		pnrs:       make(map[uint64]*model.PNR),
		passengers: make(map[uint64][]model.Passenger),
		segments:   make(map[uint64][]model.Segment),
		phones:     make(map[uint64][]model.Phone),
		history:    make(map[uint64][]model.HistoryEntry),
		now:        now,
	}
}

func (m *memStore) addFlight(f model.Flight, classes ...model.FareClass) {
	m.flights[f.ID] = f
	m.classes[f.ID] = classes
}

func (m *memStore) addPNR(locator string, pnr model.PNR) uint64 {
	m.nextPNRID++
	pnr.ID = m.nextPNRID
	pnr.RecordLocator = locator
	pnr.Status = "ACTIVE"
	m.pnrs[pnr.ID] = &pnr
	return pnr.ID
}

// ScheduleStore

func (m *memStore) ByRoute(_ context.Context, origin, destination string) ([]model.FlightAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.FlightAvailability
	for _, f := range m.flights {
		if f.Origin == origin && f.Destination == destination {
			classes := make([]model.FareClass, len(m.classes[f.ID]))
			copy(classes, m.classes[f.ID])
			out = append(out, model.FlightAvailability{Flight: f, Classes: classes})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartTime < out[j].DepartTime })
	return out, nil
}

// InventoryStore

func (m *memStore) SellSeats(_ context.Context, flightID uint64, classCode string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cls := range m.classes[flightID] {
		if cls.ClassCode == classCode {
			if cls.SoldSeats+n > cls.TotalSeats {
				return repository.ErrSeatsUnavailable
			}
			m.classes[flightID][i].SoldSeats += n
			return nil
		}
	}
	return repository.ErrSeatsUnavailable
}

func (m *memStore) ReleaseSeats(_ context.Context, flightID uint64, classCode string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cls := range m.classes[flightID] {
		if cls.ClassCode == classCode {
			sold := cls.SoldSeats - n
			if sold < 0 {
				sold = 0
			}
			m.classes[flightID][i].SoldSeats = sold
		}
	}
	return nil
}

func (m *memStore) Availability(_ context.Context, flightID uint64, classCode string) (model.FareClass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cls := range m.classes[flightID] {
		if cls.ClassCode == classCode {
			return cls, nil
		}
	}
	return model.FareClass{}, repository.ErrSeatsUnavailable
}

func (m *memStore) soldSeats(flightID uint64, classCode string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cls := range m.classes[flightID] {
		if cls.ClassCode == classCode {
			return cls.SoldSeats
		}
	}
	return -1
}

func (m *memStore) setSoldSeats(flightID uint64, classCode string, sold int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cls := range m.classes[flightID] {
		if cls.ClassCode == classCode {
			m.classes[flightID][i].SoldSeats = sold
		}
	}
}

// PNRStore

func (m *memStore) ByLocator(_ context.Context, locator string) (*model.PNR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pnrs {
		if p.RecordLocator == locator {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ByID(_ context.Context, id uint64) (*model.PNR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pnrs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, locator string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pnrs {
		if p.RecordLocator == locator {
			return 0, repository.ErrDuplicateLocator
		}
	}
	m.nextPNRID++
	m.pnrs[m.nextPNRID] = &model.PNR{
		ID:            m.nextPNRID,
		RecordLocator: locator,
		Status:        "ACTIVE",
		CreatedAt:     m.now(),
		UpdatedAt:     m.now(),
	}
	return m.nextPNRID, nil
}

func (m *memStore) SetReceivedFrom(_ context.Context, id uint64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pnrs[id].ReceivedFrom = value
	return nil
}

func (m *memStore) SetTicketing(_ context.Context, id uint64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pnrs[id].Ticketing = value
	return nil
}

func (m *memStore) SearchByName(_ context.Context, lastName, firstName string) ([]model.PNRSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PNRSummary
	for id, p := range m.pnrs {
		for _, pax := range m.passengers[id] {
			if !strings.EqualFold(pax.LastName, lastName) {
				continue
			}
			if firstName != "" && !strings.HasPrefix(strings.ToUpper(pax.FirstName), strings.ToUpper(firstName)) {
				continue
			}
			s := model.PNRSummary{
				PNRID:         id,
				RecordLocator: p.RecordLocator,
				LastName:      pax.LastName,
				FirstName:     pax.FirstName,
				Title:         pax.Title,
			}
			if segs := m.segments[id]; len(segs) > 0 {
				s.FlightNumber = m.flights[segs[0].FlightID].FlightNumber
				s.TravelDate = segs[0].TravelDate
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordLocator < out[j].RecordLocator })
	return out, nil
}

func (m *memStore) Commit(_ context.Context, id uint64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var missing []string
	if len(m.passengers[id]) == 0 {
		missing = append(missing, model.NeedPassenger)
	}
	if len(m.segments[id]) == 0 {
		missing = append(missing, model.NeedSegment)
	}
	if len(m.phones[id]) == 0 {
		missing = append(missing, model.NeedPhone)
	}
	if m.pnrs[id].ReceivedFrom == "" {
		missing = append(missing, model.NeedReceivedFrom)
	}
	if len(missing) > 0 {
		return missing, nil
	}
	m.pnrs[id].UpdatedAt = m.now()
	m.history[id] = append(m.history[id], model.HistoryEntry{
		PNRID: id, Action: "END TRANSACTION", Agent: "GTR001", CreatedAt: m.now(),
	})
	return nil, nil
}

// PassengerStore

func (m *memStore) ListByPNR(_ context.Context, pnrID uint64) ([]model.Passenger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Passenger, len(m.passengers[pnrID]))
	copy(out, m.passengers[pnrID])
	return out, nil
}

func (m *memStore) LastSeq(_ context.Context, pnrID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	paxs := m.passengers[pnrID]
	if len(paxs) == 0 {
		return "", nil
	}
	return paxs[len(paxs)-1].SeqNumber, nil
}

func (m *memStore) Add(_ context.Context, pnrID uint64, seq, lastName, firstName, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passengers[pnrID] = append(m.passengers[pnrID], model.Passenger{
		PNRID: pnrID, SeqNumber: seq, LastName: lastName, FirstName: firstName, Title: title,
	})
	return nil
}

func (m *memStore) Count(_ context.Context, pnrID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.passengers[pnrID]), nil
}

// SegmentStore; pax/segment list methods carry different names to keep
// one fake implementing both interfaces.

type memSegments struct{ *memStore }

func (m memSegments) ListByPNR(_ context.Context, pnrID uint64) ([]model.ItinerarySegment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joinedSegments(pnrID), nil
}

func (m *memStore) joinedSegments(pnrID uint64) []model.ItinerarySegment {
	segs := m.segments[pnrID]
	out := make([]model.ItinerarySegment, 0, len(segs))
	for _, s := range segs {
		f := m.flights[s.FlightID]
		out = append(out, model.ItinerarySegment{
			Segment:      s,
			FlightNumber: f.FlightNumber,
			Origin:       f.Origin,
			Destination:  f.Destination,
			DepartTime:   f.DepartTime,
			ArriveTime:   f.ArriveTime,
			Equipment:    f.Equipment,
			DurationMins: f.DurationMins,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SegNumber < out[j].SegNumber })
	return out
}

func (m memSegments) NextNumber(_ context.Context, pnrID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, s := range m.segments[pnrID] {
		if s.SegNumber > max {
			max = s.SegNumber
		}
	}
	return max + 1, nil
}

func (m memSegments) Insert(_ context.Context, seg *model.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSegID++
	seg.ID = m.nextSegID
	m.segments[seg.PNRID] = append(m.segments[seg.PNRID], *seg)
	return nil
}

func (m memSegments) MarkCancelled(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pnrID, segs := range m.segments {
		for i, s := range segs {
			if s.ID == id {
				m.segments[pnrID][i].Status = model.SegStatusCancelled
			}
		}
	}
	return nil
}

func (m memSegments) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pnrID, segs := range m.segments {
		kept := segs[:0]
		for _, s := range segs {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		m.segments[pnrID] = kept
	}
	return nil
}

func (m memSegments) Renumber(_ context.Context, pnrID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	segs := m.segments[pnrID]
	sort.Slice(segs, func(i, j int) bool { return segs[i].SegNumber < segs[j].SegNumber })
	for i := range segs {
		segs[i].SegNumber = i + 1
	}
	return nil
}

// PhoneStore

type memPhones struct{ *memStore }

func (m memPhones) ListByPNR(_ context.Context, pnrID uint64) ([]model.Phone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Phone, len(m.phones[pnrID]))
	copy(out, m.phones[pnrID])
	return out, nil
}

func (m memPhones) Add(_ context.Context, pnrID uint64, phoneType, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones[pnrID] = append(m.phones[pnrID], model.Phone{
		PNRID: pnrID, Type: phoneType, Number: number,
	})
	return nil
}

// HistoryStore

type memHistory struct{ *memStore }

func (m memHistory) Append(_ context.Context, pnrID uint64, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[pnrID] = append(m.history[pnrID], model.HistoryEntry{
		PNRID: pnrID, Action: action, Agent: "GTR001", CreatedAt: m.now(),
	})
	return nil
}

func (m memHistory) ListByPNR(_ context.Context, pnrID uint64) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.HistoryEntry, len(m.history[pnrID]))
	copy(out, m.history[pnrID])
	return out, nil
}

func (m *memStore) actions(pnrID uint64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, h := range m.history[pnrID] {
		out = append(out, h.Action)
	}
	return out
}

// memPublisher records published events.
type memPublisher struct {
	mu     sync.Mutex
	events []queue.PNRCommittedEvent
	fail   bool
}

func (p *memPublisher) PublishPNRCommitted(_ context.Context, event queue.PNRCommittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errBroker
	}
	p.events = append(p.events, event)
	return nil
}

var errBroker = &brokerError{}

type brokerError struct{}

func (*brokerError) Error() string { return "broker unavailable" }
