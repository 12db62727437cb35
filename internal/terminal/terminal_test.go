package terminal

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type testEnv struct {
	term  *Terminal
	store *memStore
	sess  *session.Session
	clock *fakeClock
	pub   *memPublisher
}

// newTestEnv builds a terminal over the in-memory store with two
// SFO-JFK flights and two seeded SMITH PNRs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)}
	store := newMemStore(clock.Now)

	store.addFlight(
		model.Flight{ID: 1, AirlineCode: "AA", FlightNumber: "AA100", Origin: "SFO", Destination: "JFK",
			DepartTime: "06:00:00", ArriveTime: "14:30:00", Equipment: "B738", DurationMins: 330},
		model.FareClass{FlightID: 1, ClassCode: "Y", TotalSeats: 20, SoldSeats: 2},
		model.FareClass{FlightID: 1, ClassCode: "B", TotalSeats: 16, SoldSeats: 12},
		model.FareClass{FlightID: 1, ClassCode: "K", TotalSeats: 6, SoldSeats: 6},
	)
	store.addFlight(
		model.Flight{ID: 2, AirlineCode: "UA", FlightNumber: "UA440", Origin: "SFO", Destination: "JFK",
			DepartTime: "12:00:00", ArriveTime: "20:25:00", Equipment: "B777", DurationMins: 325},
		model.FareClass{FlightID: 2, ClassCode: "Y", TotalSeats: 20, SoldSeats: 0},
	)

	johnID := store.addPNR("QWERTY", model.PNR{ReceivedFrom: "SMITH/J", Ticketing: "TAW25NOV/"})
	store.passengers[johnID] = []model.Passenger{
		{PNRID: johnID, SeqNumber: "1.1", LastName: "SMITH", FirstName: "JOHN", Title: "MR"},
	}
	store.nextSegID++
	store.segments[johnID] = []model.Segment{{
		ID: store.nextSegID, PNRID: johnID, FlightID: 1, SegNumber: 1,
		TravelDate: time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
		ClassCode:  "Y", Status: model.SegStatusConfirmed, NumPassengers: 1,
	}}
	store.phones[johnID] = []model.Phone{{PNRID: johnID, Type: "M", Number: "415-555-0123"}}
	store.history[johnID] = []model.HistoryEntry{
		{PNRID: johnID, Action: "PNR CREATED", Agent: "GTR001", CreatedAt: clock.now.Add(-time.Hour)},
	}

	margaretID := store.addPNR("ABCDEF", model.PNR{})
	store.passengers[margaretID] = []model.Passenger{
		{PNRID: margaretID, SeqNumber: "1.1", LastName: "SMITH", FirstName: "MARGARET", Title: "MRS"},
	}

	pub := &memPublisher{}
	term := New(Config{
		Flights:    store,
		Inventory:  store,
		PNRs:       store,
		Passengers: store,
		Segments:   memSegments{store},
		Phones:     memPhones{store},
		History:    memHistory{store},
		Locators:   utils.NewLocatorGenerator(rand.New(rand.NewSource(1))),
		Faults:     NoFaults(),
		Events:     pub,
		Now:        clock.Now,
		AgentSign:  "GTR001",
	})
	return &testEnv{term: term, store: store, sess: &session.Session{ID: "test"}, clock: clock, pub: pub}
}

func (e *testEnv) run(t *testing.T, command string) Result {
	t.Helper()
	return e.term.Execute(context.Background(), e.sess, command)
}

func TestExecuteEmptyCommand(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "   ")
	if res.Output != "" || res.Beep {
		t.Errorf("empty command = %+v, want empty result", res)
	}
	if e.sess.CommandCount != 0 {
		t.Errorf("empty command counted: %d", e.sess.CommandCount)
	}
}

func TestExecuteInvalidEntry(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "BOGUS123")
	if res.Output != "INVALID ENTRY - TYPE HELP FOR COMMANDS" || !res.Beep {
		t.Errorf("invalid entry = %+v", res)
	}
	if e.sess.CommandCount != 1 || e.sess.KeystrokeCount != len("BOGUS123") {
		t.Errorf("counters = %d/%d", e.sess.CommandCount, e.sess.KeystrokeCount)
	}
}

func TestExecuteNormalizesInput(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "  *qwerty  ")
	if !strings.Contains(res.Output, "--- QWERTY ---") {
		t.Errorf("lowercase retrieve failed:\n%s", res.Output)
	}
}

func TestHelpAndDemo(t *testing.T) {
	e := newTestEnv(t)
	for _, cmd := range []string{"HELP", "?"} {
		res := e.run(t, cmd)
		if !strings.Contains(res.Output, "COMMAND REFERENCE") || res.Beep {
			t.Errorf("%s = %+v", cmd, res)
		}
	}
	res := e.run(t, "DEMO")
	if !res.IsDemo || !strings.Contains(res.Output, "GUIDED WALKTHROUGH") {
		t.Errorf("DEMO = %+v", res)
	}
}

func TestEasterEggs(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "WHY")
	if !strings.Contains(res.Output, "1960") || res.Beep {
		t.Errorf("WHY = %+v", res)
	}
	if res := e.run(t, "UNDO"); !strings.Contains(res.Output, "REGRET") {
		t.Errorf("UNDO = %+v", res)
	}
}

func TestFaultInjection(t *testing.T) {
	e := newTestEnv(t)
	e.term.faults = NewFaultInjector(1, rand.New(rand.NewSource(1)))

	res := e.run(t, "*QWERTY")
	if res.Output != "SYSTEM BUSY - RETRY" || !res.Beep || res.DelayMs != 2000 {
		t.Errorf("fault = %+v", res)
	}
	// Help and demo are exempt so the user can always get unstuck.
	for _, cmd := range []string{"HELP", "?", "DEMO"} {
		if res := e.run(t, cmd); res.Output == "SYSTEM BUSY - RETRY" {
			t.Errorf("%s hit fault injection", cmd)
		}
	}
}

func TestRetrieveByLocator(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "*QWERTY")
	for _, want := range []string{"--- QWERTY ---", "1.1 SMITH/JOHN MR", "AA100", "6.SMITH/J"} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("display missing %q:\n%s", want, res.Output)
		}
	}
	if e.sess.CurrentPNRLocator != "QWERTY" || e.sess.CurrentPNRID == 0 {
		t.Errorf("context not opened: %+v", e.sess)
	}
	if e.sess.PNRModified {
		t.Error("retrieval marked PNR modified")
	}

	res = e.run(t, "*ZZZZZZ")
	if res.Output != "RECORD LOCATOR ZZZZZZ - NOT FOUND" {
		t.Errorf("not found = %q", res.Output)
	}
}

func TestNameSearch(t *testing.T) {
	e := newTestEnv(t)

	// Two SMITHs: numbered pick list, no context change.
	res := e.run(t, "-SMITH")
	if !strings.Contains(res.Output, "2 MATCHES FOUND") {
		t.Fatalf("search = %q", res.Output)
	}
	if e.sess.CurrentPNRID != 0 {
		t.Error("ambiguous search opened a PNR")
	}

	// Out-of-range selection names the valid range.
	if res := e.run(t, "*9"); res.Output != "INVALID SELECTION - ENTER *1 THROUGH *2" {
		t.Errorf("invalid selection = %q", res.Output)
	}

	// Selecting opens the PNR and clears the list.
	res = e.run(t, "*2")
	if !strings.Contains(res.Output, "--- QWERTY ---") {
		t.Errorf("select = %q", res.Output)
	}
	if e.sess.NameSearchResults != nil {
		t.Error("selection kept search results")
	}

	// A second selection without a fresh search fails.
	if res := e.run(t, "*1"); res.Output != "NO NAME SEARCH ACTIVE - SEARCH FIRST" {
		t.Errorf("stale selection = %q", res.Output)
	}
}

func TestNameSearchSingleMatchAutoOpens(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "-SMITH/JO")
	if !strings.Contains(res.Output, "--- QWERTY ---") {
		t.Errorf("prefix search should auto-open:\n%s", res.Output)
	}
	if e.sess.CurrentPNRLocator != "QWERTY" {
		t.Errorf("context = %q", e.sess.CurrentPNRLocator)
	}
}

func TestNameSearchNoMatch(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "-NOBODY/AT"); res.Output != "NO PNR FOUND FOR NOBODY/AT" {
		t.Errorf("no match = %q", res.Output)
	}
	if res := e.run(t, "-NOBODY"); res.Output != "NO PNR FOUND FOR NOBODY" {
		t.Errorf("no match = %q", res.Output)
	}
}

func TestAddPassenger(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")

	res := e.run(t, "-DOE/JANE MRS")
	if res.Output != " 1.2 DOE/JANE MRS" {
		t.Errorf("add passenger = %q", res.Output)
	}
	if !e.sess.PNRModified {
		t.Error("add passenger did not mark modified")
	}
	paxs, _ := e.store.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(paxs) != 2 || paxs[1].SeqNumber != "1.2" {
		t.Errorf("stored passengers = %+v", paxs)
	}

	// No title variant.
	if res := e.run(t, "-DOE/JIM"); res.Output != " 1.3 DOE/JIM" {
		t.Errorf("add passenger = %q", res.Output)
	}
}

func TestAddPhone(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "9415-555-9999-H"); res.Output != msgNoPNRCreate {
		t.Errorf("no context = %q", res.Output)
	}

	e.run(t, "*QWERTY")
	res := e.run(t, "9415-555-9999-B")
	if res.Output != " BUSINESS-415-555-9999 ADDED" {
		t.Errorf("add phone = %q", res.Output)
	}
	phones, _ := memPhones{e.store}.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(phones) != 2 {
		t.Errorf("stored phones = %+v", phones)
	}
}

func TestReceivedFromAndTicketing(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "6SMITH/J"); res.Output != msgNoPNRContext {
		t.Errorf("no context = %q", res.Output)
	}

	e.run(t, "*ABCDEF")
	if res := e.run(t, "6SMITH/M"); res.Output != "RECEIVED FROM - SMITH/M" {
		t.Errorf("received from = %q", res.Output)
	}
	if res := e.run(t, "7TAW01DEC/"); res.Output != "TICKETING - TAW01DEC/" {
		t.Errorf("ticketing = %q", res.Output)
	}
	pnr, _ := e.store.ByID(context.Background(), e.sess.CurrentPNRID)
	if pnr.ReceivedFrom != "SMITH/M" || pnr.Ticketing != "TAW01DEC/" {
		t.Errorf("stored pnr = %+v", pnr)
	}
}

func TestAvailabilitySearch(t *testing.T) {
	e := newTestEnv(t)
	res := e.run(t, "125DECSFOJFK")
	if !strings.HasPrefix(res.Output, "25DEC SFOJFK") {
		t.Fatalf("availability = %q", res.Output)
	}
	for _, want := range []string{"AA100", "UA440", "Y9", "B4", "K0"} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("availability missing %q:\n%s", want, res.Output)
		}
	}
	snap := e.sess.LastAvailability
	if snap == nil || snap.NumSeats != 1 || len(snap.Flights) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	// Departure-time order: AA100 before UA440.
	if snap.Flights[0].FlightNumber != "AA100" {
		t.Errorf("snapshot order = %s first", snap.Flights[0].FlightNumber)
	}
}

func TestAvailabilityGreedySeatDigit(t *testing.T) {
	e := newTestEnv(t)
	// "25DEC..." binds the first digit to the seat count: 2 seats on
	// the 5th.
	e.run(t, "25DECSFOJFK")
	snap := e.sess.LastAvailability
	if snap == nil || snap.NumSeats != 2 || snap.Date.Day() != 5 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAvailabilityErrors(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "99XXXSFOJFK"); res.Output != "INVALID DATE" {
		t.Errorf("bad date = %q", res.Output)
	}

	e.run(t, "125DECSFOJFK")
	if res := e.run(t, "125DECLAXORD"); res.Output != "NO FLIGHTS LAX TO ORD" {
		t.Errorf("no flights = %q", res.Output)
	}
	// An empty result must not clobber the previous snapshot.
	if e.sess.LastAvailability == nil || e.sess.LastAvailability.Origin != "SFO" {
		t.Errorf("snapshot clobbered: %+v", e.sess.LastAvailability)
	}
}

func TestSell(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")

	res := e.run(t, "01Y2")
	want := " 2 UA440 Y 25DEC SFOJFK HK1  1200P 825P  B777"
	if res.Output != want {
		t.Errorf("sell:\n got %q\nwant %q", res.Output, want)
	}
	if got := e.store.soldSeats(2, "Y"); got != 1 {
		t.Errorf("sold seats = %d, want 1", got)
	}
	if !e.sess.PNRModified || e.sess.NewSegment == nil {
		t.Errorf("session after sell: modified=%t new=%+v", e.sess.PNRModified, e.sess.NewSegment)
	}
	actions := e.store.actions(e.sess.CurrentPNRID)
	if actions[len(actions)-1] != "SOLD 1Y UA440 25DEC" {
		t.Errorf("history = %v", actions)
	}
}

func TestSellPreconditions(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "01Y1"); res.Output != "NO AVAILABILITY DISPLAYED - SEARCH FIRST" {
		t.Errorf("no availability = %q", res.Output)
	}
	e.run(t, "125DECSFOJFK")
	if res := e.run(t, "01Y1"); res.Output != msgNoPNRCreate {
		t.Errorf("no pnr = %q", res.Output)
	}

	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")
	if res := e.run(t, "01Y9"); res.Output != "INVALID LINE NUMBER - ENTER 1 THROUGH 2" {
		t.Errorf("bad line = %q", res.Output)
	}
	if res := e.run(t, "01Z1"); res.Output != "CLASS Z NOT AVAILABLE ON AA100" {
		t.Errorf("bad class = %q", res.Output)
	}
	if res := e.run(t, "01K1"); res.Output != "K CLASS CLOSED ON AA100 - TRY HIGHER CLASS" {
		t.Errorf("closed class = %q", res.Output)
	}
	if res := e.run(t, "09B1"); res.Output != "ONLY 4 SEATS AVAILABLE IN B ON AA100" {
		t.Errorf("short class = %q", res.Output)
	}
}

func TestSellLostRace(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")

	// Another session drains Y on UA440 after the display was drawn.
	e.store.setSoldSeats(2, "Y", 20)

	res := e.run(t, "01Y2")
	if res.Output != "Y CLASS CLOSED ON UA440 - TRY HIGHER CLASS" {
		t.Errorf("raced sell = %q", res.Output)
	}
	if got := e.store.soldSeats(2, "Y"); got != 20 {
		t.Errorf("sold seats = %d, inventory must not move", got)
	}
	segs, _ := memSegments{e.store}.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(segs) != 1 {
		t.Errorf("segments = %d, raced sell must not book", len(segs))
	}
}

func TestCancelSegment(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "X1"); res.Output != msgNoPNRRetrieve {
		t.Errorf("no context = %q", res.Output)
	}

	e.run(t, "*QWERTY")
	res := e.run(t, "X1")
	if res.Output != "SEGMENT 1 AA100 - CANCELLED" {
		t.Errorf("cancel = %q", res.Output)
	}
	if got := e.store.soldSeats(1, "Y"); got != 1 {
		t.Errorf("sold seats = %d, want 1 after release", got)
	}
	segs, _ := memSegments{e.store}.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(segs) != 0 {
		t.Errorf("segments = %+v", segs)
	}
	if e.sess.OriginalSegment == nil || e.sess.OriginalSegment.FlightNumber != "AA100" {
		t.Errorf("original segment = %+v", e.sess.OriginalSegment)
	}
	if !e.sess.PNRModified {
		t.Error("cancel did not mark modified")
	}
}

func TestCancelMixedNumbers(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")

	res := e.run(t, "X1/5")
	want := "SEGMENT 1 AA100 - CANCELLED\nSEGMENT 5 NOT FOUND"
	if res.Output != want {
		t.Errorf("cancel list:\n got %q\nwant %q", res.Output, want)
	}
}

func TestCancelRangeRenumbers(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")
	e.run(t, "01Y2") // now segments 1 (AA100) and 2 (UA440)

	res := e.run(t, "X1")
	if !strings.Contains(res.Output, "SEGMENT 1 AA100 - CANCELLED") {
		t.Fatalf("cancel = %q", res.Output)
	}
	segs, _ := memSegments{e.store}.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(segs) != 1 || segs[0].SegNumber != 1 || segs[0].FlightNumber != "UA440" {
		t.Errorf("renumbered segments = %+v", segs)
	}
}

func TestEndTransactionMissingFields(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "ET"); res.Output != msgNoPNRContext {
		t.Errorf("no context = %q", res.Output)
	}

	// ABCDEF has a passenger but nothing else.
	e.run(t, "*ABCDEF")
	res := e.run(t, "ET")
	want := "UNABLE TO END TRANSACTION\n" +
		"NEED ITINERARY SEGMENT\nNEED PHONE FIELD\nNEED RECEIVED FROM"
	if res.Output != want {
		t.Errorf("refusal:\n got %q\nwant %q", res.Output, want)
	}
	// Refusal keeps the context open.
	if e.sess.CurrentPNRID == 0 {
		t.Error("refused commit closed the context")
	}
}

func TestEndTransactionTwoMissingFields(t *testing.T) {
	e := newTestEnv(t)
	id := e.store.addPNR("GHJKLM", model.PNR{})
	e.store.passengers[id] = []model.Passenger{
		{PNRID: id, SeqNumber: "1.1", LastName: "JONES", FirstName: "PATRICIA", Title: "MS"},
	}
	e.store.nextSegID++
	e.store.segments[id] = []model.Segment{{
		ID: e.store.nextSegID, PNRID: id, FlightID: 1, SegNumber: 1,
		TravelDate: time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
		ClassCode:  "Y", Status: model.SegStatusConfirmed, NumPassengers: 1,
	}}

	e.run(t, "*GHJKLM")
	res := e.run(t, "ET")
	want := "UNABLE TO END TRANSACTION\nNEED PHONE FIELD\nNEED RECEIVED FROM"
	if res.Output != want {
		t.Errorf("refusal:\n got %q\nwant %q", res.Output, want)
	}
	if e.sess.CurrentPNRLocator != "GHJKLM" {
		t.Error("refused commit changed the context")
	}
}

func TestSellThenCancelRestoresInventory(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")

	before := e.store.soldSeats(2, "Y")
	e.run(t, "01Y2")
	if res := e.run(t, "X2"); res.Output != "SEGMENT 2 UA440 - CANCELLED" {
		t.Fatalf("cancel = %q", res.Output)
	}
	if got := e.store.soldSeats(2, "Y"); got != before {
		t.Errorf("sold seats = %d, want %d after round trip", got, before)
	}
	segs, _ := memSegments{e.store}.ListByPNR(context.Background(), e.sess.CurrentPNRID)
	if len(segs) != 1 || segs[0].FlightNumber != "AA100" {
		t.Errorf("segments after round trip = %+v", segs)
	}
}

func TestDisplayIdempotent(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	for _, cmd := range []string{"*B", "*I", "*N", "*P"} {
		first := e.run(t, cmd)
		second := e.run(t, cmd)
		if first.Output != second.Output {
			t.Errorf("%s not idempotent:\n%q\n%q", cmd, first.Output, second.Output)
		}
	}
}

func TestEndTransaction(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	pnrID := e.sess.CurrentPNRID

	res := e.run(t, "ET")
	if res.Output != "OK - QWERTY" {
		t.Errorf("ET = %q", res.Output)
	}
	if e.sess.CurrentPNRID != 0 || e.sess.LastAvailability != nil {
		t.Errorf("ET left context: %+v", e.sess)
	}
	actions := e.store.actions(pnrID)
	if actions[len(actions)-1] != "END TRANSACTION" {
		t.Errorf("history = %v", actions)
	}
	if len(e.pub.events) != 1 || e.pub.events[0].RecordLocator != "QWERTY" || e.pub.events[0].Redisplayed {
		t.Errorf("events = %+v", e.pub.events)
	}
	if e.pub.events[0].Agent != "GTR001" {
		t.Errorf("event agent = %q", e.pub.events[0].Agent)
	}
}

func TestEndAndRedisplay(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	opened := e.sess.PNROpenedAt

	e.clock.now = e.clock.now.Add(time.Minute)
	res := e.run(t, "ER")
	if !strings.HasPrefix(res.Output, "OK - QWERTY\n\n--- QWERTY ---") {
		t.Errorf("ER = %q", res.Output)
	}
	if e.sess.CurrentPNRLocator != "QWERTY" {
		t.Error("ER closed the context")
	}
	if !e.sess.PNROpenedAt.After(opened) {
		t.Error("ER did not restart the stale timer")
	}
	if len(e.pub.events) != 1 || !e.pub.events[0].Redisplayed {
		t.Errorf("events = %+v", e.pub.events)
	}
}

func TestCommitSurvivesBrokerOutage(t *testing.T) {
	e := newTestEnv(t)
	e.pub.fail = true
	e.run(t, "*QWERTY")
	if res := e.run(t, "ET"); res.Output != "OK - QWERTY" {
		t.Errorf("ET with broker down = %q", res.Output)
	}
}

func TestIgnore(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "I"); res.Output != msgNoPNRContext {
		t.Errorf("no context = %q", res.Output)
	}

	e.run(t, "*QWERTY")
	e.run(t, "-DOE/JANE MRS")
	res := e.run(t, "I")
	if res.Output != "IGNORED - QWERTY" {
		t.Errorf("ignore = %q", res.Output)
	}
	if e.sess.CurrentPNRID != 0 {
		t.Error("ignore kept context")
	}
}

func TestFlightChangeStats(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")
	e.run(t, "X1")
	e.clock.now = e.clock.now.Add(95 * time.Second)
	e.run(t, "01Y2")
	e.run(t, "6SMITH/J")

	res := e.run(t, "ET")
	if !strings.HasPrefix(res.Output, "OK - QWERTY\n\n") {
		t.Fatalf("ET = %q", res.Output)
	}
	for _, want := range []string{"FLIGHT CHANGE COMPLETE", "COMMANDS ENTERED:", "TIME ELAPSED:      1:35"} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("stats missing %q:\n%s", want, res.Output)
		}
	}
	if e.sess.OriginalSegment != nil || e.sess.NewSegment != nil || !e.sess.FlightChangeStartedAt.IsZero() {
		t.Error("stats did not clear tracking fields")
	}
}

func TestNoStatsWithoutBothSegments(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	res := e.run(t, "ET")
	if strings.Contains(res.Output, "FLIGHT CHANGE") {
		t.Errorf("unexpected stats block:\n%s", res.Output)
	}
}

func TestStaleContext(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.run(t, "125DECSFOJFK")

	e.clock.now = e.clock.now.Add(6 * time.Minute)

	// Display commands still work against the expired context.
	if res := e.run(t, "*B"); !strings.Contains(res.Output, "--- QWERTY ---") {
		t.Errorf("*B after expiry = %q", res.Output)
	}

	// A mutating command trips the simultaneous-changes guard.
	res := e.run(t, "6SMITH/J")
	want := "SIMULTANEOUS CHANGES TO PNR QWERTY\nRETRIEVE AND TRY AGAIN"
	if res.Output != want || !res.Beep {
		t.Errorf("stale = %+v", res)
	}
	if e.sess.CurrentPNRID != 0 {
		t.Error("stale context not closed")
	}
	// The availability cache survives the forced close.
	if e.sess.LastAvailability == nil {
		t.Error("stale close dropped the availability snapshot")
	}
}

func TestStaleContextIgnoreExempt(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")
	e.clock.now = e.clock.now.Add(6 * time.Minute)

	if res := e.run(t, "I"); res.Output != "IGNORED - QWERTY" {
		t.Errorf("I after expiry = %q", res.Output)
	}
}

func TestHistoryDisplay(t *testing.T) {
	e := newTestEnv(t)
	if res := e.run(t, "*H"); res.Output != msgNoPNRRetrieve {
		t.Errorf("no context = %q", res.Output)
	}
	e.run(t, "*QWERTY")
	res := e.run(t, "*H")
	if !strings.Contains(res.Output, "GTR001  PNR CREATED") {
		t.Errorf("history = %q", res.Output)
	}
}

func TestDisplayCommands(t *testing.T) {
	e := newTestEnv(t)
	e.run(t, "*QWERTY")

	if res := e.run(t, "*I"); !strings.Contains(res.Output, "AA100") {
		t.Errorf("*I = %q", res.Output)
	}
	if res := e.run(t, "*N"); res.Output != " 1.1 SMITH/JOHN MR" {
		t.Errorf("*N = %q", res.Output)
	}
	if res := e.run(t, "*P"); res.Output != " P1.MOBILE-415-555-0123" {
		t.Errorf("*P = %q", res.Output)
	}
}
