package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/airline-pnr-terminal/internal/format"
	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/queue"
	"github.com/iliyamo/airline-pnr-terminal/internal/repository"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
)

// locatorRetries bounds the implicit-create retry loop on a generated
// locator collision. Six random letters collide rarely; two retries is
// already paranoid.
const locatorRetries = 3

// loadDisplay fetches everything the full booking display needs.
func (t *Terminal) loadDisplay(ctx context.Context, pnrID uint64) (string, error) {
	pnr, err := t.pnrs.ByID(ctx, pnrID)
	if err != nil {
		return "", fmt.Errorf("load pnr %d: %w", pnrID, err)
	}
	passengers, err := t.passengers.ListByPNR(ctx, pnrID)
	if err != nil {
		return "", fmt.Errorf("load passengers: %w", err)
	}
	segments, err := t.segments.ListByPNR(ctx, pnrID)
	if err != nil {
		return "", fmt.Errorf("load segments: %w", err)
	}
	phones, err := t.phones.ListByPNR(ctx, pnrID)
	if err != nil {
		return "", fmt.Errorf("load phones: %w", err)
	}
	return format.PNRDisplay(pnr, passengers, segments, phones), nil
}

// openAndDisplay sets the PNR as the session context and renders the
// full display.
func (t *Terminal) openAndDisplay(ctx context.Context, sess *session.Session, pnrID uint64, locator string) (Result, error) {
	sess.OpenPNR(pnrID, locator, t.now())
	out, err := t.loadDisplay(ctx, pnrID)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out}, nil
}

// handleRetrieveLocator answers *ABCDEF.
func (t *Terminal) handleRetrieveLocator(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	locator := m[1]
	pnr, err := t.pnrs.ByLocator(ctx, locator)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve %s: %w", locator, err)
	}
	if pnr == nil {
		return Result{Output: fmt.Sprintf("RECORD LOCATOR %s - NOT FOUND", locator)}, nil
	}
	return t.openAndDisplay(ctx, sess, pnr.ID, pnr.RecordLocator)
}

// handleSelectFromSearch answers *1, *2, ... against a pending name
// search pick list.
func (t *Terminal) handleSelectFromSearch(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	if sess.NameSearchResults == nil {
		return Result{Output: "NO NAME SEARCH ACTIVE - SEARCH FIRST"}, nil
	}
	index, _ := strconv.Atoi(m[1])
	if index < 1 || index > len(sess.NameSearchResults) {
		return Result{Output: fmt.Sprintf("INVALID SELECTION - ENTER *1 THROUGH *%d", len(sess.NameSearchResults))}, nil
	}
	selected := sess.NameSearchResults[index-1]
	sess.NameSearchResults = nil
	return t.openAndDisplay(ctx, sess, selected.PNRID, selected.RecordLocator)
}

func (t *Terminal) handleDisplayBooking(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}
	out, err := t.loadDisplay(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out}, nil
}

func (t *Terminal) handleDisplayItinerary(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}
	segments, err := t.segments.ListByPNR(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("load segments: %w", err)
	}
	return Result{Output: format.Itinerary(segments)}, nil
}

func (t *Terminal) handleDisplayNames(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}
	passengers, err := t.passengers.ListByPNR(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("load passengers: %w", err)
	}
	return Result{Output: format.Passengers(passengers)}, nil
}

func (t *Terminal) handleDisplayPhones(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}
	phones, err := t.phones.ListByPNR(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("load phones: %w", err)
	}
	return Result{Output: format.Phones(phones)}, nil
}

// handleName covers both faces of the dash entry. With a PNR in
// context and a first name present it adds a passenger; otherwise it
// is a name search.
func (t *Terminal) handleName(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	lastName, firstName, title := m[1], m[2], m[3]
	if firstName != "" && sess.CurrentPNRID != 0 {
		return t.addPassenger(ctx, sess, lastName, firstName, title)
	}
	return t.searchByName(ctx, sess, lastName, firstName)
}

func (t *Terminal) searchByName(ctx context.Context, sess *session.Session, lastName, firstName string) (Result, error) {
	results, err := t.pnrs.SearchByName(ctx, lastName, firstName)
	if err != nil {
		return Result{}, fmt.Errorf("name search %s/%s: %w", lastName, firstName, err)
	}
	if len(results) == 0 {
		who := lastName
		if firstName != "" {
			who += "/" + firstName
		}
		return Result{Output: fmt.Sprintf("NO PNR FOUND FOR %s", who)}, nil
	}
	if len(results) == 1 {
		return t.openAndDisplay(ctx, sess, results[0].PNRID, results[0].RecordLocator)
	}
	sess.NameSearchResults = results
	return Result{Output: format.NameSearch(results)}, nil
}

// addPassenger appends a name to the working PNR, creating the record
// first when none is open. Sequence numbers stay in one group: 1.1,
// 1.2, and so on.
func (t *Terminal) addPassenger(ctx context.Context, sess *session.Session, lastName, firstName, title string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		id, locator, err := t.createPNR(ctx)
		if err != nil {
			return Result{}, err
		}
		sess.OpenPNR(id, locator, t.now())
		sess.PNRModified = true
		t.log.Info("pnr created", "locator", locator)
	}

	lastSeq, err := t.passengers.LastSeq(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("last passenger seq: %w", err)
	}
	nextSeq := "1.1"
	if lastSeq != "" {
		if group, member, ok := strings.Cut(lastSeq, "."); ok {
			n, _ := strconv.Atoi(member)
			nextSeq = group + "." + strconv.Itoa(n+1)
		}
	}

	if err := t.passengers.Add(ctx, sess.CurrentPNRID, nextSeq, lastName, firstName, title); err != nil {
		return Result{}, fmt.Errorf("add passenger: %w", err)
	}
	sess.PNRModified = true

	out := fmt.Sprintf(" %s %s/%s", nextSeq, lastName, firstName)
	if title != "" {
		out += " " + title
	}
	return Result{Output: out}, nil
}

func (t *Terminal) createPNR(ctx context.Context) (uint64, string, error) {
	for attempt := 0; attempt < locatorRetries; attempt++ {
		locator := t.locators.Generate()
		id, err := t.pnrs.Create(ctx, locator)
		if err == nil {
			return id, locator, nil
		}
		if !errors.Is(err, repository.ErrDuplicateLocator) {
			return 0, "", fmt.Errorf("create pnr: %w", err)
		}
	}
	return 0, "", fmt.Errorf("create pnr: %w", repository.ErrDuplicateLocator)
}

// handlePhone answers 9415-555-0123-H.
func (t *Terminal) handlePhone(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRCreate}, nil
	}
	number, phoneType := m[1], m[2]
	if err := t.phones.Add(ctx, sess.CurrentPNRID, phoneType, number); err != nil {
		return Result{}, fmt.Errorf("add phone: %w", err)
	}
	sess.PNRModified = true
	return Result{Output: fmt.Sprintf(" %s-%s ADDED", model.PhoneTypeLabel(phoneType), number)}, nil
}

// handleReceivedFrom answers 6SMITH/J.
func (t *Terminal) handleReceivedFrom(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRContext}, nil
	}
	if err := t.pnrs.SetReceivedFrom(ctx, sess.CurrentPNRID, m[1]); err != nil {
		return Result{}, fmt.Errorf("set received from: %w", err)
	}
	sess.PNRModified = true
	return Result{Output: fmt.Sprintf("RECEIVED FROM - %s", m[1])}, nil
}

// handleTicketing answers 7TAW25NOV/.
func (t *Terminal) handleTicketing(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRContext}, nil
	}
	if err := t.pnrs.SetTicketing(ctx, sess.CurrentPNRID, m[1]); err != nil {
		return Result{}, fmt.Errorf("set ticketing: %w", err)
	}
	sess.PNRModified = true
	return Result{Output: fmt.Sprintf("TICKETING - %s", m[1])}, nil
}

// commit runs the end-transaction protocol for ET and ER. The
// validation and the writes happen atomically inside the repository;
// a refusal lists every missing requirement at once.
func (t *Terminal) commit(ctx context.Context, sess *session.Session, redisplay bool) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRContext}, nil
	}

	missing, err := t.pnrs.Commit(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("end transaction %s: %w", sess.CurrentPNRLocator, err)
	}
	if len(missing) > 0 {
		return Result{Output: "UNABLE TO END TRANSACTION\n" + strings.Join(missing, "\n")}, nil
	}

	locator := sess.CurrentPNRLocator
	pnrID := sess.CurrentPNRID

	if t.metrics != nil {
		t.metrics.PNRsCommitted.Inc()
	}
	t.log.Info("transaction ended", "pnr", locator, "redisplay", redisplay)
	t.publishCommitted(ctx, pnrID, locator, redisplay)

	if !redisplay {
		sess.ClearPNRContext()
		return Result{Output: fmt.Sprintf("OK - %s", locator), committedLocator: locator}, nil
	}

	// ER keeps the record open with a fresh lock window.
	sess.PNRModified = false
	sess.PNROpenedAt = t.now()
	out, err := t.loadDisplay(ctx, pnrID)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Output:           fmt.Sprintf("OK - %s\n\n%s", locator, out),
		committedLocator: locator,
	}, nil
}

// publishCommitted emits the broker event for a saved PNR. Failures
// are logged and swallowed: the commit already happened.
func (t *Terminal) publishCommitted(ctx context.Context, pnrID uint64, locator string, redisplay bool) {
	if t.events == nil {
		return
	}
	paxCount, err := t.passengers.Count(ctx, pnrID)
	if err != nil {
		paxCount = 0
	}
	segments, err := t.segments.ListByPNR(ctx, pnrID)
	if err != nil {
		segments = nil
	}
	event := queue.PNRCommittedEvent{
		RecordLocator: locator,
		Agent:         t.agentSign,
		Passengers:    paxCount,
		Segments:      len(segments),
		Redisplayed:   redisplay,
		CommittedAt:   t.now().UTC().Format(time.RFC3339),
	}
	if err := t.events.PublishPNRCommitted(ctx, event); err != nil {
		t.log.Warn("publish pnr committed", "pnr", locator, "error", err.Error())
	}
}

func (t *Terminal) handleEndTransaction(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	return t.commit(ctx, sess, false)
}

func (t *Terminal) handleEndRedisplay(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	return t.commit(ctx, sess, true)
}

// handleIgnore answers I. Field writes are applied eagerly as they are
// typed, so ignoring only drops the session context; the record keeps
// whatever was already written.
func (t *Terminal) handleIgnore(_ context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRContext}, nil
	}
	locator := sess.CurrentPNRLocator
	sess.ClearPNRContext()
	return Result{Output: fmt.Sprintf("IGNORED - %s", locator)}, nil
}
