package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/repository"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

// handleSell answers the short sell entry, e.g. 01Y2: one seat in Y
// off availability line 2. The cached snapshot resolves the line to a
// flight and pre-screens the obvious refusals; the decrement itself is
// conditional on live inventory, so two agents racing for the last
// seat cannot both win. On refusal the live counts drive the message,
// not the stale snapshot.
func (t *Terminal) handleSell(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	numSeats, _ := strconv.Atoi(m[1])
	classCode := m[2]
	lineNum, _ := strconv.Atoi(m[3])

	if sess.LastAvailability == nil {
		return Result{Output: "NO AVAILABILITY DISPLAYED - SEARCH FIRST"}, nil
	}
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRCreate}, nil
	}

	avail := sess.LastAvailability
	if lineNum < 1 || lineNum > len(avail.Flights) {
		return Result{Output: fmt.Sprintf("INVALID LINE NUMBER - ENTER 1 THROUGH %d", len(avail.Flights))}, nil
	}
	flight := avail.Flights[lineNum-1]

	var cached *model.FareClass
	for i := range flight.Classes {
		if flight.Classes[i].ClassCode == classCode {
			cached = &flight.Classes[i]
			break
		}
	}
	if cached == nil {
		return Result{Output: fmt.Sprintf("CLASS %s NOT AVAILABLE ON %s", classCode, flight.FlightNumber)}, nil
	}
	if refused := sellRefusal(cached.Available(), numSeats, classCode, flight.FlightNumber); refused != "" {
		return Result{Output: refused}, nil
	}

	if err := t.inventory.SellSeats(ctx, flight.ID, classCode, numSeats); err != nil {
		if !errors.Is(err, repository.ErrSeatsUnavailable) {
			return Result{}, fmt.Errorf("sell %d%s on %s: %w", numSeats, classCode, flight.FlightNumber, err)
		}
		// Lost the race since the display was drawn. Re-read live
		// counts so the refusal reflects reality.
		live, lerr := t.inventory.Availability(ctx, flight.ID, classCode)
		if lerr != nil {
			return Result{}, fmt.Errorf("sell %d%s on %s: %w", numSeats, classCode, flight.FlightNumber, lerr)
		}
		cached.SoldSeats = live.SoldSeats
		cached.TotalSeats = live.TotalSeats
		return Result{Output: sellRefusal(live.Available(), numSeats, classCode, flight.FlightNumber)}, nil
	}
	cached.SoldSeats += numSeats

	segNum, err := t.segments.NextNumber(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("next segment number: %w", err)
	}
	paxCount, err := t.passengers.Count(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("passenger count: %w", err)
	}

	seg := &model.Segment{
		PNRID:         sess.CurrentPNRID,
		FlightID:      flight.ID,
		SegNumber:     segNum,
		TravelDate:    avail.Date,
		ClassCode:     classCode,
		Status:        model.SegStatusConfirmed,
		NumPassengers: paxCount,
	}
	if err := t.segments.Insert(ctx, seg); err != nil {
		return Result{}, fmt.Errorf("insert segment: %w", err)
	}

	sess.PNRModified = true
	sess.NewSegment = &model.SegmentRef{
		FlightNumber: flight.FlightNumber,
		TravelDate:   avail.Date,
		ClassCode:    classCode,
	}

	dateStr := utils.FormatGDSDate(avail.Date)
	if err := t.history.Append(ctx, sess.CurrentPNRID,
		fmt.Sprintf("SOLD %d%s %s %s", numSeats, classCode, flight.FlightNumber, dateStr)); err != nil {
		return Result{}, fmt.Errorf("append history: %w", err)
	}

	if t.metrics != nil {
		t.metrics.SeatsSold.Add(float64(numSeats))
	}
	t.log.Info("seats sold",
		"pnr", sess.CurrentPNRLocator,
		"flight", flight.FlightNumber,
		"class", classCode,
		"seats", numSeats)

	return Result{Output: fmt.Sprintf(" %d %s %s %s %s%s HK%d  %s %s  %s",
		segNum, flight.FlightNumber, classCode, dateStr,
		flight.Origin, flight.Destination, paxCount,
		utils.FormatGDSTime(flight.DepartTime), utils.FormatGDSTime(flight.ArriveTime),
		flight.Equipment)}, nil
}

// sellRefusal returns the refusal line for the given live seat count,
// or "" when the request fits.
func sellRefusal(available, requested int, classCode, flightNumber string) string {
	if available >= requested {
		return ""
	}
	if available == 0 {
		return fmt.Sprintf("%s CLASS CLOSED ON %s - TRY HIGHER CLASS", classCode, flightNumber)
	}
	return fmt.Sprintf("ONLY %d SEATS AVAILABLE IN %s ON %s", available, classCode, flightNumber)
}
