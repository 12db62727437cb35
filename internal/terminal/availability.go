package terminal

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/iliyamo/airline-pnr-terminal/internal/format"
	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

// availabilityParts splits the request body into seat count, date,
// origin and destination. A leading single digit before a 2-digit day
// is the seat count; with a 1-digit day the first digit binds to the
// seat count, so "25DECSFOJFK" asks for 2 seats on the 5th.
var availabilityParts = regexp.MustCompile(`^(\d)?(\d{1,2})([A-Z]{3})([A-Z]{3})([A-Z]{3})$`)

// handleAvailability answers the availability search entry, e.g.
// 125DECSFOJFK. Results are cached on the session so a following sell
// entry can resolve its line number; an empty result leaves any
// previous cache untouched.
func (t *Terminal) handleAvailability(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	p := availabilityParts.FindStringSubmatch(m[1])
	if p == nil {
		return Result{Output: "INVALID FORMAT - USE: 1DDMMMCCCYYY (E.G. 125DECSFOJFK)"}, nil
	}

	numSeats := 1
	if p[1] != "" {
		numSeats, _ = strconv.Atoi(p[1])
	}
	date, err := utils.ParseGDSDate(p[2]+p[3], t.now())
	if err != nil {
		return Result{Output: "INVALID DATE"}, nil
	}
	origin, dest := p[4], p[5]

	flights, err := t.flights.ByRoute(ctx, origin, dest)
	if err != nil {
		return Result{}, fmt.Errorf("availability %s-%s: %w", origin, dest, err)
	}
	if len(flights) == 0 {
		return Result{Output: fmt.Sprintf("NO FLIGHTS %s TO %s", origin, dest)}, nil
	}

	snap := &model.AvailabilitySnapshot{
		Date:        date,
		Origin:      origin,
		Destination: dest,
		NumSeats:    numSeats,
		Flights:     flights,
	}
	sess.LastAvailability = snap

	return Result{Output: format.Availability(snap)}, nil
}
