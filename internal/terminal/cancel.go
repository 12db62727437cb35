package terminal

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
)

var cancelRange = regexp.MustCompile(`^(\d+)-(\d+)$`)

// parseSegmentNumbers expands the cancel argument: "1" is a single
// segment, "1-3" an inclusive range, "1/3" an explicit list.
func parseSegmentNumbers(input string) ([]int, bool) {
	if m := cancelRange.FindStringSubmatch(input); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		var nums []int
		for i := start; i <= end; i++ {
			nums = append(nums, i)
		}
		return nums, true
	}
	if strings.Contains(input, "/") {
		var nums []int
		for _, part := range strings.Split(input, "/") {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, false
			}
			nums = append(nums, n)
		}
		return nums, true
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return nil, false
	}
	return []int{n}, true
}

// handleCancel answers the cancel entry: X1, X1-3, X1/3. Each named
// segment is marked cancelled, its seats go back to inventory, the row
// is removed and the survivors are renumbered to a dense 1..n. Unknown
// numbers produce a per-line NOT FOUND without aborting the rest.
func (t *Terminal) handleCancel(ctx context.Context, sess *session.Session, m []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}

	nums, ok := parseSegmentNumbers(m[1])
	if !ok {
		return Result{Output: "INVALID SEGMENT NUMBER"}, nil
	}

	segments, err := t.segments.ListByPNR(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("list segments: %w", err)
	}
	bySegNum := make(map[int]model.ItinerarySegment, len(segments))
	for _, s := range segments {
		bySegNum[s.SegNumber] = s
	}

	var lines []string
	released := 0
	for _, num := range nums {
		seg, found := bySegNum[num]
		if !found {
			lines = append(lines, fmt.Sprintf("SEGMENT %d NOT FOUND", num))
			continue
		}

		// First cancellation in a session starts the flight-change
		// stopwatch.
		if sess.OriginalSegment == nil {
			sess.OriginalSegment = &model.SegmentRef{
				FlightNumber: seg.FlightNumber,
				TravelDate:   seg.TravelDate,
				ClassCode:    seg.ClassCode,
			}
			sess.FlightChangeStartedAt = t.now()
		}

		if err := t.segments.MarkCancelled(ctx, seg.ID); err != nil {
			return Result{}, fmt.Errorf("cancel segment %d: %w", num, err)
		}
		if err := t.inventory.ReleaseSeats(ctx, seg.FlightID, seg.ClassCode, seg.NumPassengers); err != nil {
			return Result{}, fmt.Errorf("release seats for segment %d: %w", num, err)
		}
		if err := t.segments.Delete(ctx, seg.ID); err != nil {
			return Result{}, fmt.Errorf("delete segment %d: %w", num, err)
		}
		if err := t.history.Append(ctx, sess.CurrentPNRID,
			fmt.Sprintf("CANCELLED SEG %d %s", num, seg.FlightNumber)); err != nil {
			return Result{}, fmt.Errorf("append history: %w", err)
		}

		released += seg.NumPassengers
		lines = append(lines, fmt.Sprintf("SEGMENT %d %s - CANCELLED", num, seg.FlightNumber))
	}

	if err := t.segments.Renumber(ctx, sess.CurrentPNRID); err != nil {
		return Result{}, fmt.Errorf("renumber segments: %w", err)
	}
	sess.PNRModified = true

	if released > 0 {
		if t.metrics != nil {
			t.metrics.SeatsReleased.Add(float64(released))
		}
		t.log.Info("segments cancelled",
			"pnr", sess.CurrentPNRLocator,
			"seats_released", released)
	}

	return Result{Output: strings.Join(lines, "\n")}, nil
}
