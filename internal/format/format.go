// Package format renders loaded reservation entities into the plain
// fixed-width text blocks the terminal displays verbatim.  Every
// function here is pure: no store access, no session state.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

// Pad fits s into exactly width columns, truncating when longer.
// By default it right-aligns (pads on the left); right=true left-aligns.
func Pad(s string, width int, right bool) string {
	if len(s) >= width {
		return s[:width]
	}
	if right {
		return s + strings.Repeat(" ", width-len(s))
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// PNRDisplay renders the full booking view (*B): locator header,
// passengers, segments, phones, then received-from and ticketing.
func PNRDisplay(pnr *model.PNR, passengers []model.Passenger, segments []model.ItinerarySegment, phones []model.Phone) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("--- %s ---", pnr.RecordLocator), "")
	for _, p := range passengers {
		lines = append(lines, passengerLine(p))
	}
	lines = append(lines, "")
	for _, seg := range segments {
		lines = append(lines, SegmentLine(seg))
	}
	lines = append(lines, "")
	for i, ph := range phones {
		lines = append(lines, phoneLine(i, ph))
	}
	if pnr.ReceivedFrom != "" {
		lines = append(lines, fmt.Sprintf(" 6.%s", pnr.ReceivedFrom))
	}
	if pnr.Ticketing != "" {
		lines = append(lines, fmt.Sprintf(" 7.%s", pnr.Ticketing))
	}
	return strings.Join(lines, "\n")
}

// Itinerary renders the segments-only view (*I).
func Itinerary(segments []model.ItinerarySegment) string {
	if len(segments) == 0 {
		return "NO ITINERARY"
	}
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, SegmentLine(seg))
	}
	return strings.Join(lines, "\n")
}

// SegmentLine renders one itinerary line:
//  1 AA123  Y 25DEC SFOJFK HK1  800A   430P   Boeing 737
func SegmentLine(seg model.ItinerarySegment) string {
	return fmt.Sprintf(" %d %s %s %s %s%s %s%s  %s %s  %s",
		seg.SegNumber,
		Pad(seg.FlightNumber, 6, true),
		seg.ClassCode,
		utils.FormatGDSDate(seg.TravelDate),
		Pad(seg.Origin, 3, true),
		Pad(seg.Destination, 3, true),
		seg.Status,
		Pad(strconv.Itoa(seg.NumPassengers), 1, false),
		Pad(utils.FormatGDSTime(seg.DepartTime), 6, true),
		Pad(utils.FormatGDSTime(seg.ArriveTime), 6, true),
		seg.Equipment,
	)
}

// Passengers renders the names-only view (*N).
func Passengers(passengers []model.Passenger) string {
	lines := make([]string, 0, len(passengers))
	for _, p := range passengers {
		lines = append(lines, passengerLine(p))
	}
	return strings.Join(lines, "\n")
}

func passengerLine(p model.Passenger) string {
	title := ""
	if p.Title != "" {
		title = " " + p.Title
	}
	return fmt.Sprintf(" %s %s/%s%s", p.SeqNumber, p.LastName, p.FirstName, title)
}

// Phones renders the phone-fields view (*P).
func Phones(phones []model.Phone) string {
	if len(phones) == 0 {
		return "NO PHONE FIELD"
	}
	lines := make([]string, 0, len(phones))
	for i, ph := range phones {
		lines = append(lines, phoneLine(i, ph))
	}
	return strings.Join(lines, "\n")
}

func phoneLine(i int, ph model.Phone) string {
	return fmt.Sprintf(" P%d.%s-%s", i+1, model.PhoneTypeLabel(ph.Type), ph.Number)
}

// Availability renders the search result table.  Per-class seat
// availability is shown as a single digit capped at 9, with 0 marking
// a closed class.
func Availability(snap *model.AvailabilitySnapshot) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s%s", utils.FormatGDSDate(snap.Date), snap.Origin, snap.Destination), "")
	if len(snap.Flights) == 0 {
		lines = append(lines, "NO FLIGHTS FOUND")
		return strings.Join(lines, "\n")
	}
	lines = append(lines,
		Pad("", 1, false)+Pad("FLT", 8, true)+Pad("CLS", 28, true)+"  "+Pad("DEP", 6, true)+" "+Pad("ARR", 6, true)+"  EQP",
		"",
	)
	for i, f := range snap.Flights {
		var classes strings.Builder
		for _, cls := range f.Classes {
			avail := cls.Available()
			switch {
			case avail >= 9:
				avail = 9
			case avail < 0:
				avail = 0
			}
			fmt.Fprintf(&classes, " %s%d", cls.ClassCode, avail)
		}
		lines = append(lines, fmt.Sprintf("%s%s %s   %s %s  %s",
			Pad(strconv.Itoa(i+1), 2, false),
			Pad(f.FlightNumber, 7, true),
			classes.String(),
			Pad(utils.FormatGDSTime(f.DepartTime), 6, true),
			Pad(utils.FormatGDSTime(f.ArriveTime), 6, true),
			f.Equipment,
		))
	}
	return strings.Join(lines, "\n")
}

// NameSearch renders the numbered pick list for an ambiguous name
// search, ending with the selection hint.
func NameSearch(results []model.PNRSummary) string {
	plural := ""
	if len(results) > 1 {
		plural = "ES"
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("%d MATCH%s FOUND", len(results), plural), "")
	for i, r := range results {
		segInfo := ""
		if r.FlightNumber != "" {
			segInfo = fmt.Sprintf(" %s %s", r.FlightNumber, utils.FormatGDSDate(r.TravelDate))
		}
		lines = append(lines, fmt.Sprintf(" %d. %s  %s/%s %s%s",
			i+1, r.RecordLocator, r.LastName, r.FirstName, r.Title, segInfo))
	}
	lines = append(lines, "", "ENTER *N TO SELECT (E.G. *1)")
	return strings.Join(lines, "\n")
}

// History renders the audit log view (*H): one line per entry with a
// GDS-style zulu timestamp, the agent sign and the action text.
func History(entries []model.HistoryEntry) string {
	if len(entries) == 0 {
		return "NO HISTORY"
	}
	lines := make([]string, 0, len(entries))
	for _, h := range entries {
		ts := h.CreatedAt.UTC()
		lines = append(lines, fmt.Sprintf(" %s %02d%02dZ  %s  %s",
			utils.FormatGDSDate(ts), ts.Hour(), ts.Minute(), h.Agent, h.Action))
	}
	return strings.Join(lines, "\n")
}
