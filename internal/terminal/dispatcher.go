package terminal

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/airline-pnr-terminal/internal/session"
)

// canned dispatcher responses
const (
	msgSystemBusy    = "SYSTEM BUSY - RETRY"
	msgSystemError   = "SYSTEM ERROR - CONTACT HELP DESK"
	msgInvalidEntry  = "INVALID ENTRY - TYPE HELP FOR COMMANDS"
	msgNoPNRContext  = "NO PNR IN CONTEXT"
	msgNoPNRRetrieve = "NO PNR IN CONTEXT - RETRIEVE FIRST"
	msgNoPNRCreate   = "NO PNR IN CONTEXT - RETRIEVE OR CREATE FIRST"
)

var easterEggs = map[string]string{
	"WHY":     "BECAUSE THIS SYSTEM WAS DESIGNED IN 1960\nAND NOBODY HAD THE COURAGE TO REPLACE IT",
	"UPGRADE": "HA HA HA - NICE TRY\nPLEASE CONTACT REVENUE MANAGEMENT",
	"GUI":     "GRAPHICAL USER INTERFACE? WE DON'T DO THAT HERE\nTHIS IS A SERIOUS BUSINESS TOOL",
	"MOUSE":   "MOUSE SUPPORT? THIS ISN'T A TOY\nKEYBOARD ONLY. AS GOD INTENDED.",
	"UNDO":    "THERE IS NO UNDO\nTHERE IS ONLY REGRET",
	"PLEASE":  "POLITENESS NOT RECOGNIZED\nTHIS SYSTEM PREDATES MANNERS",
	"SORRY":   "APOLOGY ACCEPTED\nNOW TYPE A REAL COMMAND",
	"HELLO":   "THIS IS NOT A CHAT APPLICATION\nTYPE HELP FOR COMMANDS",
	"HI":      "THIS IS NOT A CHAT APPLICATION\nTYPE HELP FOR COMMANDS",
	"EXIT":    "THERE IS NO EXIT\nTHERE IS ONLY SABRE",
	"QUIT":    "THERE IS NO ESCAPE\nSIGN-IN IS FOREVER",
	"CLEAR":   "SCREEN CLEARED\nBUT THE TRAUMA REMAINS",
}

type handlerFunc func(ctx context.Context, sess *session.Session, match []string) (Result, error)

// route pairs an anchored command pattern with its handler. Order
// matters: the first match wins, so the locator form of * must come
// before the numeric selection form.
type route struct {
	pattern *regexp.Regexp
	handler handlerFunc
}

func (t *Terminal) buildRoutes() []route {
	return []route{
		{regexp.MustCompile(`^(HELP|\?)$`), t.handleHelp},
		{regexp.MustCompile(`^DEMO$`), t.handleDemo},
		{regexp.MustCompile(`^(WHY|UPGRADE|GUI|MOUSE|UNDO|PLEASE|SORRY|HELLO|HI|EXIT|QUIT|CLEAR)$`), t.handleEasterEgg},
		{regexp.MustCompile(`^\*([A-Z]{6})$`), t.handleRetrieveLocator},
		{regexp.MustCompile(`^\*(\d+)$`), t.handleSelectFromSearch},
		{regexp.MustCompile(`^\*B$`), t.handleDisplayBooking},
		{regexp.MustCompile(`^\*I$`), t.handleDisplayItinerary},
		{regexp.MustCompile(`^\*N$`), t.handleDisplayNames},
		{regexp.MustCompile(`^\*P$`), t.handleDisplayPhones},
		{regexp.MustCompile(`^\*H$`), t.handleDisplayHistory},
		{regexp.MustCompile(`^-([A-Z]+)(?:/([A-Z]+))?\s*(MR|MRS|MS|MISS|DR)?$`), t.handleName},
		{regexp.MustCompile(`^(\d{1,4}[A-Z]{9})$`), t.handleAvailability},
		{regexp.MustCompile(`^0(\d)([A-Z])(\d+)$`), t.handleSell},
		{regexp.MustCompile(`^X(\d[\d/\-]*)$`), t.handleCancel},
		{regexp.MustCompile(`^ET$`), t.handleEndTransaction},
		{regexp.MustCompile(`^ER$`), t.handleEndRedisplay},
		{regexp.MustCompile(`^I$`), t.handleIgnore},
		{regexp.MustCompile(`^9([\d\-]+)-([HBM])$`), t.handlePhone},
		{regexp.MustCompile(`^6(.+)$`), t.handleReceivedFrom},
		{regexp.MustCompile(`^7(.+)$`), t.handleTicketing},
	}
}

// Execute runs a single raw command against a session. The session is
// locked for the whole call, so two commands for the same session never
// interleave. Errors from engines never escape: they are logged and
// collapsed to the help-desk response.
func (t *Terminal) Execute(ctx context.Context, sess *session.Session, raw string) Result {
	command := strings.ToUpper(strings.TrimSpace(raw))
	if command == "" {
		return Result{}
	}

	sess.Lock()
	defer sess.Unlock()

	sess.TrackCommand(command)

	if command != "HELP" && command != "?" && command != "DEMO" && t.faults.Fire() {
		t.countCommand("busy")
		if t.metrics != nil {
			t.metrics.FaultsInjected.Inc()
		}
		return Result{Output: msgSystemBusy, Beep: true, DelayMs: 2000}
	}

	// A PNR left open too long loses its lock. Ignore and the display
	// family are exempt so the agent can still look at the record.
	if res, expired := t.checkStaleContext(sess, command); expired {
		t.countCommand("stale")
		return res
	}

	for _, r := range t.routes {
		m := r.pattern.FindStringSubmatch(command)
		if m == nil {
			continue
		}
		start := t.now()
		res, err := r.handler(ctx, sess, m)
		if t.metrics != nil {
			t.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			t.log.Error("command failed",
				"session", sess.ID,
				"command", command,
				"error", err.Error())
			t.countCommand("error")
			return Result{Output: msgSystemError, Beep: true}
		}
		t.countCommand("ok")
		return t.withFlightChangeStats(sess, res)
	}

	t.countCommand("invalid")
	return Result{Output: msgInvalidEntry, Beep: true}
}

func (t *Terminal) countCommand(outcome string) {
	if t.metrics != nil {
		t.metrics.CommandsProcessed.WithLabelValues(outcome).Inc()
	}
}

func (t *Terminal) checkStaleContext(sess *session.Session, command string) (Result, bool) {
	if sess.PNROpenedAt.IsZero() || sess.CurrentPNRID == 0 {
		return Result{}, false
	}
	if t.now().Sub(sess.PNROpenedAt) <= t.staleAfter {
		return Result{}, false
	}
	if command == "I" || strings.HasPrefix(command, "*") {
		return Result{}, false
	}
	loc := sess.CurrentPNRLocator
	sess.ClosePNR()
	return Result{
		Output: fmt.Sprintf("SIMULTANEOUS CHANGES TO PNR %s\nRETRIEVE AND TRY AGAIN", loc),
		Beep:   true,
	}, true
}

// withFlightChangeStats appends the statistics block when an ET/ER just
// closed out a cancel-then-sell sequence.
func (t *Terminal) withFlightChangeStats(sess *session.Session, res Result) Result {
	if res.committedLocator == "" || sess.OriginalSegment == nil || sess.NewSegment == nil {
		return res
	}
	res.Output += "\n\n" + t.flightChangeStats(sess)
	sess.ClearFlightChange()
	return res
}

func (t *Terminal) flightChangeStats(sess *session.Session) string {
	elapsed := 0
	if !sess.FlightChangeStartedAt.IsZero() {
		elapsed = int(t.now().Sub(sess.FlightChangeStartedAt) / time.Second)
	}
	timeStr := fmt.Sprintf("%d:%02d", elapsed/60, elapsed%60)

	pad := func(s string) string { return fmt.Sprintf("%-20s", s) }
	lines := []string{
		"╔═══════════════════════════════════════════╗",
		"║        FLIGHT CHANGE COMPLETE             ║",
		"╠═══════════════════════════════════════════╣",
		"║  COMMANDS ENTERED:  " + pad(strconv.Itoa(sess.CommandCount)) + "║",
		"║  TOTAL KEYSTROKES:  " + pad(strconv.Itoa(sess.KeystrokeCount)) + "║",
		"║  TIME ELAPSED:      " + pad(timeStr) + "║",
		"╠═══════════════════════════════════════════╣",
		"║  A MODERN APP COULD DO THIS IN: 3 TAPS   ║",
		"╠═══════════════════════════════════════════╣",
		"║  NOW YOU KNOW WHY IT TAKES SO LONG        ║",
		"╚═══════════════════════════════════════════╝",
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) handleEasterEgg(_ context.Context, _ *session.Session, m []string) (Result, error) {
	reply, ok := easterEggs[m[1]]
	if !ok {
		reply = "UNKNOWN COMMAND"
	}
	return Result{Output: reply}, nil
}
