package terminal

import (
	"context"
	"fmt"

	"github.com/iliyamo/airline-pnr-terminal/internal/format"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
)

// handleDisplayHistory answers *H with the PNR's audit log.
func (t *Terminal) handleDisplayHistory(ctx context.Context, sess *session.Session, _ []string) (Result, error) {
	if sess.CurrentPNRID == 0 {
		return Result{Output: msgNoPNRRetrieve}, nil
	}
	entries, err := t.history.ListByPNR(ctx, sess.CurrentPNRID)
	if err != nil {
		return Result{}, fmt.Errorf("load history: %w", err)
	}
	return Result{Output: format.History(entries)}, nil
}
