package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-pnr-terminal/internal/middleware"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/terminal"
	"github.com/iliyamo/airline-pnr-terminal/pkg/logger"
)

const testSecret = "test-secret"

// newTestHandler wires a handler around a storeless terminal; the
// commands exercised here never touch a repository.
func newTestHandler() (*TerminalHandler, *session.Store) {
	sessions := session.NewStore(nil)
	term := terminal.New(terminal.Config{})
	return NewTerminalHandler(term, sessions, testSecret, logger.NewNop()), sessions
}

func postCommand(t *testing.T, h *TerminalHandler, body, bearer string) (*httptest.ResponseRecorder, CommandResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/command", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := middleware.SessionToken(testSecret)(h.Command)
	if err := wrapped(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp CommandResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, resp
}

func TestCommandCreatesSession(t *testing.T) {
	h, sessions := newTestHandler()

	rec, resp := postCommand(t, h, `{"command":"HELP"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(resp.Output, "COMMAND REFERENCE") {
		t.Errorf("output = %q", resp.Output)
	}
	if resp.Token == "" {
		t.Fatal("first response missing session token")
	}
	if sessions.Len() != 1 {
		t.Errorf("sessions = %d", sessions.Len())
	}
}

func TestCommandReusesSession(t *testing.T) {
	h, sessions := newTestHandler()

	_, first := postCommand(t, h, `{"command":"HELP"}`, "")
	_, second := postCommand(t, h, `{"command":"HELP"}`, first.Token)

	if second.Token != "" {
		t.Errorf("token reissued on an authenticated request: %q", second.Token)
	}
	if sessions.Len() != 1 {
		t.Errorf("sessions = %d, second request must reuse the first", sessions.Len())
	}
}

func TestCommandBadTokenGetsFreshSession(t *testing.T) {
	h, sessions := newTestHandler()

	rec, resp := postCommand(t, h, `{"command":"HELP"}`, "garbage")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Token == "" {
		t.Error("invalid bearer should mint a fresh session token")
	}
	if sessions.Len() != 1 {
		t.Errorf("sessions = %d", sessions.Len())
	}
}

func TestCommandBadBody(t *testing.T) {
	h, _ := newTestHandler()
	rec, _ := postCommand(t, h, `{"command":`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCommandInvalidEntryBeeps(t *testing.T) {
	h, _ := newTestHandler()
	_, resp := postCommand(t, h, `{"command":"XYZZY42"}`, "")
	if resp.Output != "INVALID ENTRY - TYPE HELP FOR COMMANDS" || !resp.Beep {
		t.Errorf("response = %+v", resp)
	}
}
