package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/terminal"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
	"github.com/iliyamo/airline-pnr-terminal/pkg/logger"
)

// sessionTokenTTL is generous on purpose: the idle eviction sweep, not
// token expiry, is what actually ends abandoned sessions.
const sessionTokenTTL = 12 * time.Hour

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse carries the rendered screen plus the session token.
// Token is only set on the response that created the session; clients
// send it back as a Bearer header.
type CommandResponse struct {
	Output string `json:"output"`
	Beep   bool   `json:"beep"`
	Delay  int    `json:"delay"`
	IsDemo bool   `json:"isDemo"`
	Token  string `json:"token,omitempty"`
}

// TerminalHandler exposes the command interpreter over HTTP.
type TerminalHandler struct {
	term      *terminal.Terminal
	sessions  *session.Store
	jwtSecret string
	log       logger.Logger
}

// NewTerminalHandler wires the handler.
func NewTerminalHandler(term *terminal.Terminal, sessions *session.Store, jwtSecret string, log logger.Logger) *TerminalHandler {
	return &TerminalHandler{term: term, sessions: sessions, jwtSecret: jwtSecret, log: log}
}

// Command handles POST /api/command.  A request without a usable
// session token gets a fresh session; its token rides back on the
// response.  Evicted sessions are replaced the same way, so a client
// returning from a long idle period starts clean instead of failing.
func (h *TerminalHandler) Command(c echo.Context) error {
	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var (
		sess  *session.Session
		token string
	)
	if sid, ok := c.Get("session_id").(string); ok {
		sess, _ = h.sessions.Get(sid)
	}
	if sess == nil {
		sess = h.sessions.Create()
		signed, err := utils.NewSessionToken(h.jwtSecret, sess.ID, sessionTokenTTL)
		if err != nil {
			h.log.Error("sign session token", "error", err.Error())
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		token = signed
		h.log.Info("session created", "session", sess.ID)
	}

	res := h.term.Execute(c.Request().Context(), sess, req.Command)
	return c.JSON(http.StatusOK, CommandResponse{
		Output: res.Output,
		Beep:   res.Beep,
		Delay:  res.DelayMs,
		IsDemo: res.IsDemo,
		Token:  token,
	})
}
