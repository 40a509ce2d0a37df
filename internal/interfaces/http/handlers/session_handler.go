package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/domain/user"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/middleware"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// SessionHandler creates sessions and flips their login flag.
type SessionHandler struct {
	sessions   *session.Manager
	cookieName string
	secure     bool
	logger     logging.Logger
}

func NewSessionHandler(sessions *session.Manager, cookieName string, secure bool, logger logging.Logger) *SessionHandler {
	if cookieName == "" {
		cookieName = middleware.DefaultCookieName
	}
	return &SessionHandler{sessions: sessions, cookieName: cookieName, secure: secure, logger: logger}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.Create)
	rg.GET("/sessions/current", h.Current)
	rg.POST("/sessions/login", h.Login)
	rg.POST("/sessions/logout", h.Logout)
}

// SessionResponse is the public view of a session.
type SessionResponse struct {
	*session.Session
	SelectedIDs []string `json:"selectedIds"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{Session: s, SelectedIDs: s.SelectedIDs()}
}

// LoginRequest is the body of POST /sessions/login. Credentials are not
// verified; the portal only gates features behind a signed-in flag.
type LoginRequest struct {
	Username string           `json:"username" binding:"required"`
	Method   user.LoginMethod `json:"method"`
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create()
	middleware.SetSessionCookie(c, h.cookieName, s.ID, h.secure)
	c.JSON(http.StatusCreated, newSessionResponse(s))
}

// Current handles GET /api/v1/sessions/current.
func (h *SessionHandler) Current(c *gin.Context) {
	s, err := h.sessions.Get(sessionID(c))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// Login handles POST /api/v1/sessions/login.
func (h *SessionHandler) Login(c *gin.Context) {
	id := sessionID(c)
	if id == "" {
		writeAppError(c, h.logger, errors.New(errors.ErrCodeSessionNotFound, "session required"))
		return
	}
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	s, err := h.sessions.Login(id, req.Username, req.Method)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

// Logout handles POST /api/v1/sessions/logout. The selection survives.
func (h *SessionHandler) Logout(c *gin.Context) {
	s, err := h.sessions.Logout(sessionID(c))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}
