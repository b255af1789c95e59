package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signroom/signroom/audit"
	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/roster"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/tracker"
)

type SessionHandler struct {
	Roster  *roster.Service
	Session *session.Session
	Tracker *tracker.Tracker
	Audit   *audit.Service
	Logger  log.Logger
}

func (h *SessionHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/session", h.Get)
	router.POST("/api/session/user", h.ChangeUser)
	router.POST("/api/session/signee", h.SelectSignee)
}

func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"data": h.Session.Snapshot(),
	})
}

func (h *SessionHandler) ChangeUser(c *gin.Context) {
	var body struct {
		ID int `json:"id"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	user, err := h.Roster.Get(body.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	if err := h.Session.ChangeUser(c.Request.Context(), user); err != nil {
		renderError(c, err)
		return
	}
	h.Tracker.SetCurrentUser(user)

	if _, err := h.Audit.Append(audit.NewRecord(
		audit.KindUserSwitched, user, fmt.Sprintf("%s is driving", user.Name),
	)); err != nil {
		h.Logger.Errorf("error appending audit record: %v", err)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": h.Session.Snapshot(),
	})
}

func (h *SessionHandler) SelectSignee(c *gin.Context) {
	var body struct {
		ID int `json:"id"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	user, err := h.Roster.Get(body.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	h.Session.SetSelectedSignee(user)

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": h.Session.Snapshot(),
	})
}

func renderError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	if err, ok := err.(errors.Error); ok {
		statusCode = err.Code()
	}

	c.JSON(statusCode, map[string]interface{}{
		"error": err.Error(),
	})
}
