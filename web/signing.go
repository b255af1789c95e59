package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signroom/signroom/audit"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/signing"
)

type SigningHandler struct {
	Signing *signing.Controller
	Session *session.Session
	Audit   *audit.Service
	Logger  log.Logger
}

func (h *SigningHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/sign", h.Sign)
	router.GET("/api/digitalSigningLite", h.Certificates)
}

// Sign runs the digital signing round-trip and streams back the signed
// document.
func (h *SigningHandler) Sign(c *gin.Context) {
	ref, err := h.Signing.Apply(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	data, err := ref.Bytes()
	if err != nil {
		renderError(c, err)
		return
	}

	if _, err := h.Audit.Append(audit.NewRecord(
		audit.KindDocumentSigned, h.Session.CurrentUser(), ref.Name(),
	)); err != nil {
		h.Logger.Errorf("error appending audit record: %v", err)
	}

	c.Header("Content-Disposition", "attachment; filename="+ref.Name())
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *SigningHandler) Certificates(c *gin.Context) {
	certs, err := h.Signing.Certificates(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"ca_certificates": certs,
		},
	})
}
