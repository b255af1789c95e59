package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signroom/signroom/audit"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/placement"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/tracker"
)

type AnnotationHandler struct {
	Placement *placement.Orchestrator
	Session   *session.Session
	Engine    engine.Engine
	Tracker   *tracker.Tracker
	Audit     *audit.Service
	Logger    log.Logger
}

func (h *AnnotationHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/annotations/drop", h.Drop)
	router.POST("/api/annotations/:id/press", h.Press)
	router.DELETE("/api/annotations/:id", h.Delete)
	router.GET("/api/annotations", h.List)
}

func (h *AnnotationHandler) Drop(c *gin.Context) {
	var body struct {
		Payload   string  `json:"payload"`
		ClientX   float64 `json:"clientX"`
		ClientY   float64 `json:"clientY"`
		PageIndex int     `json:"pageIndex"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	payload, err := placement.ParsePayload(body.Payload)
	if err != nil {
		renderError(c, err)
		return
	}

	ann, err := h.Placement.Drop(c.Request.Context(), placement.DropRequest{
		Payload:   payload,
		ClientX:   body.ClientX,
		ClientY:   body.ClientY,
		PageIndex: body.PageIndex,
		User:      h.Session.CurrentUser(),
		Signee:    h.Session.SelectedSignee(),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	if _, err := h.Audit.Append(audit.NewRecord(
		audit.KindFieldPlaced, h.Session.CurrentUser(),
		fmt.Sprintf("%s on page %d", payload.Type, body.PageIndex),
	)); err != nil {
		h.Logger.Errorf("error appending audit record: %v", err)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": ann,
	})
}

// Press classifies a pressed field and returns the stored gallery it
// should offer.
func (h *AnnotationHandler) Press(c *gin.Context) {
	id := c.Param("id")

	for i := 0; i < h.Engine.PageCount(); i++ {
		annotations, err := h.Engine.Annotations(i)
		if err != nil {
			renderError(c, err)
			return
		}

		for _, ann := range annotations {
			if ann.ID != id {
				continue
			}

			kind, gallery := h.Tracker.Press(ann)
			c.JSON(http.StatusOK, map[string]interface{}{
				"data": map[string]interface{}{
					"kind":    kind,
					"gallery": gallery,
				},
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, map[string]interface{}{
		"error": fmt.Sprintf("no annotation %s", id),
	})
}

func (h *AnnotationHandler) Delete(c *gin.Context) {
	if err := h.Engine.DeleteAnnotation(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": "ok",
	})
}

// List returns the annotations of one page along with how each one should
// render for the active user.
func (h *AnnotationHandler) List(c *gin.Context) {
	var query struct {
		PageIndex int `form:"pageIndex"`
	}
	if err := c.BindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	annotations, err := h.Engine.Annotations(query.PageIndex)
	if err != nil {
		renderError(c, err)
		return
	}

	type annotationView struct {
		engine.Annotation
		Render tracker.RenderDecision `json:"render"`
	}
	views := make([]annotationView, len(annotations))
	for i, ann := range annotations {
		views[i] = annotationView{Annotation: ann, Render: h.Tracker.Decide(ann)}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": views,
	})
}
