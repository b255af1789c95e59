package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/signroom/signroom/audit"
)

type AuditHandler struct {
	Service *audit.Service
}

func (h *AuditHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/audit", h.Search)
}

func (h *AuditHandler) Search(c *gin.Context) {
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	records, err := h.Service.Search(c.Query("q"), limit, offset)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data": records,
	})
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
