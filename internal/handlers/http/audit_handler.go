package http

import (
	"net/http"
	"strconv"

	"mediagate/internal/core/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	accessLog services.AccessLog
}

func NewAuditHandler(accessLog services.AccessLog) *AuditHandler {
	return &AuditHandler{accessLog: accessLog}
}

// RecentAccess returns the newest access-log entries, tokens redacted.
func (h *AuditHandler) RecentAccess(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries := h.accessLog.Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}
