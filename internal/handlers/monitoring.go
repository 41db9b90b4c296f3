package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxMonitorLimit = 50

func (h *Handler) checkMonitoringToken(c *gin.Context) bool {
	expected := strings.TrimSpace(h.MonitoringKey)
	if expected == "" || h.Monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitoring API is disabled"})
		return false
	}

	provided := strings.TrimSpace(c.GetHeader("X-Monitoring-Key"))
	if provided == "" || provided != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid monitoring key"})
		return false
	}
	return true
}

func (h *Handler) MonitorStatus(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.Monitor.StatusText(c.Request.Context())})
}

func (h *Handler) MonitorAll(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.Monitor.AllText(c.Request.Context())})
}

func (h *Handler) MonitorSnapshot(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, h.Monitor.Snapshot(c.Request.Context()))
}

// MonitorAuthors pages through users with their post counts.
func (h *Handler) MonitorAuthors(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 8)
	if limit > maxMonitorLimit {
		limit = maxMonitorLimit
	}

	authors, total, err := h.Users.ListAuthors(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Printf("Error listing authors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load authors list"})
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"limit":         limit,
		"total_authors": total,
		"total_pages":   totalPages,
		"authors":       authors,
	})
}
