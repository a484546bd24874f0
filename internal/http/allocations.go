/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

func (h *Handlers) ListAllocations(c *gin.Context) {
	var devID int64
	if v := c.Query("devId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid devId"})
			return
		}
		devID = id
	}
	var weekStart *time.Time
	if v := c.Query("weekStart"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekStart, expected RFC3339"})
			return
		}
		weekStart = &ts
	}
	allocations, err := h.svc.ListAllocations(c.Request.Context(), devID, weekStart)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if allocations == nil {
		allocations = []domain.DevWeekAllocation{}
	}
	c.JSON(http.StatusOK, allocations)
}

func (h *Handlers) UpsertAllocation(c *gin.Context) {
	var a domain.DevWeekAllocation
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.UpsertAllocation(c.Request.Context(), &a); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handlers) DeleteAllocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAllocation(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) CurrentWeekStats(c *gin.Context) {
	stats, err := h.svc.CurrentWeekStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
