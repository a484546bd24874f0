/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

// ---- Config ----

func (h *Handlers) ListConfig(c *gin.Context) {
	entries, err := h.svc.ListConfig(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	// flatten to key→value, the shape the frontend consumes
	out := map[string]json.RawMessage{}
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) GetConfig(c *gin.Context) {
	entry, err := h.svc.GetConfig(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// SetConfig stores the raw JSON body under the path key.
func (h *Handlers) SetConfig(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	key := c.Param("key")
	if err := h.svc.SetConfig(c.Request.Context(), key, body); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ConfigEntry{Key: key, Value: body})
}

func (h *Handlers) DeleteConfig(c *gin.Context) {
	if err := h.svc.DeleteConfig(c.Request.Context(), c.Param("key")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Jira integrations ----
// Responses always pass through Redacted(): the API token never leaves the
// server in clear text.

func (h *Handlers) ListJiraIntegrations(c *gin.Context) {
	integrations, err := h.svc.ListJiraIntegrations(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	out := make([]domain.JiraIntegration, 0, len(integrations))
	for _, j := range integrations {
		out = append(out, j.Redacted())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) GetJiraIntegration(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	j, err := h.svc.GetJiraIntegration(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, j.Redacted())
}

func (h *Handlers) CreateJiraIntegration(c *gin.Context) {
	var j domain.JiraIntegration
	if err := c.ShouldBindJSON(&j); err != nil {
		badRequest(c, err)
		return
	}
	j.ID = 0
	if err := h.svc.CreateJiraIntegration(c.Request.Context(), &j); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, j.Redacted())
}

func (h *Handlers) UpdateJiraIntegration(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var j domain.JiraIntegration
	if err := c.ShouldBindJSON(&j); err != nil {
		badRequest(c, err)
		return
	}
	j.ID = id
	if err := h.svc.UpdateJiraIntegration(c.Request.Context(), &j); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, j.Redacted())
}

func (h *Handlers) DeleteJiraIntegration(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteJiraIntegration(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) TestJiraIntegration(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.TestJiraIntegration(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) JiraMetrics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	metrics, err := h.svc.JiraMetrics(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
