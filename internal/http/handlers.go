/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

func (h *Handlers) Dashboard(c *gin.Context) {
	payload, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// ---- Devs ----

func (h *Handlers) ListDevs(c *gin.Context) {
	devs, err := h.svc.ListDevs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if devs == nil {
		devs = []domain.Dev{}
	}
	c.JSON(http.StatusOK, devs)
}

func (h *Handlers) GetDev(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dev, err := h.svc.GetDev(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *Handlers) CreateDev(c *gin.Context) {
	var dev domain.Dev
	if err := c.ShouldBindJSON(&dev); err != nil {
		badRequest(c, err)
		return
	}
	dev.ID = 0
	if err := h.svc.CreateDev(c.Request.Context(), &dev); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dev)
}

func (h *Handlers) UpdateDev(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var dev domain.Dev
	if err := c.ShouldBindJSON(&dev); err != nil {
		badRequest(c, err)
		return
	}
	dev.ID = id
	if err := h.svc.UpdateDev(c.Request.Context(), &dev); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *Handlers) DeleteDev(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDev(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Demands ----

func (h *Handlers) ListDemands(c *gin.Context) {
	demands, err := h.svc.ListDemands(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if demands == nil {
		demands = []domain.Demand{}
	}
	c.JSON(http.StatusOK, demands)
}

func (h *Handlers) GetDemand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.svc.GetDemand(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) CreateDemand(c *gin.Context) {
	var d domain.Demand
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	d.ID = 0
	if err := h.svc.CreateDemand(c.Request.Context(), &d); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handlers) UpdateDemand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d domain.Demand
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	d.ID = id
	if err := h.svc.UpdateDemand(c.Request.Context(), &d); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) DeleteDemand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDemand(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Deliveries ----

func (h *Handlers) ListDeliveries(c *gin.Context) {
	deliveries, err := h.svc.ListDeliveries(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if deliveries == nil {
		deliveries = []domain.Delivery{}
	}
	c.JSON(http.StatusOK, deliveries)
}

func (h *Handlers) GetDelivery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.svc.GetDelivery(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) CreateDelivery(c *gin.Context) {
	var d domain.Delivery
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	d.ID = 0
	if err := h.svc.CreateDelivery(c.Request.Context(), &d); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handlers) UpdateDelivery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d domain.Delivery
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	d.ID = id
	if err := h.svc.UpdateDelivery(c.Request.Context(), &d); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) DeleteDelivery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDelivery(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Highlights ----

func (h *Handlers) ListHighlights(c *gin.Context) {
	highlights, err := h.svc.ListHighlights(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if highlights == nil {
		highlights = []domain.Highlight{}
	}
	c.JSON(http.StatusOK, highlights)
}

func (h *Handlers) GetHighlight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hl, err := h.svc.GetHighlight(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hl)
}

func (h *Handlers) CreateHighlight(c *gin.Context) {
	var hl domain.Highlight
	if err := c.ShouldBindJSON(&hl); err != nil {
		badRequest(c, err)
		return
	}
	hl.ID = 0
	if err := h.svc.CreateHighlight(c.Request.Context(), &hl); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hl)
}

func (h *Handlers) UpdateHighlight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var hl domain.Highlight
	if err := c.ShouldBindJSON(&hl); err != nil {
		badRequest(c, err)
		return
	}
	hl.ID = id
	if err := h.svc.UpdateHighlight(c.Request.Context(), &hl); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hl)
}

func (h *Handlers) DeleteHighlight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteHighlight(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
