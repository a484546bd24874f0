/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

// taskRequest is the write payload for timeline tasks. devIds replaces the
// assignment join rows; highlights and blockers both land in the highlights
// table (blockers are forced to type "blockers"). Omitting the arrays on
// update leaves the related rows untouched.
type taskRequest struct {
	WeekStart     time.Time          `json:"weekStart"`
	WeekEnd       time.Time          `json:"weekEnd"`
	Title         string             `json:"title"`
	Status        string             `json:"status"`
	Progress      int                `json:"progress"`
	DemandID      *int64             `json:"demandId"`
	Deadline      *time.Time         `json:"deadline"`
	DeliveryStage string             `json:"deliveryStage"`
	DevIDs        []int64            `json:"devIds"`
	Highlights    []domain.Highlight `json:"highlights"`
	Blockers      []domain.Highlight `json:"blockers"`
}

func (r *taskRequest) task(id int64) *domain.TimelineTask {
	return &domain.TimelineTask{
		ID:            id,
		WeekStart:     r.WeekStart,
		WeekEnd:       r.WeekEnd,
		Title:         r.Title,
		Status:        r.Status,
		Progress:      r.Progress,
		DemandID:      r.DemandID,
		Deadline:      r.Deadline,
		DeliveryStage: r.DeliveryStage,
	}
}

// relatedHighlights merges highlights and blockers into one list, forcing the
// blocker type. nil in, nil out, so "not provided" survives into the repo.
func (r *taskRequest) relatedHighlights() []domain.Highlight {
	if r.Highlights == nil && r.Blockers == nil {
		return nil
	}
	out := make([]domain.Highlight, 0, len(r.Highlights)+len(r.Blockers))
	out = append(out, r.Highlights...)
	for _, b := range r.Blockers {
		b.Type = domain.HighlightBlockers
		out = append(out, b)
	}
	return out
}

func (h *Handlers) ListTasks(c *gin.Context) {
	tasks, err := h.svc.ListTasks(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if tasks == nil {
		tasks = []domain.TimelineTaskView{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handlers) GetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := h.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handlers) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task := req.task(0)
	if err := h.svc.CreateTask(c.Request.Context(), task, req.DevIDs, req.relatedHighlights()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	view, err := h.svc.GetTask(c.Request.Context(), task.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handlers) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.UpdateTask(c.Request.Context(), req.task(id), req.DevIDs, req.relatedHighlights()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	view, err := h.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handlers) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
