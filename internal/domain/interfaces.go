package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Repository is the persistence boundary consumed by the service layer.
type Repository interface {
	// Devs
	ListDevs(ctx context.Context) ([]Dev, error)
	GetDev(ctx context.Context, id int64) (*Dev, error)
	CreateDev(ctx context.Context, d *Dev) error
	UpdateDev(ctx context.Context, d *Dev) error
	DeleteDev(ctx context.Context, id int64) error

	// Demands
	ListDemands(ctx context.Context) ([]Demand, error)
	GetDemand(ctx context.Context, id int64) (*Demand, error)
	CreateDemand(ctx context.Context, d *Demand) error
	UpdateDemand(ctx context.Context, d *Demand) error
	DeleteDemand(ctx context.Context, id int64) error

	// Deliveries
	ListDeliveries(ctx context.Context) ([]Delivery, error)
	GetDelivery(ctx context.Context, id int64) (*Delivery, error)
	CreateDelivery(ctx context.Context, d *Delivery) error
	UpdateDelivery(ctx context.Context, d *Delivery) error
	DeleteDelivery(ctx context.Context, id int64) error

	// Highlights
	ListHighlights(ctx context.Context) ([]Highlight, error)
	GetHighlight(ctx context.Context, id int64) (*Highlight, error)
	CreateHighlight(ctx context.Context, h *Highlight) error
	UpdateHighlight(ctx context.Context, h *Highlight) error
	DeleteHighlight(ctx context.Context, id int64) error

	// Timeline tasks. Views carry materialized assignees and highlights;
	// WeekType is left empty for the service layer to fill. On update, nil
	// devIDs/highlights mean "leave related rows untouched"; non-nil replaces
	// them. Writes touching related rows run in a single transaction.
	ListTaskViews(ctx context.Context) ([]TimelineTaskView, error)
	GetTaskView(ctx context.Context, id int64) (*TimelineTaskView, error)
	CreateTask(ctx context.Context, t *TimelineTask, devIDs []int64, highlights []Highlight) error
	UpdateTask(ctx context.Context, t *TimelineTask, devIDs []int64, highlights []Highlight) error
	DeleteTask(ctx context.Context, id int64) error

	// Allocations
	ListAllocations(ctx context.Context, devID int64, weekStart *time.Time) ([]DevWeekAllocation, error)
	AllocationsForDevWeek(ctx context.Context, devID int64, weekStart time.Time) ([]DevWeekAllocation, error)
	AllocationsForWeek(ctx context.Context, weekStart time.Time) ([]DevWeekAllocation, error)
	UpsertAllocation(ctx context.Context, a *DevWeekAllocation) error
	DeleteAllocation(ctx context.Context, id int64) error

	// Config
	ListConfig(ctx context.Context) ([]ConfigEntry, error)
	GetConfig(ctx context.Context, key string) (*ConfigEntry, error)
	SetConfig(ctx context.Context, key string, value json.RawMessage) error
	DeleteConfig(ctx context.Context, key string) error

	// Jira integrations
	ListJiraIntegrations(ctx context.Context) ([]JiraIntegration, error)
	GetJiraIntegration(ctx context.Context, id int64) (*JiraIntegration, error)
	CreateJiraIntegration(ctx context.Context, j *JiraIntegration) error
	UpdateJiraIntegration(ctx context.Context, j *JiraIntegration) error
	DeleteJiraIntegration(ctx context.Context, id int64) error
	TouchJiraSync(ctx context.Context, id int64, at time.Time) error

	// Cross-instance coordination for the sync job
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
	AdvisoryUnlock(ctx context.Context, key int64) error
}
