package domain

import (
	"encoding/json"
	"time"
)

// Highlight types accepted by the API.
const (
	HighlightBlockers     = "blockers"
	HighlightAchievements = "achievements"
	HighlightImportant    = "important"
)

// Allocation streams. A dev's percentages across these must not exceed 100
// within a single week.
const (
	AllocationRoadmap     = "roadmap"
	AllocationServiceDesk = "service-desk"
	AllocationGenius      = "genius"
)

type Dev struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
	// Weekly summaries. When empty they are computed from timeline tasks at
	// read time; a manually stored value always wins.
	LastWeek string `json:"lastWeek"`
	ThisWeek string `json:"thisWeek"`
	NextWeek string `json:"nextWeek"`
}

type Demand struct {
	ID        int64    `json:"id"`
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Priority  string   `json:"priority"`
	Stage     string   `json:"stage"`
	Assignees []string `json:"assignees"`
	Value     string   `json:"value"`
	Details   string   `json:"details"`
	Links     []string `json:"links"`
}

type Delivery struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	ValueType string   `json:"valueType"`
	Items     []string `json:"items"`
}

type Highlight struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Text      string     `json:"text"`
	Severity  string     `json:"severity,omitempty"`
	DemandID  *int64     `json:"demandId,omitempty"`
	TaskID    *int64     `json:"taskId,omitempty"`
	Devs      []string   `json:"devs,omitempty"`
	WeekStart *time.Time `json:"weekStart,omitempty"`
	WeekEnd   *time.Time `json:"weekEnd,omitempty"`
}

type TimelineTask struct {
	ID            int64      `json:"id"`
	WeekStart     time.Time  `json:"weekStart"`
	WeekEnd       time.Time  `json:"weekEnd"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	DemandID      *int64     `json:"demandId,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	DeliveryStage string     `json:"deliveryStage,omitempty"`
}

// TimelineTaskView is a task as served to the frontend: the stored row plus
// materialized assignees, related highlights, and the computed week type.
// WeekType is never persisted; it shifts as real time passes.
type TimelineTaskView struct {
	TimelineTask
	WeekType   string      `json:"weekType"`
	DevIDs     []int64     `json:"devIds"`
	Assignees  []string    `json:"assignees"`
	Highlights []Highlight `json:"highlights"`
}

type DevWeekAllocation struct {
	ID                int64     `json:"id"`
	DevID             int64     `json:"devId"`
	WeekStart         time.Time `json:"weekStart"`
	WeekEnd           time.Time `json:"weekEnd"`
	AllocationType    string    `json:"allocationType"`
	AllocationPercent int       `json:"allocationPercent"`
	Notes             string    `json:"notes,omitempty"`
}

type ConfigEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type JiraIntegration struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	JiraURL    string     `json:"jiraUrl"`
	ProjectKey string     `json:"projectKey"`
	BoardID    int64      `json:"boardId"`
	APIToken   string     `json:"apiToken"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"isActive"`
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`
}

// Redacted returns a copy safe for serialization: the API token is masked but
// stays intact in storage for the Jira client.
func (j JiraIntegration) Redacted() JiraIntegration {
	out := j
	if out.APIToken != "" {
		out.APIToken = "***"
	}
	return out
}
