package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lucsmac/team-dashboard/internal/adapters/jira"
	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/lucsmac/team-dashboard/internal/week"
	"github.com/rs/zerolog"
)

// jiraAPI is the slice of the Jira client the service uses; swapped out in
// tests.
type jiraAPI interface {
	Myself(ctx context.Context) (string, error)
	ProjectMetrics(ctx context.Context, projectKey string) (*jira.BoardMetrics, error)
}

type Service struct {
	cfg  config.Config
	log  zerolog.Logger
	repo domain.Repository

	// injectable clock; week classification must be deterministic in tests
	now func() time.Time

	jiraFor func(j domain.JiraIntegration) jiraAPI
}

func New(cfg config.Config, log zerolog.Logger, repo domain.Repository) *Service {
	s := &Service{cfg: cfg, log: log, repo: repo, now: time.Now}
	s.jiraFor = func(j domain.JiraIntegration) jiraAPI {
		return jira.NewClient(j.JiraURL, j.Email, j.APIToken, cfg.HTTPTimeout, log)
	}
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

// ---- Devs ----

// ListDevs returns all devs with weekly summaries filled in. Stored non-empty
// summaries are kept verbatim; computed values are only a fallback.
func (s *Service) ListDevs(ctx context.Context) ([]domain.Dev, error) {
	devs, err := s.repo.ListDevs(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.classifiedTasks(ctx)
	if err != nil {
		return nil, err
	}
	enrichDevs(devs, tasks)
	return devs, nil
}

// GetDev returns one dev enriched from tasks matched through the id-based
// assignment join.
func (s *Service) GetDev(ctx context.Context, id int64) (*domain.Dev, error) {
	dev, err := s.repo.GetDev(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.classifiedTasks(ctx)
	if err != nil {
		return nil, err
	}
	var own []week.ClassifiedTask
	for _, t := range tasks {
		for _, devID := range t.DevIDs {
			if devID == id {
				own = append(own, week.ClassifiedTask{Title: t.Title, Progress: t.Progress, Type: week.Type(t.WeekType)})
				break
			}
		}
	}
	applySummaries(dev, week.BuildSummaries(own))
	return dev, nil
}

func (s *Service) CreateDev(ctx context.Context, d *domain.Dev) error {
	if d.Name == "" {
		return invalid("name is required")
	}
	return s.repo.CreateDev(ctx, d)
}

func (s *Service) UpdateDev(ctx context.Context, d *domain.Dev) error {
	if d.Name == "" {
		return invalid("name is required")
	}
	return s.repo.UpdateDev(ctx, d)
}

func (s *Service) DeleteDev(ctx context.Context, id int64) error {
	return s.repo.DeleteDev(ctx, id)
}

// ---- Demands ----

func (s *Service) ListDemands(ctx context.Context) ([]domain.Demand, error) {
	return s.repo.ListDemands(ctx)
}

func (s *Service) GetDemand(ctx context.Context, id int64) (*domain.Demand, error) {
	return s.repo.GetDemand(ctx, id)
}

func (s *Service) CreateDemand(ctx context.Context, d *domain.Demand) error {
	if d.Title == "" {
		return invalid("title is required")
	}
	return s.repo.CreateDemand(ctx, d)
}

func (s *Service) UpdateDemand(ctx context.Context, d *domain.Demand) error {
	if d.Title == "" {
		return invalid("title is required")
	}
	return s.repo.UpdateDemand(ctx, d)
}

func (s *Service) DeleteDemand(ctx context.Context, id int64) error {
	return s.repo.DeleteDemand(ctx, id)
}

// ---- Deliveries ----

func (s *Service) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return s.repo.ListDeliveries(ctx)
}

func (s *Service) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	return s.repo.GetDelivery(ctx, id)
}

func (s *Service) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	if d.Title == "" {
		return invalid("title is required")
	}
	return s.repo.CreateDelivery(ctx, d)
}

func (s *Service) UpdateDelivery(ctx context.Context, d *domain.Delivery) error {
	if d.Title == "" {
		return invalid("title is required")
	}
	return s.repo.UpdateDelivery(ctx, d)
}

func (s *Service) DeleteDelivery(ctx context.Context, id int64) error {
	return s.repo.DeleteDelivery(ctx, id)
}

// ---- Highlights ----

func validHighlightType(t string) bool {
	switch t {
	case domain.HighlightBlockers, domain.HighlightAchievements, domain.HighlightImportant:
		return true
	}
	return false
}

func (s *Service) ListHighlights(ctx context.Context) ([]domain.Highlight, error) {
	return s.repo.ListHighlights(ctx)
}

func (s *Service) GetHighlight(ctx context.Context, id int64) (*domain.Highlight, error) {
	return s.repo.GetHighlight(ctx, id)
}

func (s *Service) CreateHighlight(ctx context.Context, h *domain.Highlight) error {
	if h.Text == "" {
		return invalid("text is required")
	}
	if !validHighlightType(h.Type) {
		return invalid("type must be one of blockers, achievements, important")
	}
	return s.repo.CreateHighlight(ctx, h)
}

func (s *Service) UpdateHighlight(ctx context.Context, h *domain.Highlight) error {
	if h.Text == "" {
		return invalid("text is required")
	}
	if !validHighlightType(h.Type) {
		return invalid("type must be one of blockers, achievements, important")
	}
	return s.repo.UpdateHighlight(ctx, h)
}

func (s *Service) DeleteHighlight(ctx context.Context, id int64) error {
	return s.repo.DeleteHighlight(ctx, id)
}

// ---- Timeline ----

func validateTask(t *domain.TimelineTask) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if t.WeekStart.IsZero() || t.WeekEnd.IsZero() {
		return invalid("weekStart and weekEnd are required")
	}
	if t.WeekEnd.Before(t.WeekStart) {
		return invalid("weekEnd precedes weekStart")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return invalid("progress must be between 0 and 100")
	}
	return nil
}

// ListTasks returns all tasks with weekType computed; tasks outside the three
// displayed windows carry an empty weekType here (the dashboard drops them,
// the raw list keeps them).
func (s *Service) ListTasks(ctx context.Context) ([]domain.TimelineTaskView, error) {
	views, err := s.repo.ListTaskViews(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range views {
		if typ, ok := week.Classify(views[i].WeekStart, views[i].WeekEnd, now); ok {
			views[i].WeekType = string(typ)
		}
	}
	return views, nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (*domain.TimelineTaskView, error) {
	v, err := s.repo.GetTaskView(ctx, id)
	if err != nil {
		return nil, err
	}
	if typ, ok := week.Classify(v.WeekStart, v.WeekEnd, s.now()); ok {
		v.WeekType = string(typ)
	}
	return v, nil
}

func (s *Service) CreateTask(ctx context.Context, t *domain.TimelineTask, devIDs []int64, highlights []domain.Highlight) error {
	if err := validateTask(t); err != nil {
		return err
	}
	return s.repo.CreateTask(ctx, t, devIDs, highlights)
}

func (s *Service) UpdateTask(ctx context.Context, t *domain.TimelineTask, devIDs []int64, highlights []domain.Highlight) error {
	if err := validateTask(t); err != nil {
		return err
	}
	return s.repo.UpdateTask(ctx, t, devIDs, highlights)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.repo.DeleteTask(ctx, id)
}

// ---- Config ----

func (s *Service) ListConfig(ctx context.Context) ([]domain.ConfigEntry, error) {
	return s.repo.ListConfig(ctx)
}

func (s *Service) GetConfig(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	return s.repo.GetConfig(ctx, key)
}

func (s *Service) SetConfig(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return invalid("key is required")
	}
	if len(value) == 0 || !json.Valid(value) {
		return invalid("value must be valid JSON")
	}
	return s.repo.SetConfig(ctx, key, value)
}

func (s *Service) DeleteConfig(ctx context.Context, key string) error {
	return s.repo.DeleteConfig(ctx, key)
}

// ---- internals ----

// classifiedTasks loads all task views, classifies them against the service
// clock, and drops tasks outside the three-week window.
func (s *Service) classifiedTasks(ctx context.Context) ([]domain.TimelineTaskView, error) {
	views, err := s.repo.ListTaskViews(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := views[:0]
	for _, v := range views {
		typ, ok := week.Classify(v.WeekStart, v.WeekEnd, now)
		if !ok {
			continue
		}
		v.WeekType = string(typ)
		out = append(out, v)
	}
	return out, nil
}

// enrichDevs fills empty weekly summaries from each dev's classified tasks,
// matching by assignee name against the materialized assignee list.
func enrichDevs(devs []domain.Dev, tasks []domain.TimelineTaskView) {
	for i := range devs {
		var own []week.ClassifiedTask
		for _, t := range tasks {
			for _, name := range t.Assignees {
				if name == devs[i].Name {
					own = append(own, week.ClassifiedTask{Title: t.Title, Progress: t.Progress, Type: week.Type(t.WeekType)})
					break
				}
			}
		}
		applySummaries(&devs[i], week.BuildSummaries(own))
	}
}

// applySummaries writes computed summaries only where the stored value is
// empty; a manually set summary is never overwritten.
func applySummaries(d *domain.Dev, s week.Summaries) {
	if d.LastWeek == "" {
		d.LastWeek = s.LastWeek
	}
	if d.ThisWeek == "" {
		d.ThisWeek = s.ThisWeek
	}
	if d.NextWeek == "" {
		d.NextWeek = s.NextWeek
	}
}
