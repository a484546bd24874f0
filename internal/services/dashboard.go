package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/lucsmac/team-dashboard/internal/week"
	"golang.org/x/sync/errgroup"
)

type WeekBucket struct {
	Label string                    `json:"label"`
	Tasks []domain.TimelineTaskView `json:"tasks"`
}

type Timeline struct {
	PreviousWeek WeekBucket `json:"previousWeek"`
	CurrentWeek  WeekBucket `json:"currentWeek"`
	UpcomingWeek WeekBucket `json:"upcomingWeek"`
}

// Dashboard is the composite read model the frontend loads once and renders
// across pages.
type Dashboard struct {
	Devs       []domain.Dev                  `json:"devs"`
	Demands    map[string][]domain.Demand    `json:"demands"`
	Deliveries []domain.Delivery             `json:"deliveries"`
	Highlights map[string][]domain.Highlight `json:"highlights"`
	Timeline   Timeline                      `json:"timeline"`
	Config     map[string]any                `json:"config"`
}

// Dashboard fetches every entity in parallel and assembles the read model.
// Read-only; any sub-fetch failure fails the whole request, there is no
// partial response.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		devs       []domain.Dev
		demands    []domain.Demand
		deliveries []domain.Delivery
		highlights []domain.Highlight
		tasks      []domain.TimelineTaskView
		entries    []domain.ConfigEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	g.Go(func() (err error) { devs, err = s.repo.ListDevs(gctx); return })
	g.Go(func() (err error) { demands, err = s.repo.ListDemands(gctx); return })
	g.Go(func() (err error) { deliveries, err = s.repo.ListDeliveries(gctx); return })
	g.Go(func() (err error) { highlights, err = s.repo.ListHighlights(gctx); return })
	g.Go(func() (err error) { tasks, err = s.repo.ListTaskViews(gctx); return })
	g.Go(func() (err error) { entries, err = s.repo.ListConfig(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assembleDashboard(s.now(), devs, demands, deliveries, highlights, tasks, entries), nil
}

func assembleDashboard(now time.Time, devs []domain.Dev, demands []domain.Demand,
	deliveries []domain.Delivery, highlights []domain.Highlight,
	tasks []domain.TimelineTaskView, entries []domain.ConfigEntry) *Dashboard {

	// classify; unclassified tasks leave the 3-week display entirely
	var surviving []domain.TimelineTaskView
	for _, t := range tasks {
		typ, ok := week.Classify(t.WeekStart, t.WeekEnd, now)
		if !ok {
			continue
		}
		t.WeekType = string(typ)
		surviving = append(surviving, t)
	}

	enrichDevs(devs, surviving)

	demandsByCategory := map[string][]domain.Demand{}
	for _, d := range demands {
		cat := d.Category
		if cat == "" {
			cat = "geral"
		}
		demandsByCategory[cat] = append(demandsByCategory[cat], d)
	}

	// fixed enumeration: all three keys are always present
	highlightsByType := map[string][]domain.Highlight{
		domain.HighlightBlockers:     {},
		domain.HighlightAchievements: {},
		domain.HighlightImportant:    {},
	}
	for _, h := range highlights {
		if _, ok := highlightsByType[h.Type]; ok {
			highlightsByType[h.Type] = append(highlightsByType[h.Type], h)
		}
	}

	tl := Timeline{
		PreviousWeek: WeekBucket{Label: weekLabel(now.AddDate(0, 0, -7)), Tasks: []domain.TimelineTaskView{}},
		CurrentWeek:  WeekBucket{Label: weekLabel(now), Tasks: []domain.TimelineTaskView{}},
		UpcomingWeek: WeekBucket{Label: weekLabel(now.AddDate(0, 0, 7)), Tasks: []domain.TimelineTaskView{}},
	}
	for _, t := range surviving {
		switch week.Type(t.WeekType) {
		case week.Previous:
			tl.PreviousWeek.Tasks = append(tl.PreviousWeek.Tasks, t)
		case week.Current:
			tl.CurrentWeek.Tasks = append(tl.CurrentWeek.Tasks, t)
		case week.Upcoming:
			tl.UpcomingWeek.Tasks = append(tl.UpcomingWeek.Tasks, t)
		}
	}

	return &Dashboard{
		Devs:       devs,
		Demands:    demandsByCategory,
		Deliveries: deliveries,
		Highlights: highlightsByType,
		Timeline:   tl,
		Config:     mergeConfig(now, entries),
	}
}

// weekLabel renders the Sunday-to-Saturday range containing t as "dd/mm - dd/mm".
func weekLabel(t time.Time) string {
	start, end := week.Bounds(t)
	return fmt.Sprintf("%02d/%02d - %02d/%02d", start.Day(), int(start.Month()), end.Day(), int(end.Month()))
}

// mergeConfig overlays stored config entries on top of hardcoded defaults so
// the frontend always finds the keys it expects.
func mergeConfig(now time.Time, entries []domain.ConfigEntry) map[string]any {
	out := map[string]any{
		"week":         "Semana de " + weekLabel(now),
		"priorities":   []any{},
		"currentWeek":  weekLabel(now),
		"previousWeek": weekLabel(now.AddDate(0, 0, -7)),
		"upcomingWeeks": []any{
			weekLabel(now.AddDate(0, 0, 7)),
		},
	}
	for _, e := range entries {
		var v any
		if err := json.Unmarshal(e.Value, &v); err != nil {
			continue
		}
		out[e.Key] = v
	}
	return out
}
