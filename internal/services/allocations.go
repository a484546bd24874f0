package services

import (
	"context"
	"time"

	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/lucsmac/team-dashboard/internal/week"
)

func validAllocationType(t string) bool {
	switch t {
	case domain.AllocationRoadmap, domain.AllocationServiceDesk, domain.AllocationGenius:
		return true
	}
	return false
}

func (s *Service) ListAllocations(ctx context.Context, devID int64, weekStart *time.Time) ([]domain.DevWeekAllocation, error) {
	return s.repo.ListAllocations(ctx, devID, weekStart)
}

// UpsertAllocation writes one allocation row after re-validating the
// 100%-per-week ceiling against the dev's sibling allocation types.
func (s *Service) UpsertAllocation(ctx context.Context, a *domain.DevWeekAllocation) error {
	if a.DevID <= 0 {
		return invalid("devId is required")
	}
	if a.WeekStart.IsZero() {
		return invalid("weekStart is required")
	}
	if !validAllocationType(a.AllocationType) {
		return invalid("allocationType must be one of roadmap, service-desk, genius")
	}
	if a.AllocationPercent < 0 || a.AllocationPercent > 100 {
		return invalid("allocationPercent must be between 0 and 100")
	}
	if a.WeekEnd.IsZero() {
		a.WeekEnd = a.WeekStart.AddDate(0, 0, 6)
	}

	siblings, err := s.repo.AllocationsForDevWeek(ctx, a.DevID, a.WeekStart)
	if err != nil {
		return err
	}
	total := a.AllocationPercent
	for _, sib := range siblings {
		if sib.AllocationType == a.AllocationType {
			continue // being replaced by this upsert
		}
		total += sib.AllocationPercent
	}
	if total > 100 {
		return domain.ErrAllocationOverflow
	}
	return s.repo.UpsertAllocation(ctx, a)
}

func (s *Service) DeleteAllocation(ctx context.Context, id int64) error {
	return s.repo.DeleteAllocation(ctx, id)
}

type DevAllocationStats struct {
	DevID   int64          `json:"devId"`
	DevName string         `json:"devName"`
	Total   int            `json:"total"`
	ByType  map[string]int `json:"byType"`
}

type AllocationStats struct {
	WeekStart time.Time            `json:"weekStart"`
	WeekEnd   time.Time            `json:"weekEnd"`
	Devs      []DevAllocationStats `json:"devs"`
}

// CurrentWeekStats sums allocation percentages per dev for the week
// containing now.
func (s *Service) CurrentWeekStats(ctx context.Context) (*AllocationStats, error) {
	start, end := week.Bounds(s.now())
	allocations, err := s.repo.AllocationsForWeek(ctx, start)
	if err != nil {
		return nil, err
	}
	devs, err := s.repo.ListDevs(ctx)
	if err != nil {
		return nil, err
	}
	names := map[int64]string{}
	for _, d := range devs {
		names[d.ID] = d.Name
	}

	byDev := map[int64]*DevAllocationStats{}
	var order []int64
	for _, a := range allocations {
		st, ok := byDev[a.DevID]
		if !ok {
			st = &DevAllocationStats{DevID: a.DevID, DevName: names[a.DevID], ByType: map[string]int{}}
			byDev[a.DevID] = st
			order = append(order, a.DevID)
		}
		st.Total += a.AllocationPercent
		st.ByType[a.AllocationType] += a.AllocationPercent
	}

	out := &AllocationStats{WeekStart: start, WeekEnd: end}
	for _, id := range order {
		out.Devs = append(out.Devs, *byDev[id])
	}
	return out, nil
}
