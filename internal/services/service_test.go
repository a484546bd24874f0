package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo embeds the interface so only the methods a test touches need
// implementations; anything else panics loudly.
type fakeRepo struct {
	domain.Repository

	devs        []domain.Dev
	demands     []domain.Demand
	deliveries  []domain.Delivery
	highlights  []domain.Highlight
	tasks       []domain.TimelineTaskView
	entries      []domain.ConfigEntry
	allocations  []domain.DevWeekAllocation
	integrations []domain.JiraIntegration

	upserted []domain.DevWeekAllocation
	configs  map[string]json.RawMessage
	synced   []int64
}

func (f *fakeRepo) ListDevs(ctx context.Context) ([]domain.Dev, error) { return f.devs, nil }
func (f *fakeRepo) GetDev(ctx context.Context, id int64) (*domain.Dev, error) {
	for _, d := range f.devs {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (f *fakeRepo) ListDemands(ctx context.Context) ([]domain.Demand, error) { return f.demands, nil }
func (f *fakeRepo) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return f.deliveries, nil
}
func (f *fakeRepo) ListHighlights(ctx context.Context) ([]domain.Highlight, error) {
	return f.highlights, nil
}
func (f *fakeRepo) ListTaskViews(ctx context.Context) ([]domain.TimelineTaskView, error) {
	return f.tasks, nil
}
func (f *fakeRepo) ListConfig(ctx context.Context) ([]domain.ConfigEntry, error) {
	return f.entries, nil
}
func (f *fakeRepo) AllocationsForDevWeek(ctx context.Context, devID int64, weekStart time.Time) ([]domain.DevWeekAllocation, error) {
	var out []domain.DevWeekAllocation
	for _, a := range f.allocations {
		if a.DevID == devID && a.WeekStart.Equal(weekStart) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeRepo) AllocationsForWeek(ctx context.Context, weekStart time.Time) ([]domain.DevWeekAllocation, error) {
	var out []domain.DevWeekAllocation
	for _, a := range f.allocations {
		if a.WeekStart.Equal(weekStart) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeRepo) UpsertAllocation(ctx context.Context, a *domain.DevWeekAllocation) error {
	a.ID = int64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, *a)
	return nil
}
func (f *fakeRepo) SetConfig(ctx context.Context, key string, value json.RawMessage) error {
	if f.configs == nil {
		f.configs = map[string]json.RawMessage{}
	}
	f.configs[key] = value
	return nil
}
func (f *fakeRepo) TouchJiraSync(ctx context.Context, id int64, at time.Time) error {
	f.synced = append(f.synced, id)
	return nil
}

// fixedNow is a Wednesday; its week runs Sunday 2025-06-08 to Saturday
// 2025-06-14.
var fixedNow = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func newTestService(repo domain.Repository) *Service {
	s := New(config.Config{AppEnv: "test"}, zerolog.Nop(), repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func taskView(title string, progress int, start time.Time, assignees []string, devIDs []int64) domain.TimelineTaskView {
	return domain.TimelineTaskView{
		TimelineTask: domain.TimelineTask{
			Title:     title,
			Progress:  progress,
			WeekStart: start,
			WeekEnd:   start.AddDate(0, 0, 6),
		},
		Assignees: assignees,
		DevIDs:    devIDs,
	}
}

func TestListDevsEnrichment(t *testing.T) {
	currentWeek := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	previousWeek := currentWeek.AddDate(0, 0, -7)

	repo := &fakeRepo{
		devs: []domain.Dev{
			{ID: 1, Name: "Ana"},
			{ID: 2, Name: "Bruno", ThisWeek: "Ajustes manuais"},
		},
		tasks: []domain.TimelineTaskView{
			taskView("API de pagamentos", 60, currentWeek, []string{"Ana"}, []int64{1}),
			taskView("Migração de banco", 100, previousWeek, []string{"Ana", "Bruno"}, []int64{1, 2}),
		},
	}
	svc := newTestService(repo)

	devs, err := svc.ListDevs(context.Background())
	require.NoError(t, err)
	require.Len(t, devs, 2)

	assert.Equal(t, "API de pagamentos (60%)", devs[0].ThisWeek)
	assert.Equal(t, "Migração de banco - Concluído", devs[0].LastWeek)
	assert.Equal(t, "Sem atividades", devs[0].NextWeek)

	// the manually stored summary is never overwritten
	assert.Equal(t, "Ajustes manuais", devs[1].ThisWeek)
	assert.Equal(t, "Migração de banco - Concluído", devs[1].LastWeek)
}

func TestGetDevMatchesByID(t *testing.T) {
	currentWeek := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		devs: []domain.Dev{{ID: 7, Name: "Carla"}},
		tasks: []domain.TimelineTaskView{
			// assignee name diverges from the dev record; the id join wins
			taskView("Refator do checkout", 30, currentWeek, []string{"C. Souza"}, []int64{7}),
		},
	}
	svc := newTestService(repo)

	dev, err := svc.GetDev(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Refator do checkout (30%)", dev.ThisWeek)
}

func TestUpsertAllocationCeiling(t *testing.T) {
	weekStart := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		allocations: []domain.DevWeekAllocation{
			{ID: 1, DevID: 3, WeekStart: weekStart, AllocationType: domain.AllocationRoadmap, AllocationPercent: 50},
			{ID: 2, DevID: 3, WeekStart: weekStart, AllocationType: domain.AllocationServiceDesk, AllocationPercent: 30},
		},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	// 80% taken; 30% more for a third type overflows
	err := svc.UpsertAllocation(ctx, &domain.DevWeekAllocation{
		DevID: 3, WeekStart: weekStart, AllocationType: domain.AllocationGenius, AllocationPercent: 30,
	})
	assert.ErrorIs(t, err, domain.ErrAllocationOverflow)
	assert.Empty(t, repo.upserted)

	// 20% fits exactly
	a := &domain.DevWeekAllocation{
		DevID: 3, WeekStart: weekStart, AllocationType: domain.AllocationGenius, AllocationPercent: 20,
	}
	require.NoError(t, svc.UpsertAllocation(ctx, a))
	assert.NotZero(t, a.ID)
	assert.Equal(t, a.WeekStart.AddDate(0, 0, 6), a.WeekEnd)

	// replacing a type's own row does not count it twice
	err = svc.UpsertAllocation(ctx, &domain.DevWeekAllocation{
		DevID: 3, WeekStart: weekStart, AllocationType: domain.AllocationRoadmap, AllocationPercent: 70,
	})
	assert.NoError(t, err)
}

func TestUpsertAllocationValidation(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	weekStart := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	err := svc.UpsertAllocation(context.Background(), &domain.DevWeekAllocation{
		DevID: 1, WeekStart: weekStart, AllocationType: "vacation", AllocationPercent: 10,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.UpsertAllocation(context.Background(), &domain.DevWeekAllocation{
		DevID: 1, WeekStart: weekStart, AllocationType: domain.AllocationRoadmap, AllocationPercent: 120,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCurrentWeekStats(t *testing.T) {
	weekStart := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		devs: []domain.Dev{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}},
		allocations: []domain.DevWeekAllocation{
			{DevID: 1, WeekStart: weekStart, AllocationType: domain.AllocationRoadmap, AllocationPercent: 60},
			{DevID: 1, WeekStart: weekStart, AllocationType: domain.AllocationGenius, AllocationPercent: 20},
			{DevID: 2, WeekStart: weekStart, AllocationType: domain.AllocationServiceDesk, AllocationPercent: 100},
			// a different week must not leak into the stats
			{DevID: 2, WeekStart: weekStart.AddDate(0, 0, -7), AllocationType: domain.AllocationRoadmap, AllocationPercent: 40},
		},
	}
	svc := newTestService(repo)

	stats, err := svc.CurrentWeekStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.WeekStart.Equal(weekStart))
	require.Len(t, stats.Devs, 2)
	assert.Equal(t, "Ana", stats.Devs[0].DevName)
	assert.Equal(t, 80, stats.Devs[0].Total)
	assert.Equal(t, 60, stats.Devs[0].ByType[domain.AllocationRoadmap])
	assert.Equal(t, 100, stats.Devs[1].Total)
}

func TestValidationErrors(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.CreateDev(ctx, &domain.Dev{}), domain.ErrValidation)
	assert.ErrorIs(t, svc.CreateDemand(ctx, &domain.Demand{}), domain.ErrValidation)
	assert.ErrorIs(t, svc.CreateDelivery(ctx, &domain.Delivery{}), domain.ErrValidation)
	assert.ErrorIs(t, svc.CreateHighlight(ctx, &domain.Highlight{Text: "x", Type: "other"}), domain.ErrValidation)
	assert.ErrorIs(t, svc.CreateTask(ctx, &domain.TimelineTask{Title: "x"}, nil, nil), domain.ErrValidation)
	assert.ErrorIs(t, svc.SetConfig(ctx, "k", json.RawMessage(`{`)), domain.ErrValidation)
}
