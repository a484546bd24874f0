package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAssembly(t *testing.T) {
	currentWeek := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	previousWeek := currentWeek.AddDate(0, 0, -7)
	twoWeeksAgo := currentWeek.AddDate(0, 0, -14)

	repo := &fakeRepo{
		devs: []domain.Dev{{ID: 1, Name: "Ana"}},
		demands: []domain.Demand{
			{ID: 1, Title: "Checkout v2", Category: "produto"},
			{ID: 2, Title: "Chamados"},
		},
		deliveries: []domain.Delivery{{ID: 1, Title: "Release 1.4"}},
		highlights: []domain.Highlight{
			{ID: 1, Type: domain.HighlightBlockers, Text: "Ambiente de staging fora"},
		},
		tasks: []domain.TimelineTaskView{
			taskView("Tarefa atual", 50, currentWeek.AddDate(0, 0, 2), []string{"Ana"}, []int64{1}),
			taskView("Tarefa passada", 100, previousWeek, []string{"Ana"}, []int64{1}),
			// outside the three windows: must not appear anywhere
			taskView("Tarefa antiga", 100, twoWeeksAgo, []string{"Ana"}, []int64{1}),
		},
		entries: []domain.ConfigEntry{
			{Key: "priorities", Value: json.RawMessage(`["Checkout v2"]`)},
		},
	}
	svc := newTestService(repo)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	// timeline buckets hold only their own week, every task tagged
	require.Len(t, d.Timeline.CurrentWeek.Tasks, 1)
	assert.Equal(t, "Tarefa atual", d.Timeline.CurrentWeek.Tasks[0].Title)
	assert.Equal(t, "current", d.Timeline.CurrentWeek.Tasks[0].WeekType)
	require.Len(t, d.Timeline.PreviousWeek.Tasks, 1)
	assert.Equal(t, "previous", d.Timeline.PreviousWeek.Tasks[0].WeekType)
	assert.Empty(t, d.Timeline.UpcomingWeek.Tasks)
	assert.Equal(t, "08/06 - 14/06", d.Timeline.CurrentWeek.Label)

	// devs come back enriched; the out-of-window task is invisible to summaries
	assert.Equal(t, "Tarefa atual (50%)", d.Devs[0].ThisWeek)
	assert.Equal(t, "Tarefa passada - Concluído", d.Devs[0].LastWeek)
	assert.Equal(t, "Sem atividades", d.Devs[0].NextWeek)

	// demands grouped by category, empty category falls into geral
	assert.Len(t, d.Demands["produto"], 1)
	assert.Len(t, d.Demands["geral"], 1)

	// all three highlight keys exist even when empty
	assert.Len(t, d.Highlights[domain.HighlightBlockers], 1)
	assert.Empty(t, d.Highlights[domain.HighlightAchievements])
	assert.Empty(t, d.Highlights[domain.HighlightImportant])

	// stored config overlays the defaults
	assert.Equal(t, []any{"Checkout v2"}, d.Config["priorities"])
	assert.Equal(t, "Semana de 08/06 - 14/06", d.Config["week"])
	assert.Equal(t, "01/06 - 07/06", d.Config["previousWeek"])
}

func TestDashboardPropagatesFetchError(t *testing.T) {
	repo := &failingRepo{fakeRepo: fakeRepo{devs: []domain.Dev{{ID: 1, Name: "Ana"}}}}
	svc := newTestService(repo)

	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
}

type failingRepo struct{ fakeRepo }

func (f *failingRepo) ListDemands(ctx context.Context) ([]domain.Demand, error) {
	return nil, assert.AnError
}
