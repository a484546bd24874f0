/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/lucsmac/team-dashboard/internal/services"
	"github.com/lucsmac/team-dashboard/internal/week"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo embeds the interface; tests only exercise the methods below.
type stubRepo struct {
	domain.Repository

	devs         []domain.Dev
	demands      []domain.Demand
	deliveries   []domain.Delivery
	highlights   []domain.Highlight
	tasks        []domain.TimelineTaskView
	entries      []domain.ConfigEntry
	integrations []domain.JiraIntegration
}

func (s *stubRepo) ListDevs(ctx context.Context) ([]domain.Dev, error) { return s.devs, nil }
func (s *stubRepo) CreateDev(ctx context.Context, d *domain.Dev) error {
	d.ID = int64(len(s.devs) + 1)
	s.devs = append(s.devs, *d)
	return nil
}
func (s *stubRepo) GetDev(ctx context.Context, id int64) (*domain.Dev, error) {
	for _, d := range s.devs {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (s *stubRepo) ListDemands(ctx context.Context) ([]domain.Demand, error) { return s.demands, nil }
func (s *stubRepo) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return s.deliveries, nil
}
func (s *stubRepo) ListHighlights(ctx context.Context) ([]domain.Highlight, error) {
	return s.highlights, nil
}
func (s *stubRepo) ListTaskViews(ctx context.Context) ([]domain.TimelineTaskView, error) {
	return s.tasks, nil
}
func (s *stubRepo) ListConfig(ctx context.Context) ([]domain.ConfigEntry, error) {
	return s.entries, nil
}
func (s *stubRepo) ListJiraIntegrations(ctx context.Context) ([]domain.JiraIntegration, error) {
	return s.integrations, nil
}

func newTestRouter(repo domain.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{AppEnv: "test"}
	log := zerolog.Nop()
	return NewRouter(cfg, log, services.New(cfg, log, repo))
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, newTestRouter(&stubRepo{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateDev(t *testing.T) {
	r := newTestRouter(&stubRepo{})

	w := doRequest(t, r, http.MethodPost, "/api/devs", `{"color":"#fff"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/devs", `{"name":"Ana","role":"backend"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var dev domain.Dev
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dev))
	assert.Equal(t, int64(1), dev.ID)
	assert.Equal(t, "Ana", dev.Name)
}

func TestGetDevNotFound(t *testing.T) {
	r := newTestRouter(&stubRepo{})

	w := doRequest(t, r, http.MethodGet, "/api/devs/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/devs/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDevsEmptyIsArray(t *testing.T) {
	w := doRequest(t, newTestRouter(&stubRepo{}), http.MethodGet, "/api/devs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestDashboard(t *testing.T) {
	// build dates relative to the real clock so classification is stable
	currentStart, _ := week.Bounds(time.Now())
	repo := &stubRepo{
		devs: []domain.Dev{{ID: 1, Name: "Ana"}},
		tasks: []domain.TimelineTaskView{
			{
				TimelineTask: domain.TimelineTask{
					ID: 1, Title: "Tarefa atual", Progress: 40,
					WeekStart: currentStart.AddDate(0, 0, 1),
					WeekEnd:   currentStart.AddDate(0, 0, 6),
				},
				DevIDs:    []int64{1},
				Assignees: []string{"Ana"},
			},
			{
				TimelineTask: domain.TimelineTask{
					ID: 2, Title: "Tarefa antiga", Progress: 100,
					WeekStart: currentStart.AddDate(0, 0, -21),
					WeekEnd:   currentStart.AddDate(0, 0, -15),
				},
				DevIDs:    []int64{1},
				Assignees: []string{"Ana"},
			},
		},
	}

	w := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Devs       []domain.Dev                  `json:"devs"`
		Highlights map[string][]domain.Highlight `json:"highlights"`
		Timeline   struct {
			CurrentWeek struct {
				Tasks []domain.TimelineTaskView `json:"tasks"`
			} `json:"currentWeek"`
			PreviousWeek struct {
				Tasks []domain.TimelineTaskView `json:"tasks"`
			} `json:"previousWeek"`
		} `json:"timeline"`
		Config map[string]any `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))

	require.Len(t, payload.Timeline.CurrentWeek.Tasks, 1)
	assert.Equal(t, "current", payload.Timeline.CurrentWeek.Tasks[0].WeekType)
	assert.Empty(t, payload.Timeline.PreviousWeek.Tasks)

	assert.Equal(t, "Tarefa atual (40%)", payload.Devs[0].ThisWeek)

	// the three highlight keys are always serialized
	assert.Contains(t, payload.Highlights, "blockers")
	assert.Contains(t, payload.Highlights, "achievements")
	assert.Contains(t, payload.Highlights, "important")
	assert.Contains(t, payload.Config, "currentWeek")
}

func TestListJiraIntegrationsRedactsToken(t *testing.T) {
	repo := &stubRepo{integrations: []domain.JiraIntegration{
		{ID: 1, Name: "core", JiraURL: "https://x.atlassian.net", Email: "a@b.c", APIToken: "super-secret"},
	}}

	w := doRequest(t, newTestRouter(repo), http.MethodGet, "/api/jira/integrations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret")
	assert.Contains(t, w.Body.String(), `"apiToken":"***"`)
}

func TestListAllocationsBadQuery(t *testing.T) {
	r := newTestRouter(&stubRepo{})

	w := doRequest(t, r, http.MethodGet, "/api/dev-allocations?devId=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/dev-allocations?weekStart=2025-06-08", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
