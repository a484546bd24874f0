/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "a@b.c", "tok", 5*time.Second, zerolog.Nop())
}

func TestMyself(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"displayName": "Ana Lima"})
	})

	name, err := c.Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", name)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.c:tok"))
	assert.Equal(t, want, gotAuth)
}

func TestMyselfRetriesOn5xx(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"displayName": "Ana Lima"})
	})

	name, err := c.Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", name)
	assert.Equal(t, 2, calls)
}

func TestMyselfNoRetryOn401(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Myself(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func issue(status string) map[string]any {
	return map[string]any{
		"fields": map[string]any{
			"status": map[string]any{"name": status},
		},
	}
}

func TestProjectMetrics(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		jql := r.URL.Query().Get("jql")
		assert.Contains(t, jql, `project = "CORE"`)
		assert.Contains(t, jql, "issuetype in (Story, Task, Bug)")
		json.NewEncoder(w).Encode(map[string]any{
			"issues": []any{
				issue("Backlog"),
				issue("Em andamento"),
				issue("In Progress"),
				issue("Done"),
				issue("Concluído"),
				issue("Algum estado exótico"), // unknown statuses land in backlog
			},
		})
	})

	m, err := c.ProjectMetrics(context.Background(), "CORE")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Backlog)
	assert.Equal(t, 2, m.InProgress)
	assert.Equal(t, 2, m.Completed)
	assert.Equal(t, 6, m.Total)
}

func TestProjectMetricsPaging(t *testing.T) {
	pages := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		startAt := r.URL.Query().Get("startAt")
		issues := make([]any, 0, 50)
		if startAt == "" || startAt == "0" {
			for i := 0; i < 50; i++ {
				issues = append(issues, issue("To Do"))
			}
		} else {
			assert.Equal(t, "50", startAt)
			issues = append(issues, issue("Done"))
		}
		json.NewEncoder(w).Encode(map[string]any{"issues": issues})
	})

	m, err := c.ProjectMetrics(context.Background(), "CORE")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.Equal(t, 51, m.Total)
	assert.Equal(t, 50, m.Backlog)
	assert.Equal(t, 1, m.Completed)
}

func TestProjectMetricsEmptyKey(t *testing.T) {
	c := NewClient("https://x.atlassian.net", "a@b.c", "tok", time.Second, zerolog.Nop())
	_, err := c.ProjectMetrics(context.Background(), "")
	assert.Error(t, err)
}
