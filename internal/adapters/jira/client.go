/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a thin wrapper over the Jira Cloud REST API, authenticated with
// basic auth (email:token). One client per stored integration.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, email, token string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) apiURL(path string, q url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u = u + "?" + q.Encode()
	}
	return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, body any) (map[string]any, error) {
	if c.baseURL == "" {
		return nil, errors.New("jira: empty baseURL")
	}
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = b
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.email + ":" + c.token))
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var r io.Reader
		if payload != nil {
			r = strings.NewReader(string(payload))
		}
		req, err := http.NewRequestWithContext(ctx, method, u, r)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Basic "+auth)
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			if resp.StatusCode >= 300 {
				b, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				// retry on 429/5xx
				if resp.StatusCode == 429 || resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
				} else {
					return nil, fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
				}
			} else {
				var out map[string]any
				err := json.NewDecoder(resp.Body).Decode(&out)
				resp.Body.Close()
				if err != nil {
					return nil, err
				}
				return out, nil
			}
		}
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}
	return nil, lastErr
}

// Myself verifies connectivity and credentials; returns the authenticated
// user's displayName.
func (c *Client) Myself(ctx context.Context) (string, error) {
	out, err := c.doJSON(ctx, http.MethodGet, c.apiURL("/rest/api/2/myself", nil), nil)
	if err != nil {
		return "", err
	}
	name, _ := out["displayName"].(string)
	return name, nil
}

// Search runs a JQL query and returns the raw page.
func (c *Client) Search(ctx context.Context, jql string, startAt, max int) (map[string]any, error) {
	if jql == "" {
		return nil, errors.New("jira: empty jql")
	}
	q := url.Values{}
	q.Set("jql", jql)
	if startAt > 0 {
		q.Set("startAt", fmt.Sprint(startAt))
	}
	if max > 0 {
		q.Set("maxResults", fmt.Sprint(max))
	}
	q.Set("fields", "status,issuetype,summary")
	u := c.apiURL("/rest/api/2/search", q)
	return c.doJSON(ctx, http.MethodGet, u, nil)
}

// Status buckets for board metrics. Specific to this deployment's workflow;
// not configurable on purpose.
var (
	backlogStatuses    = []string{"backlog", "to do", "aberto"}
	inProgressStatuses = []string{"in progress", "em andamento", "in review", "em revisão"}
	completedStatuses  = []string{"done", "concluído", "resolved", "closed"}
)

const issueTypeFilter = `issuetype in (Story, Task, Bug)`

// BoardMetrics counts a project's issues into backlog/in-progress/completed
// buckets by paging through a JQL search with the fixed issue-type filter.
type BoardMetrics struct {
	Backlog    int `json:"backlog"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

func (c *Client) ProjectMetrics(ctx context.Context, projectKey string) (*BoardMetrics, error) {
	if projectKey == "" {
		return nil, errors.New("jira: empty project key")
	}
	jql := fmt.Sprintf(`project = %q AND %s ORDER BY updated DESC`, projectKey, issueTypeFilter)
	m := &BoardMetrics{}
	startAt := 0
	for {
		page, err := c.Search(ctx, jql, startAt, 50)
		if err != nil {
			return nil, err
		}
		issues, _ := page["issues"].([]any)
		if len(issues) == 0 {
			break
		}
		for _, it := range issues {
			im, _ := it.(map[string]any)
			if im == nil {
				continue
			}
			fields, _ := im["fields"].(map[string]any)
			status := ""
			if sm, ok := fields["status"].(map[string]any); ok {
				status, _ = sm["name"].(string)
			}
			m.Total++
			switch {
			case matchStatus(status, completedStatuses):
				m.Completed++
			case matchStatus(status, inProgressStatuses):
				m.InProgress++
			case matchStatus(status, backlogStatuses):
				m.Backlog++
			default:
				m.Backlog++
			}
		}
		if len(issues) < 50 {
			break
		}
		startAt += 50
	}
	return m, nil
}

func matchStatus(status string, bucket []string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, b := range bucket {
		if s == b {
			return true
		}
	}
	return false
}
