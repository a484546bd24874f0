package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lucsmac/team-dashboard/internal/adapters/jira"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

func (s *Service) ListJiraIntegrations(ctx context.Context) ([]domain.JiraIntegration, error) {
	return s.repo.ListJiraIntegrations(ctx)
}

func (s *Service) GetJiraIntegration(ctx context.Context, id int64) (*domain.JiraIntegration, error) {
	return s.repo.GetJiraIntegration(ctx, id)
}

func validateIntegration(j *domain.JiraIntegration) error {
	if j.Name == "" {
		return invalid("name is required")
	}
	if j.JiraURL == "" {
		return invalid("jiraUrl is required")
	}
	if j.Email == "" {
		return invalid("email is required")
	}
	if j.APIToken == "" {
		return invalid("apiToken is required")
	}
	return nil
}

func (s *Service) CreateJiraIntegration(ctx context.Context, j *domain.JiraIntegration) error {
	if err := validateIntegration(j); err != nil {
		return err
	}
	return s.repo.CreateJiraIntegration(ctx, j)
}

// UpdateJiraIntegration keeps the stored token when the payload carries the
// redacted placeholder; clients echo back what they were served.
func (s *Service) UpdateJiraIntegration(ctx context.Context, j *domain.JiraIntegration) error {
	if j.APIToken == "" || j.APIToken == "***" {
		existing, err := s.repo.GetJiraIntegration(ctx, j.ID)
		if err != nil {
			return err
		}
		j.APIToken = existing.APIToken
	}
	if err := validateIntegration(j); err != nil {
		return err
	}
	return s.repo.UpdateJiraIntegration(ctx, j)
}

func (s *Service) DeleteJiraIntegration(ctx context.Context, id int64) error {
	return s.repo.DeleteJiraIntegration(ctx, id)
}

type JiraTestResult struct {
	OK   bool   `json:"ok"`
	User string `json:"user,omitempty"`
}

// TestJiraIntegration verifies credentials by calling /myself on the target
// instance.
func (s *Service) TestJiraIntegration(ctx context.Context, id int64) (*JiraTestResult, error) {
	integ, err := s.repo.GetJiraIntegration(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.jiraFor(*integ).Myself(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("integration", integ.Name).Msg("jira connectivity test failed")
		return &JiraTestResult{OK: false}, nil
	}
	return &JiraTestResult{OK: true, User: user}, nil
}

// JiraMetrics computes backlog/in-progress/completed counts for the
// integration's project.
func (s *Service) JiraMetrics(ctx context.Context, id int64) (*jira.BoardMetrics, error) {
	integ, err := s.repo.GetJiraIntegration(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.jiraFor(*integ).ProjectMetrics(ctx, integ.ProjectKey)
}

// SyncJira refreshes board metrics for every active integration, caches them
// in the config store, and stamps lastSyncAt. Called from the cron job.
func (s *Service) SyncJira(ctx context.Context) error {
	integrations, err := s.repo.ListJiraIntegrations(ctx)
	if err != nil {
		return err
	}
	var firstErr error
	for _, integ := range integrations {
		if !integ.IsActive {
			continue
		}
		metrics, err := s.jiraFor(integ).ProjectMetrics(ctx, integ.ProjectKey)
		if err != nil {
			s.log.Error().Err(err).Str("integration", integ.Name).Msg("jira sync failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		payload, err := json.Marshal(metrics)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("jiraMetrics:%s", integ.Name)
		if err := s.repo.SetConfig(ctx, key, payload); err != nil {
			return err
		}
		if err := s.repo.TouchJiraSync(ctx, integ.ID, s.now()); err != nil {
			return err
		}
		s.log.Info().Str("integration", integ.Name).Int("total", metrics.Total).Msg("jira sync ok")
	}
	return firstErr
}
