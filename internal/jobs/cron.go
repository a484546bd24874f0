package jobs

import (
	"context"
	"time"

	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type service interface {
	SyncJira(ctx context.Context) error
}

type locker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
	AdvisoryUnlock(ctx context.Context, key int64) error
}

type Cron struct {
	cfg  config.Config
	log  zerolog.Logger
	svc  service
	repo locker
	c    *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service, repo domain.Repository) *Cron {
	loc, _ := time.LoadLocation(cfg.TZ)
	c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
	cr := &Cron{cfg: cfg, log: log, svc: svc, repo: repo, c: c}
	_, _ = c.AddFunc(cfg.SyncCron, cr.syncJira)
	return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) syncJira() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	const lockKey int64 = 731942
	ok, err := cr.repo.TryAdvisoryLock(ctx, lockKey)
	if err != nil {
		cr.log.Error().Err(err).Msg("cron: lock error")
		return
	}
	if !ok {
		cr.log.Info().Msg("cron: sync already running elsewhere")
		return
	}
	defer func() { _ = cr.repo.AdvisoryUnlock(context.Background(), lockKey) }()
	cr.log.Info().Msg("cron: jira sync")
	if err := cr.svc.SyncJira(ctx); err != nil {
		cr.log.Error().Err(err).Msg("cron: jira sync failed")
	}
}
