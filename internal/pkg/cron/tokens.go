package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenRevocations is the part of the jwt service the purge job needs.
type TokenRevocations interface {
	PurgeExpired(now time.Time) int
}

type TokenJobs struct {
	revocations TokenRevocations
	now         func() time.Time
}

func NewTokenJobs(revocations TokenRevocations) *TokenJobs {
	return &TokenJobs{revocations: revocations, now: time.Now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_revoked_tokens", 15*time.Minute, j.PurgeExpiredRevokedTokens)
}

// PurgeExpiredRevokedTokens keeps the logout list bounded by token lifetime.
func (j *TokenJobs) PurgeExpiredRevokedTokens(ctx context.Context) error {
	purged := j.revocations.PurgeExpired(j.now())
	if purged > 0 {
		slog.Info("Cron: purged expired revoked tokens", "count", purged)
	}
	return nil
}
