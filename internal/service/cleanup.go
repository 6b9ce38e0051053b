package service

import (
	"context"
	"time"

	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
)

type expiryPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// CleanupResult reports how many rows one sweep removed.
type CleanupResult struct {
	SessionsPurged  int64 `json:"sessions_purged"`
	BlacklistPurged int64 `json:"blacklist_purged"`
}

// CleanupService sweeps expired sessions and blacklist entries. Both
// tables are append-heavy; without the sweep they grow without bound
// since token expiry alone never deletes rows.
type CleanupService struct {
	sessions  expiryPurger
	blacklist expiryPurger
	interval  time.Duration
}

func NewCleanupService(sessions, blacklist expiryPurger, interval time.Duration) *CleanupService {
	return &CleanupService{sessions: sessions, blacklist: blacklist, interval: interval}
}

// RunOnce performs a single sweep. Partial failure still reports what
// was purged.
func (s *CleanupService) RunOnce(ctx context.Context) (*CleanupResult, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Cleanup")

	now := time.Now().UTC()
	result := &CleanupResult{}

	purged, err := s.sessions.PurgeExpired(ctx, now)
	if err != nil {
		return result, err
	}
	result.SessionsPurged = purged

	purged, err = s.blacklist.PurgeExpired(ctx, now)
	if err != nil {
		return result, err
	}
	result.BlacklistPurged = purged

	return result, nil
}

// Run sweeps on the configured interval until the context is cancelled.
// Meant to be started as a goroutine from main.
func (s *CleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.InfoWithContext(ctx, "Cleanup loop started").
		String("interval", s.interval.String()).
		Log()

	for {
		select {
		case <-ctx.Done():
			logger.InfoWithContext(ctx, "Cleanup loop stopped").Log()
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				logger.ErrorWithContext(ctx, "Cleanup sweep failed").Err(err).Log()
			}
		}
	}
}
