package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionReaperConfig holds settings for the session reaper.
type SessionReaperConfig struct {
	Interval time.Duration
	TTL      time.Duration
}

// SessionReaper periodically evicts import sessions that have not been
// touched within the TTL.
type SessionReaper struct {
	svc ImportService
	cfg SessionReaperConfig
	now func() time.Time
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(svc ImportService, cfg SessionReaperConfig) *SessionReaper {
	return &SessionReaper{svc: svc, cfg: cfg, now: time.Now}
}

// Start runs the sweep loop until ctx is canceled.
func (r *SessionReaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.cfg.Interval).Dur("ttl", r.cfg.TTL).Msg("sessionReaper: started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sessionReaper: shutdown complete")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep evicts expired sessions once and returns how many were dropped.
func (r *SessionReaper) Sweep() int {
	n := r.svc.EvictExpired(r.now().Add(-r.cfg.TTL))
	if n > 0 {
		log.Info().Int("evicted", n).Msg("sessionReaper: expired sessions evicted")
	}
	return n
}
