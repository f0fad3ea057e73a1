package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// JanitorInterval is how often expired auth rows are removed
	JanitorInterval = 5 * time.Minute
)

// Janitor removes expired sessions, OAuth states and idle rate-limit buckets
// in the background.
type Janitor struct {
	sessions *SessionStore
	states   *OAuthStateStore
	limiter  *RateLimiter
	interval time.Duration
	logger   *zerolog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewJanitor(sessions *SessionStore, states *OAuthStateStore, limiter *RateLimiter, logger *zerolog.Logger) *Janitor {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Janitor{
		sessions: sessions,
		states:   states,
		limiter:  limiter,
		interval: JanitorInterval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the cleanup loop until ctx ends or Stop is called
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-j.stopCh:
				return
			case <-ticker.C:
				j.Sweep(ctx)
			}
		}
	}()
}

// Stop gracefully stops the janitor
func (j *Janitor) Stop() {
	close(j.stopCh)
	j.wg.Wait()
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep(ctx context.Context) {
	if j.sessions != nil {
		n, err := j.sessions.CleanupExpiredSessions(ctx)
		if err != nil {
			j.logger.Warn().Err(err).Msg("session cleanup failed")
		} else if n > 0 {
			j.logger.Debug().Int64("removed", n).Msg("expired sessions removed")
		}
	}
	if j.states != nil {
		if _, err := j.states.CleanupExpiredStates(ctx); err != nil {
			j.logger.Warn().Err(err).Msg("oauth state cleanup failed")
		}
	}
	if j.limiter != nil {
		j.limiter.Prune()
	}
}
