// internal/app/system/workers/tokencleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"go.uber.org/zap"
)

// TokenCleanup is a background worker that strips expired refresh tokens
// from user records. Expired tokens are already rejected at use time; this
// keeps the stored lists from growing without bound.
type TokenCleanup struct {
	users    *userstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewTokenCleanup creates a new refresh token cleanup worker.
func NewTokenCleanup(users *userstore.Store, logger *zap.Logger, interval time.Duration) *TokenCleanup {
	return &TokenCleanup{
		users:    users,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *TokenCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("refresh token cleanup worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *TokenCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("refresh token cleanup worker stopped")
}

func (w *TokenCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *TokenCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.users.PurgeExpiredRefreshTokens(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("failed to purge expired refresh tokens", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged expired refresh tokens", zap.Int64("affected_users", count))
	}
}
