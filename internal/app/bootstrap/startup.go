// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/workers"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// tokenCleanup is the background worker started here and stopped in Shutdown.
var tokenCleanup *workers.TokenCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// TaskHub promotes the configured admin account and starts the refresh token
// cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.TaskHubMongoDatabase)

	if appCfg.AdminEmail != "" {
		if err := promoteAdmin(ctx, users, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	tokenCleanup = workers.NewTokenCleanup(users, logger, appCfg.TokenCleanupInterval)
	tokenCleanup.Start()

	return nil
}

// promoteAdmin sets the admin role on the user with the configured email.
// A missing account is logged rather than treated as fatal; the user may
// simply not have registered yet.
func promoteAdmin(ctx context.Context, users *userstore.Store, email string, logger *zap.Logger) error {
	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		logger.Warn("admin bootstrap: no account with configured email yet",
			zap.String("email", email))
		return nil
	case err != nil:
		return err
	}

	if u.Role == models.RoleAdmin {
		return nil
	}

	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("admin bootstrap: promoted user to admin",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", email))
	return nil
}
