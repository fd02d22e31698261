// internal/app/features/projects/handler.go
package projects

import (
	uierrors "github.com/dalemusser/taskhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Projects. The same handlers
// serve the browser tree and the /api tree; respond.IsAPI selects the
// rendering mode.
type Handler struct {
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a Projects handler bound to its stores and logger.
func NewHandler(projects *projectstore.Store, tasks *taskstore.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projects,
		Tasks:    tasks,
		Users:    users,
		Log:      logger,
		ErrLog:   errLog,
	}
}
