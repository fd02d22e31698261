// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	apiauthfeature "github.com/dalemusser/taskhub/internal/app/features/apiauth"
	authgooglefeature "github.com/dalemusser/taskhub/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/taskhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/taskhub/internal/app/features/health"
	homefeature "github.com/dalemusser/taskhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/taskhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/taskhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/taskhub/internal/app/features/projects"
	tasksfeature "github.com/dalemusser/taskhub/internal/app/features/tasks"
	"github.com/dalemusser/taskhub/internal/app/store/oauthstate"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// TaskHub mounts two trees off one set of feature handlers: the browser tree
// (sessions + CSRF) and the /api tree (bearer tokens + JSON). The respond
// package keys its rendering mode off which tree a request came in on.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.TaskHubMongoDatabase

	// Fetch fresh user data on each request so role changes take effect
	// without re-login.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	issuer, err := token.NewIssuer(appCfg.JWTSecret, appCfg.AccessTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	users := userstore.New(db)
	projects := projectstore.New(db)
	tasks := taskstore.New(db)
	oauthStates := oauthstate.New(db)

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, googleEnabled, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	googleHandler := authgooglefeature.NewHandler(users, sessionMgr, errLog, oauthStates, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	apiAuthHandler := apiauthfeature.NewHandler(users, issuer, appCfg.RefreshTTL, logger)
	projectsHandler := projectsfeature.NewHandler(projects, tasks, users, errLog, logger)
	tasksHandler := tasksfeature.NewHandler(tasks, projects, users, errLog, logger)
	homeHandler := homefeature.NewHandler(logger)
	healthHandler := healthfeature.NewHandler(deps.TaskHubMongoClient, logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	r.Get("/health", healthHandler.Serve)

	// Browser tree: session auth plus CSRF protection on every form post.
	r.Group(func(web chi.Router) {
		web.Use(csrf.Protect([]byte(appCfg.SessionKey),
			csrf.Secure(secure),
			csrf.Path("/"),
		))
		web.Use(sessionMgr.LoadSessionUser)

		web.Get("/", homeHandler.ServeRoot)

		web.Mount("/login", loginfeature.Routes(loginHandler))
		web.Mount("/register", loginfeature.RegisterRoutes(loginHandler))
		web.Get("/logout", logoutHandler.ServeLogout)
		web.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		web.Get("/forbidden", errorsHandler.Forbidden)
		web.Get("/unauthorized", errorsHandler.Unauthorized)

		web.Mount("/projects", projectsfeature.WebRoutes(projectsHandler, sessionMgr))
		web.Mount("/tasks", tasksfeature.WebRoutes(tasksHandler, sessionMgr))
	})

	// API tree: JSON in, JSON out, bearer tokens, no CSRF.
	r.Route("/api", func(api chi.Router) {
		api.Use(respond.APIMode)
		api.Use(apiCORS)

		api.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		api.Mount("/auth", apiauthfeature.Routes(apiAuthHandler, issuer))

		api.Group(func(pr chi.Router) {
			pr.Use(auth.RequireBearer(issuer))
			pr.Mount("/projects", projectsfeature.APIRoutes(projectsHandler))
			pr.Mount("/tasks", tasksfeature.APIRoutes(tasksHandler))
		})
	})

	return r, nil
}

// apiCORS answers preflight requests and marks API responses as
// cross-origin readable. Token auth means no cookie-based ambient
// authority leaks through the wildcard.
func apiCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
