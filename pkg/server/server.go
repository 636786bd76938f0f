// Package server wires repositories, services and handlers into the HTTP API.
package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/audit"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/config"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/handlers"
	"github.com/ekaya-inc/campaign-engine/pkg/middleware"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
	"github.com/ekaya-inc/campaign-engine/pkg/seed"
	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// App holds the service graph shared by the HTTP server and the CLI.
type App struct {
	Users              services.UserService
	Projects           services.ProjectService
	Workflow           services.WorkflowService
	Activities         services.ActivityService
	Comments           services.CommentService
	Influencers        services.InfluencerService
	ProjectInfluencers services.ProjectInfluencerService
	Scenarios          services.ScenarioService
	Materials          services.MaterialService
	Publications       services.PublicationService
	Stats              services.StatsService

	Auth     auth.AuthService
	AuthMW   *auth.Middleware
	Sessions *auth.SessionStore
	Tokens   *auth.TokenIssuer
	Auditor  *audit.SecurityAuditor

	Tx     database.Transactor
	logger *zap.Logger
}

// NewApp builds every repository and service from cfg.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	activityRepo := repositories.NewActivityRepository()
	commentRepo := repositories.NewCommentRepository()
	influencerRepo := repositories.NewInfluencerRepository()
	projectInfluencerRepo := repositories.NewProjectInfluencerRepository()
	scenarioRepo := repositories.NewScenarioRepository()
	materialRepo := repositories.NewMaterialRepository()
	publicationRepo := repositories.NewPublicationRepository()
	statsRepo := repositories.NewStatsRepository()

	tx := database.NewTransactor()

	activities := services.NewActivityService(activityRepo, projectRepo, userRepo, tx, logger)
	workflow := services.NewWorkflowService(projectRepo, activities, tx,
		services.WorkflowOptions{StrictTransitions: cfg.Workflow.StrictTransitions}, logger)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret, cfg.Auth.CookieSecure, cfg.Auth.TokenTTL())
	authService := auth.NewAuthService(tokens, sessions, userRepo, influencerRepo, tx, logger)

	return &App{
		Users:              services.NewUserService(userRepo, logger),
		Projects:           services.NewProjectService(projectRepo, userRepo, activities, workflow, tx, logger),
		Workflow:           workflow,
		Activities:         activities,
		Comments:           services.NewCommentService(commentRepo, projectRepo, userRepo, tx, logger),
		Influencers:        services.NewInfluencerService(influencerRepo, userRepo, tx, logger),
		ProjectInfluencers: services.NewProjectInfluencerService(projectInfluencerRepo, projectRepo, influencerRepo, activities, tx, logger),
		Scenarios:          services.NewScenarioService(scenarioRepo, projectRepo, influencerRepo, activities, tx, logger),
		Materials:          services.NewMaterialService(materialRepo, projectRepo, influencerRepo, activities, tx, logger),
		Publications:       services.NewPublicationService(publicationRepo, projectRepo, influencerRepo, activities, tx, logger),
		Stats:              services.NewStatsService(statsRepo, influencerRepo, logger),

		Auth:     authService,
		AuthMW:   auth.NewMiddleware(authService, logger),
		Sessions: sessions,
		Tokens:   tokens,
		Auditor:  audit.NewSecurityAuditor(logger),

		Tx:     tx,
		logger: logger,
	}
}

// Routes returns the complete HTTP handler: every API route plus the
// recover, request logging and CORS middleware.
func (a *App) Routes(cfg *config.Config, db *database.DB) http.Handler {
	withScope := database.WithScope(db, a.logger)
	mw := handlers.RouteMiddleware{
		Public: withScope,
		Protected: func(h http.HandlerFunc) http.HandlerFunc {
			return withScope(a.AuthMW.RequireAuth(h))
		},
		Manager: func(h http.HandlerFunc) http.HandlerFunc {
			return withScope(a.AuthMW.RequireRole(models.RoleManager)(h))
		},
	}

	mux := http.NewServeMux()
	prefix := cfg.APIPrefix

	handlers.NewHealthHandler(cfg, db, a.logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(a.Auth, a.Sessions, a.Auditor, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewUsersHandler(a.Users, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewProjectsHandler(a.Projects, a.Workflow, a.Auditor, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewInfluencersHandler(a.Influencers, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewProjectInfluencersHandler(a.ProjectInfluencers, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewScenariosHandler(a.Scenarios, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewMaterialsHandler(a.Materials, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewPublicationsHandler(a.Publications, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewCommentsHandler(a.Comments, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewActivitiesHandler(a.Activities, prefix, a.logger).RegisterRoutes(mux, mw)
	handlers.NewStatsHandler(a.Stats, prefix, a.logger).RegisterRoutes(mux, mw)

	var h http.Handler = mux
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.RequestLogger(a.logger)(h)
	h = middleware.Recoverer(a.logger)(h)
	return h
}

// SeedLoader returns a loader writing through this app's services.
func (a *App) SeedLoader() *seed.Loader {
	return &seed.Loader{
		Auth:               a.Auth,
		Users:              a.Users,
		Influencers:        a.Influencers,
		Projects:           a.Projects,
		Workflow:           a.Workflow,
		ProjectInfluencers: a.ProjectInfluencers,
		Scenarios:          a.Scenarios,
		Materials:          a.Materials,
		Publications:       a.Publications,
		Comments:           a.Comments,
		Tx:                 a.Tx,
		Logger:             a.logger.Named("seed"),
	}
}
