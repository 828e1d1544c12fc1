package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AyanMustafa/Anevo/internal/api/http/handler"
	"github.com/AyanMustafa/Anevo/internal/api/http/middleware"
	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

// Router represents an HTTP router for note and account operations.
// It manages route registration and middleware configuration.
type Router struct {
	authService    handler.AuthService
	noteService    handler.NoteService
	tokens         middleware.TokenParser
	db             handler.Pinger
	registry       *prometheus.Registry
	contextManager model.ContextManager
	version        string
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
// It initializes a router with auth and note services plus the
// dependencies shared by every route.
//
// Parameters:
//   - authService: The authentication service
//   - noteService: The note management service
//   - tokens: The access token parser used by the authenticate middleware
//   - db: The database handle probed by the health endpoint
//   - registry: The Prometheus registry backing /metrics
//   - contextManager: The request context manager
//   - version: The build version reported by the root endpoint
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	authService handler.AuthService,
	noteService handler.NoteService,
	tokens middleware.TokenParser,
	db handler.Pinger,
	registry *prometheus.Registry,
	contextManager model.ContextManager,
	version string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		noteService:    noteService,
		tokens:         tokens,
		db:             db,
		registry:       registry,
		contextManager: contextManager,
		version:        version,
		logger:         logger,
	}
}

// Register registers all HTTP routes and middleware.
// It sets up the engine with request id, logging, metrics and CORS
// middleware, and guards note and account routes with authentication.
//
// Returns the configured gin engine.
func (r *Router) Register() *gin.Engine {
	requestID := middleware.NewRequestID()
	logging := middleware.NewLogging(r.logger)
	metrics := middleware.NewMetrics(r.registry)
	cors := middleware.NewCORS()
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(requestID.Handle)
	e.Use(logging.Handle)
	e.Use(metrics.Handle)
	e.Use(cors.Handle)

	r.registerSystemRoutes(e)
	r.registerAuthRoutes(e, authenticate)
	r.registerNoteRoutes(e, authenticate)

	return e
}

func (r *Router) registerSystemRoutes(e *gin.Engine) {
	systemHandler := handler.NewSystem(r.db, r.version, r.logger)

	e.GET("/", systemHandler.Root)
	e.GET("/health", systemHandler.Health)
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
}

func (r *Router) registerAuthRoutes(e *gin.Engine, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google", authHandler.Google)

	me := auth.Group("/me", authenticate.Handle)
	me.GET("", authHandler.Me)
	me.DELETE("", authHandler.DeleteMe)
}

func (r *Router) registerNoteRoutes(e *gin.Engine, authenticate *middleware.Authenticate) {
	noteHandler := handler.NewNote(r.noteService, r.contextManager, r.logger)

	notes := e.Group("/notes", authenticate.Handle)
	notes.GET("", noteHandler.List)
	notes.GET("/shared", noteHandler.ListShared)
	notes.POST("", noteHandler.Create)
	notes.GET("/:id", noteHandler.Get)
	notes.PATCH("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)
	notes.POST("/:id/share", noteHandler.Share)
	notes.DELETE("/:id/share/:username", noteHandler.Unshare)
	notes.GET("/:id/shares", noteHandler.ListShares)
}
