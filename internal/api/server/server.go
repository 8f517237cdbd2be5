package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/api/handlers"
	"github.com/chourmovs/azursmartmix-control/internal/api/middleware"
	"github.com/chourmovs/azursmartmix-control/internal/compose"
	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/containers"
	"github.com/chourmovs/azursmartmix-control/internal/icecast"
	"github.com/chourmovs/azursmartmix-control/internal/schedulerapi"
)

type Server struct {
	cfg    *config.Config
	log    *zap.Logger
	router *gin.Engine

	docker *containers.Client
	ice    *icecast.Client
	sched  *schedulerapi.Client
	runner *compose.Runner
	state  *handlers.State
}

func New(cfg *config.Config, logger *zap.Logger, docker *containers.Client, ice *icecast.Client, sched *schedulerapi.Client, runner *compose.Runner) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	s := &Server{
		cfg:    cfg,
		log:    logger,
		router: router,
		docker: docker,
		ice:    ice,
		sched:  sched,
		runner: runner,
		state:  handlers.NewState(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	panel := handlers.NewPanelHandler(s.cfg, s.log, s.docker, s.docker, s.ice, s.state)
	logs := handlers.NewLogsHandler(s.cfg, s.log, s.docker)
	env := handlers.NewEnvHandler(s.cfg, s.log, s.state)
	stack := handlers.NewStackHandler(s.cfg, s.log, s.runner, s.state)
	sched := handlers.NewSchedulerHandler(s.sched)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": "azursmartmix-control"})
	})

	api := s.router.Group(s.cfg.Server.APIPrefix)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		// Read-only surface
		api.GET("/status", panel.Runtime)
		api.GET("/logs", logs.Tail)
		api.GET("/compose/env", env.ComposeEnv)
		api.GET("/compose/engine_env", env.EngineComposeEnv)
		api.GET("/compose/scheduler_env", env.SchedulerComposeEnv)
		api.GET("/scheduler/health", sched.Health)
		api.GET("/scheduler/now", sched.NowPlaying)
		api.GET("/scheduler/upcoming", sched.Upcoming)
		api.GET("/icecast/now", panel.IcecastNow)
		api.GET("/now_playing", panel.NowPlayingUnified)

		api.GET("/panel/runtime", panel.Runtime)
		api.GET("/panel/now", panel.Now)
		api.GET("/panel/upcoming", panel.Upcoming)
		api.GET("/panel/engine_env", env.EngineEnv)
		api.GET("/panel/need_restart", panel.NeedRestart)

		// Mutating surface. JWT-protected only when a secret is
		// configured; the stack historically ran open on a trusted
		// network.
		protected := api.Group("/")
		if s.cfg.Auth.Secret != "" {
			protected.Use(middleware.RequireAuth([]byte(s.cfg.Auth.Secret)))
		}
		{
			protected.POST("/panel/engine_env", env.SaveEngineEnv)
			protected.POST("/panel/need_restart/clear", panel.ClearNeedRestart)
			protected.POST("/panel/stack/up", stack.Up)
			protected.POST("/panel/stack/down", stack.Down)
			protected.POST("/panel/stack/restart", stack.Restart)
			protected.POST("/panel/stack/update_image_cache", stack.PurgeImage)
			protected.POST("/panel/image_tag", stack.ApplyTag)
		}
	}
}

// Start runs the server on the configured address
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
