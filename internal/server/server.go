package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/kgevidence/internal/config"
	"github.com/agenthands/kgevidence/internal/core"
	"github.com/agenthands/kgevidence/internal/core/cache"
	"github.com/agenthands/kgevidence/internal/logger"
)

type CacheStats interface {
	Stats() cache.Stats
}

type Server struct {
	Engine *core.Engine
	Cache  CacheStats
	Config config.ServerConfig
	Log    *logger.Logger
}

func NewServer(engine *core.Engine, stats CacheStats, cfg config.ServerConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		Engine: engine,
		Cache:  stats,
		Config: cfg,
		Log:    log.With("component", "http"),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.Log))
	r.Use(CORS(s.Config.CORSOrigins))

	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	{
		api.POST("/recommend", s.Recommend(""))
		api.POST("/recommend/graph", s.Recommend(core.StrategyGraph))
		api.POST("/recommend/search", s.Recommend(core.StrategySearch))

		api.POST("/verify", s.Verify(""))
		api.POST("/verify/graph", s.Verify(core.StrategyGraph))
		api.POST("/verify/evidence", s.Verify(core.StrategyEvidence))
	}

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(s.Config.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.Log.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
