package logviewer

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/blutspende/logviewer/config"
	"github.com/blutspende/logviewer/metrics"
	"github.com/blutspende/logviewer/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

type GinApi interface {
	Run(ctx context.Context) error
	Handler() http.Handler
}

type api struct {
	config       *config.Configuration
	engine       *gin.Engine
	logService   LogService
	logValidator LogValidator
}

// Run serves until ctx is cancelled, then drains open requests.
func (api *api) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", api.config.APIPort))
	if err != nil {
		log.Error().Err(err).Msg(ApiFailedToStartMsg)
		return err
	}
	return api.serve(ctx, listener)
}

func (api *api) serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler: api.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listener.Addr().String()).Msg(ApiStartMsg)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg(ApiFailedToStartMsg)
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg(ApiEndedGracefullyMsg)
	return nil
}

func (api *api) Handler() http.Handler {
	return api.engine
}

func NewAPI(config *config.Configuration, logService LogService, logValidator LogValidator) GinApi {
	return newAPI(gin.New(), config, logService, logValidator)
}

func newAPI(engine *gin.Engine, config *config.Configuration, logService LogService, logValidator LogValidator) *api {
	if config.LogLevel <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	if config.EnableMetrics {
		engine.Use(metrics.Middleware())
	}

	api := &api{
		config:       config,
		engine:       engine,
		logService:   logService,
		logValidator: logValidator,
	}

	corsMiddleWare := middleware.CreateCorsMiddleware(config)
	engine.Use(corsMiddleWare)

	root := engine.Group("")
	root.GET("/health", api.GetHealth)
	if config.EnableMetrics {
		root.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	logsGroup := root.Group("/logs")
	{
		logsGroup.GET("", api.GetLogs)
		logsGroup.POST("", api.CreateLog)
		logsGroup.DELETE("", api.DeleteAllLogs)
		logsGroup.DELETE("/:id", api.DeleteLog)
	}

	// Development-option enables debugger, this can have side-effects
	if config.Development {
		debug := root.Group("/debug/pprof")
		{
			debug.GET("/", gin.WrapF(pprof.Index))
			debug.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			debug.GET("/profile", gin.WrapF(pprof.Profile))
			debug.GET("/symbol", gin.WrapF(pprof.Symbol))
			debug.GET("/trace", gin.WrapF(pprof.Trace))
			debug.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			debug.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			debug.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			debug.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
			debug.POST("/symbol", gin.WrapF(pprof.Symbol))
		}
	}

	return api
}
