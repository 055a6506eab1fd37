// Package server assembles the HTTP router and runs it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"apartments/internal/config"
	"apartments/internal/imagestore"
	"apartments/internal/middleware"
	"apartments/internal/modules/amenity"
	"apartments/internal/modules/apartment"
	"apartments/internal/modules/image"
	"apartments/internal/modules/statistics"
	"apartments/internal/pkg/response"
	"apartments/internal/resource"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB     *gorm.DB
	Store  imagestore.Store
	Log    *zap.Logger
	Config *config.Config
}

func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log.Named("http")),
		middleware.Recovery(log),
		middleware.Debug(cfg.AppDebug),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.MsgRouteNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, response.MsgMethodNotAllowed)
	})

	if local, ok := deps.Store.(*imagestore.Local); ok {
		r.GET(local.URLBase()+"/*filepath", gin.WrapH(local.StaticHandler()))
	}

	apartmentService := apartment.NewService(deps.DB, deps.Store, log)
	imageService := image.NewService(deps.DB, apartmentService, func(err error) bool {
		return errors.Is(err, apartment.ErrNotFound)
	}, deps.Store, log)
	amenityService := amenity.NewService(deps.DB, log)
	statisticsService := statistics.NewService(deps.DB)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health(cfg.AppVersion))

		apartment.NewHandler(apartmentService).RegisterRoutes(v1)
		image.NewHandler(imageService).RegisterRoutes(v1)
		amenity.NewHandler(amenityService).RegisterRoutes(v1)
		statistics.NewHandler(statisticsService).RegisterRoutes(v1)
	}

	return r
}

func health(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "API is running",
			"version":   version,
			"timestamp": time.Now().UTC().Format(resource.DateTimeLayout),
		})
	}
}

// Run serves h on addr until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func Run(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
