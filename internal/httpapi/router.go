// Package httpapi exposes the service as a JSON API under /api/v1.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xtding233/enchant-engine/internal/service"
)

// NewRouter builds the echo instance. gatherer backs /metrics and may be nil.
func NewRouter(svc *service.Service, log *slog.Logger, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.LogAttrs(c.Request().Context(), slog.LevelDebug, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	h := &Handler{svc: svc}
	api := e.Group("/api/v1")
	api.GET("/rate", h.Rate)
	api.GET("/cost", h.Cost)
	api.GET("/path", h.Path)
	api.GET("/recommend", h.Recommend)
	api.GET("/practical", h.Practical)
	api.POST("/simulate", h.Simulate)
	api.POST("/compare", h.Compare)
	api.GET("/tables", h.Tables)
	return e
}
