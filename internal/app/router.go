package app

import (
	"context"
	"net/http"
	"time"

	"github.com/codegrapher/graphers/handlers"
	"github.com/codegrapher/graphers/internal/candidate/handler"
	"github.com/codegrapher/graphers/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var startTime = time.Now()

// NewRouter mounts every route on a fresh engine.
func NewRouter(a *App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is running"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps, ready := a.Ready(ctx)
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	auth := middleware.AuthMiddleware(a.Users)
	handlers.NewAuthHandler(a.Users).Register(r, auth)

	var timeout time.Duration
	if a.Config != nil {
		timeout = a.Config.Export.Timeout
	}
	handler.RegisterRoutes(r.Group("/candidate", auth), a.Candidates, a.Exporter, timeout)
	return r
}
