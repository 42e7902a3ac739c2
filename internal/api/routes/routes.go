package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lectura-ai/lectura/internal/api/handlers"
	"github.com/lectura-ai/lectura/internal/api/middleware"
	"github.com/lectura-ai/lectura/internal/services"
)

type Deps struct {
	Users    services.UserService
	Sessions services.SessionService
	Analysis services.AnalysisService
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	auth := handlers.NewAuthHandler(d.Users)
	sessions := handlers.NewSessionHandler(d.Sessions)
	analysis := handlers.NewAnalysisHandler(sessions, d.Analysis)
	ws := handlers.NewWSHandler(sessions, d.Redis, d.Logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)

	authed := v1.Group("", middleware.JWTAuth())

	authed.POST("/sessions/upload", sessions.Upload)
	authed.GET("/sessions", sessions.List)
	authed.GET("/sessions/stats", sessions.Stats)
	authed.GET("/sessions/:id", sessions.Get)
	authed.GET("/sessions/:id/status", sessions.Status)
	authed.POST("/sessions/:id/retry", sessions.Retry)

	authed.GET("/sessions/:id/results", analysis.Results)
	authed.GET("/sessions/:id/search", analysis.Search)
	authed.POST("/sessions/:id/qna", analysis.Ask)
	authed.GET("/sessions/:id/qna", analysis.History)

	authed.GET("/ws/sessions/:id/status", ws.Status)

	admin := v1.Group("/admin", middleware.JWTAuth(), middleware.RequireAdmin())
	admin.GET("/sessions/stats", sessions.AdminStats)
}
