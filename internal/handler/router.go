package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"property-assistant/internal/config"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterDeps are the handlers and settings the router is built from
type RouterDeps struct {
	Chat     *ChatHandler
	Property *PropertyHandler
	Schedule *ScheduleHandler
	Admin    *AdminHandler
	Server   config.ServerConfig
	Build    BuildInfo
	Logger   *zap.Logger
}

// NewRouter wires all HTTP routes
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(deps.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(deps.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(deps.Server.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 0 || corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "property-assistant",
			"version":    deps.Build.Version,
			"build_time": deps.Build.BuildTime,
			"git_commit": deps.Build.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    deps.Build.Version,
			"build_time": deps.Build.BuildTime,
			"git_commit": deps.Build.GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Chat endpoints
		apiV1.POST("/chat", deps.Chat.Chat)
		apiV1.POST("/chat/stream", deps.Chat.ChatStream)
		apiV1.POST("/chat/sessions", deps.Chat.CreateSession)
		apiV1.GET("/chat/sessions", deps.Chat.ListSessions)
		apiV1.DELETE("/chat/sessions/:id", deps.Chat.DeleteSession)
		apiV1.GET("/chat/sessions/:id/preferences", deps.Chat.GetPreferences)
		apiV1.PUT("/chat/sessions/:id/preferences", deps.Chat.UpdatePreferences)
		apiV1.DELETE("/chat/sessions/:id/preferences", deps.Chat.ClearPreferences)
		apiV1.GET("/chat/sessions/:id/stats", deps.Chat.Stats)

		// Property endpoints
		apiV1.GET("/properties", deps.Property.List)
		apiV1.GET("/properties/search", deps.Property.Search)
		apiV1.GET("/properties/:id", deps.Property.Get)
		apiV1.POST("/properties/details", deps.Property.Details)
		apiV1.POST("/properties/nearby", deps.Property.Nearby)

		// Schedule endpoint
		apiV1.POST("/schedule", deps.Schedule.Create)

		// Admin endpoints
		admin := apiV1.Group("/admin")
		admin.POST("/reload", deps.Admin.Reload)
		admin.POST("/upload", deps.Admin.Upload)
		admin.GET("/schedules", deps.Schedule.List)
		admin.PUT("/schedules/:id", deps.Schedule.Update)
		admin.DELETE("/schedules/:id", deps.Schedule.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	return router
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
