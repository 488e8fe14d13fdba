package handler

import (
	"net/http"
	"runtime/debug"

	"namestat/internal/controller"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter mounts the tagging and report API
func SetupRouter(repoController *controller.RepoController, logger *zap.Logger) *gin.Engine {
	router := newEngine(logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		v1.GET("/tag/:word", repoController.Tag)
		v1.POST("/report", repoController.Report)
	}
	return router
}

// SetupTaggerRouter mounts only the tagging endpoints
func SetupTaggerRouter(repoController *controller.RepoController, logger *zap.Logger) *gin.Engine {
	router := newEngine(logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		v1.GET("/tag/:word", repoController.Tag)
	}
	return router
}

func newEngine(logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(CustomRecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Next()
	}
}

func CustomRecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
