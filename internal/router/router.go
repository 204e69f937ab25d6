package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"truetimer/backend/internal/handler"
	"truetimer/backend/internal/metrics"
	"truetimer/backend/internal/middleware"
)

const apiPrefix = "/api"

func New(
	userHandler *handler.UserHandler,
	timerHandler *handler.TimerHandler,
	corsOrigins []string,
	log *zap.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(corsOrigins),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Deployments behind a proxy that strips /api and direct clients share
	// one route table.
	for _, prefix := range []string{"", apiPrefix} {
		register(engine.Group(prefix), userHandler, timerHandler)
	}

	return engine
}

func register(group *gin.RouterGroup, userHandler *handler.UserHandler, timerHandler *handler.TimerHandler) {
	group.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	group.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "You are now connected to the true-timer API"})
	})

	users := group.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("/:user_id", userHandler.Get)
	users.DELETE("/:user_id", userHandler.Delete)

	standard := group.Group("/standard")
	standard.Use(middleware.RequireUserID())
	standard.POST("", timerHandler.Create)
	standard.GET("", timerHandler.List)
	standard.GET("/status/:timer_id", timerHandler.Status)
	standard.POST("/start/:timer_id", timerHandler.Start)
	standard.POST("/pause/:timer_id", timerHandler.Pause)
	standard.POST("/resume/:timer_id", timerHandler.Resume)
	standard.POST("/end/:timer_id", timerHandler.End)
}
