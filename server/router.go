package server

import (
	"time"

	"media-catalog/infrastructure/realtime"
	httpHandler "media-catalog/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	videoHandler httpHandler.IVideoHandler,
	healthHandler httpHandler.IHealthHandler,
	catalogHub *realtime.Hub,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")

	videos := api.Group("/videos")
	{
		videos.GET("", videoHandler.ListVideos)
		videos.POST("", videoHandler.PublishVideo)
		videos.GET("/:videoId", videoHandler.GetVideoByID)
		videos.PATCH("/:videoId", videoHandler.UpdateVideo)
		videos.DELETE("/:videoId", videoHandler.DeleteVideo)
		videos.PATCH("/:videoId/toggle-publish", videoHandler.TogglePublishStatus)

		// SSE stream of catalog mutation events
		if catalogHub != nil {
			videos.GET("/stream", func(c *gin.Context) { catalogHub.Serve(c) })
		}
	}

	return router
}
