package api

import (
	"github.com/gin-gonic/gin"
	"roundbread-bot/internal/core/settings"
)

// SetupRoutes регистрирует административные маршруты
func SetupRoutes(router *gin.Engine, s *settings.Settings) {
	h := &handler{settings: s}

	admin := router.Group("/admin")
	{
		admin.GET("/health", h.health)
		admin.POST("/update-settings", h.updateSettings)
	}
}

func NewRouter(s *settings.Settings) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	SetupRoutes(router, s)
	return router
}
