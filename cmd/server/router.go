package main

import (
	"net/http"

	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func newRouter(log logger.ZapLogger, handlers ...routeRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return router
}
