package server

import (
	"address-api/internal/handler"

	_ "address-api/docs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires the HTTP routes onto a gin engine.
func NewRouter(addresses *handler.AddressHandler, health *handler.HealthHandler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger))

	r.GET("/health", health.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	group := r.Group("/addresses")
	{
		group.GET("/", addresses.List)
		group.POST("/", addresses.Create)
		group.GET("/distance/", addresses.WithinDistance)
		group.GET("/:id", addresses.Get)
		group.PUT("/:id", addresses.Update)
		group.DELETE("/:id", addresses.Delete)
	}

	return r
}
