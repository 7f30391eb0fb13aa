// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/api/handlers"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/api/middleware"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ForecastService  *service.ForecastService
	InventoryService *service.InventoryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The dashboard calls /api directly; /api/v1 is the versioned alias.
	for _, prefix := range []string{"/api", "/api/v1"} {
		registerRoutes(router.Group(prefix), services)
	}

	return router
}

func registerRoutes(apiGroup *gin.RouterGroup, services *Services) {
	if services == nil {
		return
	}

	if services.ForecastService != nil {
		forecastHandler := handlers.NewForecastHandler(services.ForecastService)
		apiGroup.POST("/forecast", forecastHandler.Forecast)
		apiGroup.POST("/forecast/batch", forecastHandler.ForecastBatch)
		apiGroup.POST("/forecast/chart", forecastHandler.ForecastChart)
		apiGroup.POST("/trends", forecastHandler.Trends)
	}

	if services.InventoryService != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
		apiGroup.POST("/inventory-analysis", inventoryHandler.AnalyzeInventory)
		apiGroup.POST("/calculate-eoq", inventoryHandler.CalculateEOQ)
		apiGroup.GET("/calculate-eoq", inventoryHandler.CalculateEOQ)
		apiGroup.POST("/calculate-rop", inventoryHandler.CalculateROP)
		apiGroup.GET("/calculate-rop", inventoryHandler.CalculateROP)
		apiGroup.POST("/eoq-curve", inventoryHandler.EOQCurve)
	}
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
