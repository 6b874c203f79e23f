// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/api/handlers"
	"github.com/andresuchdata/stockpulse/internal/api/middleware"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
	SampleDataPath   string
	MaxUploadBytes   int64
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			// A wildcard origin never gets credentials.
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.InventoryService != nil {
		if services.MaxUploadBytes > 0 {
			router.MaxMultipartMemory = services.MaxUploadBytes
		}
		inventoryHandler := handlers.NewInventoryHandler(services.InventoryService, services.SampleDataPath, services.MaxUploadBytes)
		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.POST("/dashboard", inventoryHandler.Dashboard)
			inventoryGroup.POST("/items", inventoryHandler.Items)
			inventoryGroup.POST("/abc", inventoryHandler.ABC)
			inventoryGroup.POST("/report", inventoryHandler.Report)
			inventoryGroup.POST("/export.csv", inventoryHandler.ExportCSV)
			inventoryGroup.GET("/sample/dashboard", inventoryHandler.SampleDashboard)
		}
	}

	return router
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
