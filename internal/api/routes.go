package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers the ingestion webhook and the dashboard API.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.POST("/ingestPropertyData", RequireBearerToken(), handler.IngestPropertyData)

	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetAllProperties)
		api.GET("/properties/:id", handler.GetProperty)
		api.GET("/properties/:id/snapshots", handler.GetPropertySnapshots)
		api.GET("/stats", handler.GetCatalogStats)
		api.POST("/update-coordinates", handler.UpdateCoordinates)
		api.POST("/scrape", handler.RunScrape)
	}
}
