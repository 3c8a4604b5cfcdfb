package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/services"
)

// API holds dependencies for API handlers, primarily the fingerprinting engine.
type API struct {
	engine services.Engine
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.Engine) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all the API routes.
func SetupRoutes(router *gin.Engine, engine services.Engine) {
	apiHandler := NewAPI(engine)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/settings", apiHandler.GetSettingsHandler)

	// Stateless fingerprinting of arbitrary text
	router.POST("/fingerprints", apiHandler.FingerprintTextHandler)

	docRoutes := router.Group("/documents")
	{
		docRoutes.POST("", apiHandler.AddDocumentsHandler)                            // Register one or more documents
		docRoutes.GET("", apiHandler.ListDocumentsHandler)                            // List document metadata
		docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)                  // Get a document with its text
		docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler)            // Delete a document
		docRoutes.GET("/:documentId/fingerprints", apiHandler.GetFingerprintsHandler) // Get cached fingerprints
	}

	comparisonRoutes := router.Group("/comparisons")
	{
		comparisonRoutes.POST("", apiHandler.CompareHandler)            // Compare two documents
		comparisonRoutes.POST("/batch", apiHandler.CompareBatchHandler) // Compare many pairs in a background job
	}

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
		jobRoutes.DELETE("/:jobId", apiHandler.CancelJobHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-winnow",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"documents": len(api.engine.ListDocuments()),
	})
}

// GetSettingsHandler returns the fingerprint settings and cache counters.
func (api *API) GetSettingsHandler(c *gin.Context) {
	settings := api.engine.Settings()
	c.JSON(http.StatusOK, gin.H{
		"settings":  settings,
		"signature": settings.Signature(),
		"cache":     api.engine.CacheStats(),
	})
}
