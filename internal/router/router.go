package router

import (
	"github.com/gin-gonic/gin"

	"mediabrief/internal/handler"
	"mediabrief/internal/metrics"
	"mediabrief/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	importH *handler.ImportHandler,
	catalogH *handler.CatalogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")

	// Briefs
	briefs := v1.Group("/briefs/:briefId")
	briefs.POST("/imports", importH.Extract)
	briefs.GET("/items", importH.Cart)

	// Import sessions
	imports := v1.Group("/imports/:id")
	imports.GET("", importH.Get)
	imports.POST("/reextract", importH.Reextract)
	imports.PUT("/buffer", importH.SetBuffer)
	imports.POST("/selection/:candidateId/toggle", importH.Toggle)
	imports.POST("/selection/all", importH.SelectAll)
	imports.DELETE("/selection", importH.DeselectAll)
	imports.POST("/confirm", importH.Confirm)
	imports.POST("/cancel", importH.Cancel)
	imports.GET("/export.csv", importH.ExportCSV)

	// Catalog lookups
	cat := v1.Group("/catalog")
	cat.GET("/publishers", catalogH.Publishers)
	cat.GET("/placements", catalogH.Placements)

	return r
}
