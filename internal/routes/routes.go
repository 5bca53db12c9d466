package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Brayaaan/Finbot/internal/handlers"
)

// RegisterRoutes attaches the rachunek API to the engine. The PDF route
// uses a catch-all parameter because invoice numbers like "FV/2024/001"
// contain path separators; OPTIONS is registered on the same catch-all so
// it also covers the generate endpoint.
func RegisterRoutes(r *gin.Engine, h *handlers.InvoiceHandler) {
	r.GET("/", h.Root)

	api := r.Group("/api")
	api.GET("/dashboard", h.Dashboard)

	api.POST("/invoice/generate", h.Generate)
	api.GET("/invoice/*invoicePath", h.DownloadPDF)
	api.OPTIONS("/invoice/*invoicePath", h.Preflight)
}
