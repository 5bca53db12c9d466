// Package handlers exposes the rachunek pipeline over HTTP.
package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Brayaaan/Finbot/internal/backup"
	"github.com/Brayaaan/Finbot/internal/dashboard"
	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/internal/logger"
	"github.com/Brayaaan/Finbot/internal/pdf"
	"github.com/Brayaaan/Finbot/internal/store"
	"github.com/Brayaaan/Finbot/pkg/models"
)

// InvoiceHandler wires the normalizer, renderer, store and backup sink
// into the HTTP surface. All collaborators are injected so tests can run
// the full pipeline without global state.
type InvoiceHandler struct {
	normalizer *invoice.Normalizer
	renderer   *pdf.Renderer
	invoices   store.Store
	backups    backup.Sink
	now        func() time.Time
	log        zerolog.Logger
}

// NewInvoiceHandler creates a handler using the wall clock.
func NewInvoiceHandler(n *invoice.Normalizer, r *pdf.Renderer, s store.Store, b backup.Sink) *InvoiceHandler {
	return NewInvoiceHandlerWithClock(n, r, s, b, time.Now)
}

// NewInvoiceHandlerWithClock injects the clock stamped into responses and
// store entries.
func NewInvoiceHandlerWithClock(n *invoice.Normalizer, r *pdf.Renderer, s store.Store, b backup.Sink, now func() time.Time) *InvoiceHandler {
	return &InvoiceHandler{
		normalizer: n,
		renderer:   r,
		invoices:   s,
		backups:    b,
		now:        now,
		log:        logger.WithComponent("invoice-handler"),
	}
}

type generateRequest struct {
	// SystemInstruction is accepted for frontend compatibility but takes
	// no part in invoice processing.
	SystemInstruction string         `json:"system_instruction"`
	InvoiceData       models.Invoice `json:"invoice_data"`
}

// Generate runs the full pipeline: normalize, render, backup, store.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	inv := req.InvoiceData
	uwagi := h.normalizer.Normalize(&inv)

	pdfBytes, err := h.renderer.Render(&inv)
	if err != nil {
		// Render failures are fatal for the request; diagnostics were
		// already logged by the renderer.
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Błąd generowania PDF: " + err.Error(),
		})
		return
	}

	number := inv.Number
	if number == "" {
		number = "unknown"
	}

	// Backups are best effort: a failure is reported, never fatal.
	var backupID any
	backupCreated := false
	if id, err := h.backups.Write(number, pdfBytes); err != nil {
		h.log.Warn().
			Err(err).
			Str("invoice_number", number).
			Msg("Backup write failed, continuing without backup")
	} else {
		backupID = id
		backupCreated = true
	}

	h.invoices.Put(number, inv, pdfBytes, h.now())

	h.log.Info().
		Str("invoice_number", number).
		Int("items", len(inv.Items)).
		Int("annotations", len(uwagi)).
		Bool("backup_created", backupCreated).
		Msg("Rachunek processed")

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        "Rachunek przetworzony - gotowy do pobrania",
		"invoice_number": number,
		"totals": gin.H{
			"netto":  inv.NetTotal,
			"vat":    inv.VATTotal,
			"brutto": inv.GrossTotal,
		},
		"items_count":    len(inv.Items),
		"download_url":   "/api/invoice/" + number + "/pdf",
		"backup_created": backupCreated,
		"backup_id":      backupID,
		"timestamp":      h.now().Format(time.RFC3339),
	})
}

// DownloadPDF serves the cached document. The invoice number may contain
// slashes; the catch-all path looks like "/<number>/pdf". Lookup tries
// the percent-decoded number first and falls back to the raw form for
// callers that double-encode.
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("invoicePath"), "/")
	if !strings.HasSuffix(path, "/pdf") {
		c.JSON(http.StatusNotFound, gin.H{"error": "nie znaleziono zasobu"})
		return
	}
	raw := strings.TrimSuffix(path, "/pdf")

	number := raw
	if decoded, err := url.PathUnescape(raw); err == nil {
		number = decoded
	}

	entry, err := h.invoices.Get(number)
	if err != nil && number != raw {
		entry, err = h.invoices.Get(raw)
	}
	if err != nil {
		h.log.Debug().
			Str("invoice_number", number).
			Msg("PDF requested for unknown rachunek")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rachunek " + number + " nie znaleziony. Najpierw wygeneruj rachunek.",
		})
		return
	}

	h.log.Debug().
		Str("invoice_number", entry.Number).
		Int("bytes", len(entry.PDF)).
		Msg("Serving cached PDF")

	c.Header("Content-Disposition", "attachment; filename=rachunek_"+backup.SanitizeFilename(entry.Number)+".pdf")
	c.Data(http.StatusOK, "application/pdf", entry.PDF)
}

// Dashboard returns service status plus the aggregate financial summary.
func (h *InvoiceHandler) Dashboard(c *gin.Context) {
	backupsCount, err := h.backups.Count()
	if err != nil {
		h.log.Warn().Err(err).Msg("Could not count backups")
		backupsCount = 0
	}

	summary := dashboard.Summarize(h.invoices.List())

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "FinBot API (Rachunki)",
		"timestamp":      h.now().Format(time.RFC3339),
		"backups_count":  backupsCount,
		"version":        invoice.FormatVersion,
		"dashboard_data": summary,
	})
}

// Root is the service banner.
func (h *InvoiceHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "FinBot API działa! - Wersja " + invoice.FormatVersion + " RACHUNKI",
	})
}

// Preflight acknowledges OPTIONS requests on the invoice routes.
func (h *InvoiceHandler) Preflight(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
