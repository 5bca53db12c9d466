package cmd

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Brayaaan/Finbot/internal/backup"
	"github.com/Brayaaan/Finbot/internal/config"
	"github.com/Brayaaan/Finbot/internal/handlers"
	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/internal/logger"
	"github.com/Brayaaan/Finbot/internal/pdf"
	"github.com/Brayaaan/Finbot/internal/routes"
	"github.com/Brayaaan/Finbot/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FinBot HTTP API",
	Long: `Start the rachunek generation service.

Endpoints:
  POST /api/invoice/generate      - validate, render and store a rachunek
  GET  /api/invoice/{number}/pdf  - download the rendered PDF
  GET  /api/dashboard             - financial summary for the dashboard

Configuration comes from the environment (a .env file is honored):
  FINBOT_ADDR  listen address (default :8000)
  BACKUP_DIR   backup directory for generated PDFs (default backups)
  FONT_DIR     directory holding DejaVuSans.ttf / DejaVuSans-Bold.ttf`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address, overrides FINBOT_ADDR")
}

func runServe(cmd *cobra.Command, args []string) error {
	const op = "runServe"
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	sink, err := backup.NewFileSink(cfg.BackupDir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Font coverage is resolved once here, not per request.
	fonts := pdf.LoadFonts(cfg.FontDir)

	handler := handlers.NewInvoiceHandler(
		invoice.NewNormalizer(),
		pdf.NewRenderer(fonts),
		store.NewMemoryStore(),
		sink,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(routes.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	routes.RegisterRoutes(r, handler)

	log.Info().
		Str("addr", cfg.Addr).
		Str("backup_dir", sink.Dir()).
		Bool("polish_glyphs", fonts.UTF8).
		Msg("FinBot API listening")

	if err := r.Run(cfg.Addr); err != nil {
		return fmt.Errorf("%s: server stopped: %w", op, err)
	}
	return nil
}
