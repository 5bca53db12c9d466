package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/internal/logger"
	"github.com/Brayaaan/Finbot/internal/pdf"
	"github.com/Brayaaan/Finbot/pkg/models"
)

var renderCmd = &cobra.Command{
	Use:   "render [json-file]",
	Short: "Render a single rachunek JSON file into a PDF",
	Long: `Run the normalize-and-render pipeline on one invoice without the
HTTP server. The input file holds the same invoice_data object the API
accepts; the output is the rendered PDF.

Every auto-correction made during normalization is printed as an
annotation and embedded in the document.`,
	Example: `  # Render next to the input file
  finbot render rachunek.json

  # Explicit output path and font directory
  finbot render rachunek.json -o rachunek.pdf --font-dir ./fonts`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Output PDF path (default: input name with .pdf)")
	renderCmd.Flags().String("font-dir", "fonts", "Directory holding the DejaVuSans TTF files")
}

func runRender(cmd *cobra.Command, args []string) error {
	const op = "runRender"
	log := logger.WithComponent("render")

	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	fontDir, _ := cmd.Flags().GetString("font-dir")

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".json") + ".pdf"
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("%s: reading %s: %w", op, inputPath, err)
	}

	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return fmt.Errorf("%s: parsing %s: %w", op, inputPath, err)
	}

	uwagi := invoice.NewNormalizer().Normalize(&inv)
	for _, uwaga := range uwagi {
		fmt.Printf("  • %s\n", uwaga)
	}

	pdfBytes, err := pdf.NewRenderer(pdf.LoadFonts(fontDir)).Render(&inv)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("%s: writing %s: %w", op, outputPath, err)
	}

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("bytes", len(pdfBytes)).
		Int("annotations", len(uwagi)).
		Msg("Rachunek rendered")

	fmt.Printf("Zapisano: %s (%d bajtów)\n", outputPath, len(pdfBytes))
	return nil
}
