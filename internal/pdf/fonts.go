package pdf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Brayaaan/Finbot/internal/logger"
)

// FontConfig is the glyph-coverage mode the renderer runs in. It is
// resolved once at startup, not per request: either the DejaVu TTF files
// are available and the document gets full Polish diacritics, or the
// renderer falls back to the built-in Helvetica and folds diacritics to
// ASCII. The fallback degrades glyphs but never fails a request.
type FontConfig struct {
	// Family is the font family name passed to fpdf.
	Family string

	// UTF8 is true when TTF fonts are registered and text can be passed
	// through unmodified.
	UTF8 bool

	// RegularFile and BoldFile are the TTF paths, set only in UTF8 mode.
	RegularFile string
	BoldFile    string
}

// asciiFold strips Polish diacritics for the core-font fallback, whose
// encoding cannot represent them.
var asciiFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N",
	"Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
	"•", "-",
)

// Translate adapts a string to the active font's coverage.
func (c FontConfig) Translate(s string) string {
	if c.UTF8 {
		return s
	}
	return asciiFold.Replace(s)
}

// LoadFonts probes fontDir for DejaVuSans.ttf and DejaVuSans-Bold.ttf and
// returns the matching configuration.
func LoadFonts(fontDir string) FontConfig {
	log := logger.WithComponent("pdf-fonts")

	regular := filepath.Join(fontDir, "DejaVuSans.ttf")
	bold := filepath.Join(fontDir, "DejaVuSans-Bold.ttf")

	if fileExists(regular) && fileExists(bold) {
		log.Info().
			Str("font_dir", fontDir).
			Msg("DejaVuSans fonts registered, Polish glyphs available")
		return FontConfig{
			Family:      "DejaVu",
			UTF8:        true,
			RegularFile: regular,
			BoldFile:    bold,
		}
	}

	log.Warn().
		Str("font_dir", fontDir).
		Msg("DejaVuSans TTF files not found, falling back to Helvetica without Polish glyphs")
	return FontConfig{Family: "Helvetica"}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
