// Package backup writes an audit copy of every rendered PDF to a flat
// directory. Backups are write-once and never read back by the running
// service; a failed write is logged and reported, never fatal.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Brayaaan/Finbot/internal/logger"
)

var (
	unsafeChars   = regexp.MustCompile(`[<>:"/\\|?*]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// SanitizeFilename makes an invoice number safe to embed in a file name:
// filesystem-hostile characters become underscores, runs collapse, and
// leading/trailing underscores are trimmed.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// Sink persists rendered documents for external audit.
type Sink interface {
	// Write stores the PDF under a name derived from the invoice number
	// and returns the backup id.
	Write(invoiceNumber string, pdf []byte) (string, error)

	// Count reports how many PDF backups exist on disk.
	Count() (int, error)
}

// FileSink writes backups into a single directory.
type FileSink struct {
	dir string
	now func() time.Time
	log zerolog.Logger
}

// NewFileSink creates the backup directory if needed and returns a sink
// writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	return NewFileSinkWithClock(dir, time.Now)
}

// NewFileSinkWithClock injects the clock used for the filename timestamp.
func NewFileSinkWithClock(dir string, now func() time.Time) (*FileSink, error) {
	const op = "NewFileSink"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: creating backup directory %s: %w", op, dir, err)
	}

	log := logger.WithComponent("backup")
	log.Info().Str("backup_dir", dir).Msg("Backup directory ready")

	return &FileSink{dir: dir, now: now, log: log}, nil
}

// Dir returns the backup directory path.
func (s *FileSink) Dir() string {
	return s.dir
}

// Write stores the PDF as {timestamp}_{8-char id}_{sanitized number}.pdf
// and returns the id.
func (s *FileSink) Write(invoiceNumber string, pdf []byte) (string, error) {
	const op = "Write"

	if invoiceNumber == "" {
		invoiceNumber = "unknown"
	}

	backupID := uuid.New().String()[:8]
	filename := fmt.Sprintf("%s_%s_%s.pdf",
		s.now().Format("20060102_150405"),
		backupID,
		SanitizeFilename(invoiceNumber),
	)
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("%s: writing backup %s: %w", op, path, err)
	}

	s.log.Info().
		Str("invoice_number", invoiceNumber).
		Str("backup_id", backupID).
		Str("file", filename).
		Msg("Backup created")

	return backupID, nil
}

// Count returns the number of PDF files in the backup directory.
func (s *FileSink) Count() (int, error) {
	const op = "Count"

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("%s: reading backup directory: %w", op, err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".pdf") {
			count++
		}
	}
	return count, nil
}
