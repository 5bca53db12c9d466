// Package pdf renders a normalized rachunek into an A4 PDF document.
//
// The layout is fixed: centered title, seller/buyer table, document
// metadata table, the nine-column line-item table with a totals row,
// an optional annotations block, and a closing summary. Rendering is
// deterministic for identical input; the embedded creation date comes
// from the record, never from the wall clock.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/Brayaaan/Finbot/internal/logger"
	"github.com/Brayaaan/Finbot/pkg/models"
)

const missing = "BRAK"
const missingParty = "BRAK DANYCH"

// Column widths of the line-item table in millimetres; together they fill
// the printable width of an A4 page with 10 mm margins.
var itemColWidths = [9]float64{8, 52, 13, 13, 22, 24, 11, 22, 25}

var itemColHeaders = [9]string{
	"LP", "NAZWA USŁUGI", "ILOŚĆ", "J.M.", "CENA NETTO",
	"WARTOŚĆ NETTO", "VAT", "KWOTA VAT", "WARTOŚĆ BRUTTO",
}

// Renderer builds rachunek PDFs with a font configuration resolved at
// startup.
type Renderer struct {
	fonts FontConfig
	log   zerolog.Logger
}

// NewRenderer creates a renderer for the given font configuration.
func NewRenderer(fonts FontConfig) *Renderer {
	return &Renderer{
		fonts: fonts,
		log:   logger.WithComponent("pdf-renderer"),
	}
}

// Render produces the document bytes for a normalized invoice. Any error
// raised while building the layout is logged and returned; the request
// that triggered it must fail.
func (r *Renderer) Render(inv *models.Invoice) ([]byte, error) {
	const op = "Render"

	doc := fpdf.New("P", "mm", "A4", "")
	// Pin both embedded timestamps and sort the resource catalogs, so
	// identical records produce identical bytes.
	pinned := creationDate(inv)
	doc.SetCreationDate(pinned)
	doc.SetModificationDate(pinned)
	doc.SetCatalogSort(true)

	if r.fonts.UTF8 {
		doc.AddUTF8Font(r.fonts.Family, "", r.fonts.RegularFile)
		doc.AddUTF8Font(r.fonts.Family, "B", r.fonts.BoldFile)
		// DejaVu ships no oblique variant here; reuse the regular face so
		// the italic summary line stays on one code path.
		doc.AddUTF8Font(r.fonts.Family, "I", r.fonts.RegularFile)
	}

	doc.AddPage()

	r.title(doc, inv)
	r.partiesTable(doc, inv)
	r.metadataTable(doc, inv)
	r.itemsTable(doc, inv)
	r.annotations(doc, inv)
	r.summary(doc, inv)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		rerr := &RenderError{Op: op, InvoiceNumber: inv.Number, Err: err}
		r.log.Error().
			Err(err).
			Str("invoice_number", inv.Number).
			Msg("PDF build failed")
		return nil, rerr
	}

	r.log.Info().
		Str("invoice_number", inv.Number).
		Int("bytes", buf.Len()).
		Msg("PDF rendered")

	return buf.Bytes(), nil
}

func (r *Renderer) title(doc *fpdf.Fpdf, inv *models.Invoice) {
	number := inv.Number
	if number == "" {
		number = missing
	}

	doc.SetFont(r.fonts.Family, "B", 16)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 10, r.tr("RACHUNEK DO UMOWY "+number), "", 1, "C", false, 0, "")
	doc.Ln(8)
}

func (r *Renderer) partiesTable(doc *fpdf.Fpdf, inv *models.Invoice) {
	const colW = 95.0

	// Inverted header row.
	doc.SetFillColor(128, 128, 128)
	doc.SetTextColor(245, 245, 245)
	doc.SetFont(r.fonts.Family, "B", 12)
	doc.CellFormat(colW, 9, r.tr("SPRZEDAWCA (WYKONAWCA):"), "1", 0, "C", true, 0, "")
	doc.CellFormat(colW, 9, r.tr("NABYWCA (ZLECENIODAWCA):"), "1", 1, "C", true, 0, "")

	// Shaded body rows.
	doc.SetFillColor(245, 245, 220)
	doc.SetTextColor(0, 0, 0)
	doc.SetFont(r.fonts.Family, "", 10)

	rows := [4][2]string{
		{orElse(inv.Seller.Name, missingParty), orElse(inv.Buyer.Name, missingParty)},
		{"NIP: " + orElse(inv.Seller.NIP, missing), "NIP: " + orElse(inv.Buyer.NIP, missing)},
		{orElse(inv.Seller.Address, missing), orElse(inv.Buyer.Address, missing)},
		{"Konto: " + orElse(inv.Seller.BankAccount, missing), ""},
	}
	for _, row := range rows {
		doc.CellFormat(colW, 7, r.tr(row[0]), "1", 0, "L", true, 0, "")
		doc.CellFormat(colW, 7, r.tr(row[1]), "1", 1, "L", true, 0, "")
	}
	doc.Ln(8)
}

func (r *Renderer) metadataTable(doc *fpdf.Fpdf, inv *models.Invoice) {
	doc.SetFont(r.fonts.Family, "", 10)

	rows := [4][2]string{
		{"Data wystawienia:", orElse(inv.IssueDate, missing)},
		{"Data sprzedaży/usługi:", orElse(inv.SaleDate, missing)},
		{"Termin płatności:", orElse(inv.PaymentDue, missing)},
		{"Sposób płatności:", orElse(inv.PaymentMethod, missing)},
	}
	for _, row := range rows {
		doc.CellFormat(55, 6, r.tr(row[0]), "", 0, "L", false, 0, "")
		doc.CellFormat(55, 6, r.tr(row[1]), "", 1, "L", false, 0, "")
	}
	doc.Ln(8)
}

func (r *Renderer) itemsTable(doc *fpdf.Fpdf, inv *models.Invoice) {
	// Header row.
	doc.SetFillColor(128, 128, 128)
	doc.SetTextColor(245, 245, 245)
	doc.SetFont(r.fonts.Family, "B", 7)
	for i, h := range itemColHeaders {
		ln := 0
		if i == len(itemColHeaders)-1 {
			ln = 1
		}
		doc.CellFormat(itemColWidths[i], 8, r.tr(h), "1", ln, "C", true, 0, "")
	}

	// Item rows. Quantity through gross value are right-aligned; money
	// cells carry two decimals and the currency suffix, the VAT column at
	// least one decimal. Missing or garbage numbers already arrive as zero.
	doc.SetFillColor(245, 245, 220)
	doc.SetTextColor(0, 0, 0)
	doc.SetFont(r.fonts.Family, "", 7)
	for i, item := range inv.Items {
		cells := [9]string{
			fmt.Sprintf("%d", i+1),
			orElse(item.Name, missing),
			item.Quantity.Value.String(),
			orElse(item.Unit, "szt."),
			money(item.UnitNetPrice),
			money(item.NetValue),
			vatRate(item.VATRate),
			money(item.VATAmount),
			money(item.GrossValue),
		}
		for c, cell := range cells {
			align := "R"
			if c < 2 {
				align = "L"
			}
			ln := 0
			if c == len(cells)-1 {
				ln = 1
			}
			doc.CellFormat(itemColWidths[c], 6, r.tr(cell), "1", ln, align, true, 0, "")
		}
	}

	// Totals row: the record's totals verbatim, never recomputed from the
	// items above.
	doc.SetFillColor(211, 211, 211)
	doc.SetFont(r.fonts.Family, "B", 8)
	totals := [9]string{
		"", "", "", "", "RAZEM:",
		money(inv.NetTotal),
		"",
		money(inv.VATTotal),
		money(inv.GrossTotal),
	}
	for c, cell := range totals {
		align := "R"
		if c < 4 {
			align = "L"
		}
		ln := 0
		if c == len(totals)-1 {
			ln = 1
		}
		doc.CellFormat(itemColWidths[c], 7, r.tr(cell), "1", ln, align, true, 0, "")
	}
	doc.Ln(10)
}

func (r *Renderer) annotations(doc *fpdf.Fpdf, inv *models.Invoice) {
	uwagi := inv.Metadata.Annotations
	if len(uwagi) == 0 {
		return
	}

	doc.SetFont(r.fonts.Family, "B", 10)
	doc.CellFormat(0, 6, r.tr("Uwagi / Informacje Dodatkowe:"), "", 1, "L", false, 0, "")

	doc.SetFont(r.fonts.Family, "", 9)
	for _, uwaga := range uwagi {
		doc.MultiCell(0, 5, r.tr("• "+uwaga), "", "L", false)
	}
	doc.Ln(6)
}

func (r *Renderer) summary(doc *fpdf.Fpdf, inv *models.Invoice) {
	doc.SetFont(r.fonts.Family, "B", 11)
	doc.CellFormat(0, 7, r.tr(fmt.Sprintf("KWOTA RACHUNKU (BRUTTO): %s", money(inv.GrossTotal))), "", 1, "L", false, 0, "")

	doc.SetFont(r.fonts.Family, "I", 10)
	doc.CellFormat(0, 6, r.tr(fmt.Sprintf("W tym: Netto: %s, VAT: %s", money(inv.NetTotal), money(inv.VATTotal))), "", 1, "L", false, 0, "")
}

func (r *Renderer) tr(s string) string {
	return r.fonts.Translate(s)
}

func money(a models.Amount) string {
	return a.StringFixed(2) + " zł"
}

// vatRate prints the rate with at least one decimal place, so a zero rate
// reads "0.0%" like the documents this layout reproduces.
func vatRate(a models.Amount) string {
	s := a.Value.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// creationDate pins the embedded PDF timestamp to the record's processing
// date so identical records produce identical bytes.
func creationDate(inv *models.Invoice) time.Time {
	if inv.Metadata.ProcessingDate != "" {
		if t, err := time.Parse("2006-01-02", inv.Metadata.ProcessingDate); err == nil {
			return t.UTC()
		}
	}
	return time.Unix(0, 0).UTC()
}
