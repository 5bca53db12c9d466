// Package invoice validates and auto-completes rachunek data before it is
// rendered.
//
// Normalization never rejects an invoice. Every irregularity - a missing
// date, a missing unit, an invalid NIP - is resolved by a documented
// default and surfaced as a human-readable annotation that ends up both in
// the invoice metadata and on the rendered document. Only infrastructure
// failures (rendering, backup I/O) are allowed to become errors, and those
// happen outside this package.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Brayaaan/Finbot/internal/logger"
	"github.com/Brayaaan/Finbot/internal/nip"
	"github.com/Brayaaan/Finbot/pkg/models"
)

// FormatVersion identifies the normalization rule set stamped into every
// processed invoice.
const FormatVersion = "2.3.1"

// DateFormat is the Polish locale date layout used on the document.
const DateFormat = "02.01.2006"

// paymentDueDays is the default payment term applied when the form left
// termin_platnosci empty.
const paymentDueDays = 14

// serviceKeywords mark line items that are billed as a service rather
// than as pieces. Matched case-insensitively against the item name.
var serviceKeywords = []string{"usługa", "consulting", "konsultacja", "programowanie"}

// Normalizer applies the defaulting rules to raw invoice data.
type Normalizer struct {
	now func() time.Time
	log zerolog.Logger
}

// NewNormalizer creates a normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithClock(time.Now)
}

// NewNormalizerWithClock creates a normalizer with an injected clock so
// date defaulting is deterministic in tests.
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{
		now: now,
		log: logger.WithComponent("invoice-normalizer"),
	}
}

// Normalize validates and fixes the invoice in place and returns the
// annotations it added. The same annotations are appended to the invoice
// metadata, after any the caller already supplied, together with the
// processing date and format version.
func (n *Normalizer) Normalize(inv *models.Invoice) []string {
	var uwagi []string

	uwagi = append(uwagi, n.checkParty("sprzedawcy", true, &inv.Seller)...)
	uwagi = append(uwagi, n.checkParty("nabywcy", false, &inv.Buyer)...)
	uwagi = append(uwagi, n.fillDates(inv)...)
	uwagi = append(uwagi, n.fillItems(inv)...)

	inv.Metadata.Annotations = append(inv.Metadata.Annotations, uwagi...)
	inv.Metadata.ProcessingDate = n.now().Format("2006-01-02")
	inv.Metadata.FormatVersion = FormatVersion

	n.log.Info().
		Str("invoice_number", inv.Number).
		Int("items", len(inv.Items)).
		Int("annotations", len(uwagi)).
		Msg("Invoice normalized")

	return uwagi
}

// checkParty validates the party's NIP. An invalid NIP is flagged for
// manual verification; a seller without a NIP is assumed to operate as a
// natural person under the VAT registration exemption. A buyer without a
// NIP is an ordinary consumer and needs no annotation.
func (n *Normalizer) checkParty(genitive string, seller bool, p *models.Party) []string {
	cleaned := nip.Clean(p.NIP)
	if cleaned == "" {
		if seller {
			return []string{"Sprzedawca działa jako Osoba Fizyczna/Działalność Nierejestrowana (brak NIP/zwolnienie podmiotowe z VAT)"}
		}
		return nil
	}

	if !nip.Valid(cleaned) {
		n.log.Debug().
			Str("party", genitive).
			Str("nip", cleaned).
			Msg("NIP failed checksum")
		return []string{fmt.Sprintf("NIP %s (%s) jest niepoprawny - wymaga weryfikacji", genitive, cleaned)}
	}
	return nil
}

// fillDates defaults the three document dates in dependency order: sale
// date copies the (possibly just-defaulted) issue date, and the payment
// due date is issue date plus the standard term.
func (n *Normalizer) fillDates(inv *models.Invoice) []string {
	var uwagi []string
	today := n.now().Format(DateFormat)

	if inv.IssueDate == "" {
		inv.IssueDate = today
		uwagi = append(uwagi, "Data wystawienia uzupełniona automatycznie")
	}

	if inv.SaleDate == "" {
		inv.SaleDate = inv.IssueDate
		uwagi = append(uwagi, "Data sprzedaży/wykonania usługi uzupełniona automatycznie")
	}

	if inv.PaymentDue == "" {
		issued, err := time.Parse(DateFormat, inv.IssueDate)
		if err != nil {
			issued = n.now()
		}
		inv.PaymentDue = issued.AddDate(0, 0, paymentDueDays).Format(DateFormat)
		uwagi = append(uwagi, "Termin płatności uzupełniony automatycznie (14 dni)")
	}

	return uwagi
}

// fillItems defaults the unit and VAT rate of each line item. A missing
// VAT rate means the field was absent or null, not that it was zero; it
// defaults to 0% under the subjective VAT exemption typical for freelance
// rachunki.
func (n *Normalizer) fillItems(inv *models.Invoice) []string {
	var uwagi []string

	for i := range inv.Items {
		item := &inv.Items[i]

		if item.Unit == "" {
			name := strings.ToLower(item.Name)
			unit := "szt."
			for _, kw := range serviceKeywords {
				if strings.Contains(name, kw) {
					unit = "usługa"
					break
				}
			}
			item.Unit = unit
			uwagi = append(uwagi, fmt.Sprintf("Pozycja %d: jednostka uzupełniona jako '%s'", i+1, unit))
		}

		if !item.VATRate.Present {
			item.VATRate = models.AmountFrom(0)
			item.VATRate.Defaulted = true
			uwagi = append(uwagi, fmt.Sprintf("Pozycja %d: stawka VAT uzupełniona jako 0%% (Zwolnienie Podmiotowe)", i+1))
		}
	}

	return uwagi
}
