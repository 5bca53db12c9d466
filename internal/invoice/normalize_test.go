package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/pkg/models"
)

// fixedClock pins normalization to 15.03.2024 for deterministic dates.
func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

func newNormalizer() *invoice.Normalizer {
	return invoice.NewNormalizerWithClock(fixedClock)
}

func TestNormalize_DefaultsAllDates(t *testing.T) {
	inv := &models.Invoice{Number: "FV/2024/001"}

	uwagi := newNormalizer().Normalize(inv)

	assert.Equal(t, "15.03.2024", inv.IssueDate)
	assert.Equal(t, "15.03.2024", inv.SaleDate)
	assert.Equal(t, "29.03.2024", inv.PaymentDue) // issue date + 14 days

	assert.Contains(t, uwagi, "Data wystawienia uzupełniona automatycznie")
	assert.Contains(t, uwagi, "Data sprzedaży/wykonania usługi uzupełniona automatycznie")
	assert.Contains(t, uwagi, "Termin płatności uzupełniony automatycznie (14 dni)")
}

func TestNormalize_SaleDateCopiesExistingIssueDate(t *testing.T) {
	inv := &models.Invoice{IssueDate: "01.02.2024"}

	newNormalizer().Normalize(inv)

	assert.Equal(t, "01.02.2024", inv.SaleDate)
	assert.Equal(t, "15.02.2024", inv.PaymentDue)
}

func TestNormalize_PaymentDueFallsBackToClockOnBadIssueDate(t *testing.T) {
	inv := &models.Invoice{IssueDate: "not-a-date"}

	newNormalizer().Normalize(inv)

	// Unparseable issue date is left alone but the payment term counts
	// from the current date instead.
	assert.Equal(t, "not-a-date", inv.IssueDate)
	assert.Equal(t, "29.03.2024", inv.PaymentDue)
}

func TestNormalize_SellerWithoutNIP(t *testing.T) {
	inv := &models.Invoice{
		Seller: models.Party{Name: "Jan Kowalski"},
		Buyer:  models.Party{Name: "ACME", NIP: "5260001246"},
	}

	uwagi := newNormalizer().Normalize(inv)

	assert.Contains(t, uwagi,
		"Sprzedawca działa jako Osoba Fizyczna/Działalność Nierejestrowana (brak NIP/zwolnienie podmiotowe z VAT)")
	// A buyer with a valid NIP adds nothing.
	for _, u := range uwagi {
		assert.NotContains(t, u, "nabywcy")
	}
}

func TestNormalize_BuyerWithoutNIPGetsNoAnnotation(t *testing.T) {
	inv := &models.Invoice{
		Seller: models.Party{Name: "Firma", NIP: "5260001246"},
		Buyer:  models.Party{Name: "Klient indywidualny"},
	}

	uwagi := newNormalizer().Normalize(inv)

	for _, u := range uwagi {
		assert.NotContains(t, u, "NIP")
		assert.NotContains(t, u, "Osoba Fizyczna")
	}
}

func TestNormalize_InvalidNIPFlagged(t *testing.T) {
	inv := &models.Invoice{
		Seller: models.Party{Name: "Firma", NIP: "526-000-12-47"},
		Buyer:  models.Party{Name: "ACME", NIP: "1234567890"},
	}

	uwagi := newNormalizer().Normalize(inv)

	assert.Contains(t, uwagi, "NIP sprzedawcy (5260001247) jest niepoprawny - wymaga weryfikacji")
	assert.Contains(t, uwagi, "NIP nabywcy (1234567890) jest niepoprawny - wymaga weryfikacji")
}

func TestNormalize_UnitDefaulting(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{"programming is a service", "Programowanie aplikacji", "usługa"},
		{"case insensitive", "KONSULTACJA techniczna", "usługa"},
		{"consulting keyword", "Senior consulting", "usługa"},
		{"explicit service word", "Usługa graficzna", "usługa"},
		{"goods default to pieces", "Laptop Dell", "szt."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invoice{Items: []models.LineItem{{Name: tt.item}}}

			uwagi := newNormalizer().Normalize(inv)

			assert.Equal(t, tt.want, inv.Items[0].Unit)
			assert.Contains(t, uwagi[len(uwagi)-1], "Pozycja 1: jednostka uzupełniona jako '"+tt.want+"'")
		})
	}
}

func TestNormalize_ExistingUnitKept(t *testing.T) {
	inv := &models.Invoice{
		Items: []models.LineItem{{Name: "Programowanie", Unit: "godz.", VATRate: models.AmountFrom(23)}},
	}

	uwagi := newNormalizer().Normalize(inv)

	assert.Equal(t, "godz.", inv.Items[0].Unit)
	for _, u := range uwagi {
		assert.NotContains(t, u, "jednostka")
	}
}

func TestNormalize_VATRateMissingVsZero(t *testing.T) {
	missing := models.LineItem{Name: "Konsultacja"}
	explicitZero := models.LineItem{Name: "Konsultacja", VATRate: models.AmountFrom(0)}

	inv := &models.Invoice{Items: []models.LineItem{missing, explicitZero}}

	uwagi := newNormalizer().Normalize(inv)

	require.True(t, inv.Items[0].VATRate.Present)
	assert.True(t, inv.Items[0].VATRate.Defaulted)
	assert.False(t, inv.Items[1].VATRate.Defaulted)

	assert.Contains(t, uwagi, "Pozycja 1: stawka VAT uzupełniona jako 0% (Zwolnienie Podmiotowe)")
	assert.NotContains(t, uwagi, "Pozycja 2: stawka VAT uzupełniona jako 0% (Zwolnienie Podmiotowe)")
}

func TestNormalize_MetadataStamp(t *testing.T) {
	inv := &models.Invoice{
		Metadata: models.Metadata{Annotations: []string{"od klienta"}},
	}

	uwagi := newNormalizer().Normalize(inv)

	// Pre-existing annotations stay first, new ones follow.
	require.NotEmpty(t, inv.Metadata.Annotations)
	assert.Equal(t, "od klienta", inv.Metadata.Annotations[0])
	assert.Equal(t, uwagi, inv.Metadata.Annotations[1:])

	assert.Equal(t, "2024-03-15", inv.Metadata.ProcessingDate)
	assert.Equal(t, invoice.FormatVersion, inv.Metadata.FormatVersion)
}

func TestNormalize_ScenarioX1(t *testing.T) {
	inv := &models.Invoice{
		Number: "X1",
		Seller: models.Party{Name: "Jan Kowalski"},
		Buyer:  models.Party{Name: "ACME", NIP: "1234567890"},
		Items: []models.LineItem{{
			Name:         "Konsultacja",
			Quantity:     models.AmountFrom(1),
			UnitNetPrice: models.AmountFrom(100),
			NetValue:     models.AmountFrom(100),
			VATRate:      models.AmountFrom(0),
			VATAmount:    models.AmountFrom(0),
			GrossValue:   models.AmountFrom(100),
		}},
		NetTotal:   models.AmountFrom(100),
		VATTotal:   models.AmountFrom(0),
		GrossTotal: models.AmountFrom(100),
	}

	uwagi := newNormalizer().Normalize(inv)

	// 1234567890: weighted sum 230, 230 mod 11 = 10, so the checksum can
	// never match and the NIP is deterministically invalid.
	assert.Contains(t, uwagi,
		"Sprzedawca działa jako Osoba Fizyczna/Działalność Nierejestrowana (brak NIP/zwolnienie podmiotowe z VAT)")
	assert.Contains(t, uwagi, "NIP nabywcy (1234567890) jest niepoprawny - wymaga weryfikacji")
	assert.Contains(t, uwagi, "Data wystawienia uzupełniona automatycznie")
	assert.Contains(t, uwagi, "Data sprzedaży/wykonania usługi uzupełniona automatycznie")
	assert.Contains(t, uwagi, "Termin płatności uzupełniony automatycznie (14 dni)")
	// Unit filled as a service, VAT rate already present.
	assert.Equal(t, "usługa", inv.Items[0].Unit)
	assert.False(t, inv.Items[0].VATRate.Defaulted)
}
