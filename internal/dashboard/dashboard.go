// Package dashboard derives the financial summary shown on the frontend
// dashboard from the current contents of the invoice store.
package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/Brayaaan/Finbot/internal/store"
)

// savingsRatio is the illustrative share of gross income suggested to be
// set aside. It is not a computed tax obligation.
var savingsRatio = decimal.NewFromFloat(0.20)

// RecentInvoice is the dashboard projection of the most recently
// generated rachunek. Keys mirror the frontend table columns.
type RecentInvoice struct {
	Number      string `json:"Numer"`
	IssueDate   string `json:"Data"`
	GrossAmount string `json:"Kwota_Brutto"`
	Client      string `json:"Klient"`
	Action      string `json:"Akcja"`
	DownloadURL string `json:"download_url"`
}

// Summary is the aggregate view over all stored invoices.
type Summary struct {
	GrossIncome      string          `json:"przychód_brutto"`
	SuggestedSavings string          `json:"sugerowana_kwota_do_odłożenia"`
	InvoiceCount     int             `json:"liczba_wygenerowanych_rachunków"`
	RecentInvoices   []RecentInvoice `json:"ostatnie_rachunki"`
	Status           string          `json:"status"`
}

// Summarize aggregates the stored invoices: total gross billed, the
// suggested savings share, and a one-element list holding the most recent
// invoice. An empty store yields zeros and an empty list, never an error.
func Summarize(entries []store.StoredInvoice) Summary {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Record.GrossTotal.Value)
	}

	recent := make([]RecentInvoice, 0, 1)
	if latest, ok := mostRecent(entries); ok {
		issueDate := latest.Record.IssueDate
		if issueDate == "" {
			issueDate = "BRAK"
		}
		client := latest.Record.Buyer.Name
		if client == "" {
			client = "BRAK"
		}
		recent = append(recent, RecentInvoice{
			Number:      latest.Number,
			IssueDate:   issueDate,
			GrossAmount: latest.Record.GrossTotal.StringFixed(2) + " zł",
			Client:      client,
			Action:      "Podgląd PDF",
			DownloadURL: "/api/invoice/" + latest.Number + "/pdf",
		})
	}

	return Summary{
		GrossIncome:      total.StringFixed(2) + " zł",
		SuggestedSavings: total.Mul(savingsRatio).StringFixed(2) + " zł",
		InvoiceCount:     len(entries),
		RecentInvoices:   recent,
		Status:           "OK",
	}
}

// mostRecent picks the entry with the latest creation time. Timestamp
// ties break deterministically on the invoice number.
func mostRecent(entries []store.StoredInvoice) (store.StoredInvoice, bool) {
	if len(entries) == 0 {
		return store.StoredInvoice{}, false
	}

	latest := entries[0]
	for _, entry := range entries[1:] {
		if entry.CreatedAt.After(latest.CreatedAt) ||
			(entry.CreatedAt.Equal(latest.CreatedAt) && entry.Number > latest.Number) {
			latest = entry
		}
	}
	return latest, true
}
