package models

// Wire model for a "rachunek do umowy" (simplified invoice for services
// issued by freelancers and sole proprietors). Field names follow the
// Polish JSON format produced by the frontend form; the service never
// renames fields, it only fills in the missing ones.

// Party is one side of the invoice. BankAccount is only meaningful for
// the seller.
type Party struct {
	Name        string `json:"nazwa"`
	NIP         string `json:"nip,omitempty"`
	Address     string `json:"adres,omitempty"`
	BankAccount string `json:"konto_bankowe,omitempty"`
}

// LineItem is a single position on the invoice. All monetary values are
// supplied by the caller; the service formats and totals them but never
// recomputes net/VAT/gross from quantity and unit price.
type LineItem struct {
	Name         string `json:"nazwa"`
	Quantity     Amount `json:"ilosc"`
	Unit         string `json:"jednostka,omitempty"`
	UnitNetPrice Amount `json:"cena_netto"`
	NetValue     Amount `json:"wartosc_netto"`
	VATRate      Amount `json:"stawka_vat"`
	VATAmount    Amount `json:"kwota_vat"`
	GrossValue   Amount `json:"wartosc_brutto"`
}

// Metadata carries the annotations produced during normalization together
// with the processing stamp.
type Metadata struct {
	Annotations    []string `json:"uwagi,omitempty"`
	ProcessingDate string   `json:"data_przetworzenia,omitempty"`
	FormatVersion  string   `json:"wersja_formatu,omitempty"`
}

// Invoice is the full invoice record. It is mutated once by the
// normalizer and treated as immutable after the PDF has been rendered.
type Invoice struct {
	Number        string     `json:"numer_faktury"`
	IssueDate     string     `json:"data_wystawienia,omitempty"`
	SaleDate      string     `json:"data_sprzedazy,omitempty"`
	PaymentDue    string     `json:"termin_platnosci,omitempty"`
	PaymentMethod string     `json:"sposob_platnosci,omitempty"`
	Seller        Party      `json:"sprzedawca"`
	Buyer         Party      `json:"nabywca"`
	Items         []LineItem `json:"pozycje"`
	NetTotal      Amount     `json:"suma_netto"`
	VATTotal      Amount     `json:"suma_vat"`
	GrossTotal    Amount     `json:"suma_brutto"`
	Metadata      Metadata   `json:"metadata,omitempty"`
}
