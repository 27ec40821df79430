// Package model defines the typed records that flow through the pipeline.
//
// Raw records carry every field as a string, exactly as extracted from the
// source CSVs. Cleaned records are produced by the transformers and are the
// only shapes the warehouse accepts.
package model

import "time"

// Entity names used in counts, reports, and the run-history store.
const (
	EntityCustomers    = "customers"
	EntityProducts     = "products"
	EntityTransactions = "transactions"
)

// RawCustomer is an unvalidated customer row from the source CSV.
type RawCustomer struct {
	CustomerID string
	Name       string
	Email      string
}

// RawProduct is an unvalidated product row from the source CSV.
type RawProduct struct {
	ProductID string
	Name      string
	Category  string
	Price     string
}

// RawTransaction is an unvalidated transaction row from the source CSV.
type RawTransaction struct {
	TransactionID string
	CustomerID    string
	ProductID     string
	Amount        string
	Date          string
}

// Empty reports whether every field of the raw transaction is blank.
func (r RawTransaction) Empty() bool {
	return r.TransactionID == "" && r.CustomerID == "" && r.ProductID == "" &&
		r.Amount == "" && r.Date == ""
}

// Customer is a cleaned customer record.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Product is a cleaned product record.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

// Transaction is a cleaned transaction record. Date holds the validated
// calendar date; it is rendered as YYYY-MM-DD for storage.
type Transaction struct {
	ID         string
	CustomerID string
	ProductID  int64
	Amount     float64
	Date       time.Time
}

// DateString renders the transaction date in the canonical storage form.
func (t Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}

// Counts holds per-entity record counts at a single pipeline point.
type Counts struct {
	Customers    int
	Products     int
	Transactions int
}
