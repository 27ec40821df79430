package transform

import (
	"testing"
	"time"

	"github.com/leapstack-labs/refinery/internal/model"
)

func TestFilterIntegrity(t *testing.T) {
	customers := []model.Customer{
		{ID: "1", Name: "Alice", Email: "alice@example.com"},
		{ID: "2", Name: "Bob", Email: "bob@example.com"},
	}
	products := []model.Product{
		{ID: 101, Name: "Laptop", Category: "Electronics", Price: 999.99},
	}
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: "1", CustomerID: "1", ProductID: 101, Amount: 999.99, Date: date},
		{ID: "2", CustomerID: "9", ProductID: 101, Amount: 999.99, Date: date},
		{ID: "3", CustomerID: "2", ProductID: 999, Amount: 999.99, Date: date},
		{ID: "4", CustomerID: "9", ProductID: 999, Amount: 999.99, Date: date},
	}

	got := FilterIntegrity(customers, products, txs)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the fully-referenced transaction, got %+v", got)
	}
}

func TestFilterIntegrityEmptyReferenceSets(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: "1", CustomerID: "1", ProductID: 101, Amount: 10, Date: date},
	}

	if got := FilterIntegrity(nil, nil, txs); len(got) != 0 {
		t.Errorf("expected no transactions to survive empty reference sets, got %+v", got)
	}
}

// A customer dropped during dedup must drag its transactions down with it.
func TestFilterIntegrityAfterCustomerDedup(t *testing.T) {
	rawCustomers := []model.RawCustomer{
		{CustomerID: "1", Name: "Alice", Email: "shared@example.com"},
		{CustomerID: "2", Name: "Bob", Email: "shared@example.com"},
	}
	rawProducts := []model.RawProduct{
		{ProductID: "101", Name: "Laptop", Category: "electronics", Price: "999.99"},
	}
	rawTxs := []model.RawTransaction{
		{TransactionID: "1", CustomerID: "1", ProductID: "101", Amount: "10", Date: "2024-01-15"},
		{TransactionID: "2", CustomerID: "2", ProductID: "101", Amount: "10", Date: "2024-01-15"},
	}

	got := FilterIntegrity(Customers(rawCustomers), Products(rawProducts), Transactions(rawTxs))
	if len(got) != 1 || got[0].CustomerID != "1" {
		t.Fatalf("expected only customer 1's transaction, got %+v", got)
	}
}
