// Package extract reads raw entity batches from the source CSV files.
//
// Extraction is schema-checked but value-tolerant: a missing required column
// is a fatal error, while malformed field values pass through untouched for
// the transformers to judge. Extra columns are ignored.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/refinery/internal/model"
)

// Source file names expected inside the data directory.
const (
	CustomersFile    = "customers.csv"
	ProductsFile     = "products.csv"
	TransactionsFile = "transactions.csv"
)

// Customers reads the raw customer batch from path.
func Customers(path string) ([]model.RawCustomer, error) {
	rows, err := readTable(path, []string{"customer_id", "name", "email"})
	if err != nil {
		return nil, err
	}
	records := make([]model.RawCustomer, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.RawCustomer{
			CustomerID: r["customer_id"],
			Name:       r["name"],
			Email:      r["email"],
		})
	}
	return records, nil
}

// Products reads the raw product batch from path.
func Products(path string) ([]model.RawProduct, error) {
	rows, err := readTable(path, []string{"product_id", "name", "category", "price"})
	if err != nil {
		return nil, err
	}
	records := make([]model.RawProduct, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.RawProduct{
			ProductID: r["product_id"],
			Name:      r["name"],
			Category:  r["category"],
			Price:     r["price"],
		})
	}
	return records, nil
}

// Transactions reads the raw transaction batch from path.
func Transactions(path string) ([]model.RawTransaction, error) {
	rows, err := readTable(path, []string{"transaction_id", "customer_id", "product_id", "amount", "date"})
	if err != nil {
		return nil, err
	}
	records := make([]model.RawTransaction, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.RawTransaction{
			TransactionID: r["transaction_id"],
			CustomerID:    r["customer_id"],
			ProductID:     r["product_id"],
			Amount:        r["amount"],
			Date:          r["date"],
		})
	}
	return records, nil
}

// readTable reads a CSV file with a header row and returns one map per data
// row containing the required columns. Short rows yield empty strings for
// the missing trailing fields.
func readTable(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file, header row required", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", filepath.Base(path), err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", filepath.Base(path), col)
		}
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read row: %w", filepath.Base(path), err)
		}

		row := make(map[string]string, len(required))
		for _, col := range required {
			i := index[col]
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
