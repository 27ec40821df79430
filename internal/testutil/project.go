package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture CSVs with known clean/dirty row mixes. Expected survivors after
// cleaning: 4 customers, 3 products, 2 transactions (one more rejected by
// the integrity filter for referencing customer 99).
const (
	CustomersCSV = `customer_id,name,email
1,Alice Johnson,alice@example.com
2,Bob Smith,bob@shop.io
3,,carol@web.net
4,Dan Fake,test@test.com
5,Erin Bad,not-an-email
1,Alice Dup,alice.dup@example.com
`

	ProductsCSV = `product_id,name,category,price
101,Laptop,ELECTRONICS,999.99
102,Novel,books,12.50
103,Blender,Gadgets,89.00
103,Blender,Gadgets,89.00
104,Overpriced,home,10000.01
`

	TransactionsCSV = `transaction_id,customer_id,product_id,amount,date
1001,1,101,999.99,2024-01-15
1002,2,102,12.50,2024/02/03
1003,99,101,999.99,2024-01-20
1004,1,103,89.00,2023-02-30
1001,1,101,999.99,2024-01-15
`
)

// ProjectPaths holds the paths of a scaffolded test project.
type ProjectPaths struct {
	Dir           string
	DataDir       string
	WarehousePath string
	StatePath     string
}

// SetupTestProject creates a temp project directory with the three source
// CSV fixtures and returns paths for the engine to use. Cleanup is handled
// by t.TempDir.
func SetupTestProject(t *testing.T) ProjectPaths {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}

	files := map[string]string{
		"customers.csv":    CustomersCSV,
		"products.csv":     ProductsCSV,
		"transactions.csv": TransactionsCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	return ProjectPaths{
		Dir:           dir,
		DataDir:       dataDir,
		WarehousePath: filepath.Join(dir, "warehouse.db"),
		StatePath:     filepath.Join(dir, "state.db"),
	}
}

// WriteCSV writes a single CSV file into dir, replacing any existing file.
func WriteCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
