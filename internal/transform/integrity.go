package transform

import "github.com/leapstack-labs/refinery/internal/model"

// FilterIntegrity retains only transactions whose customer_id and product_id
// both reference records present in the cleaned entity sets.
//
// It must run after all three transformers: a transaction referencing a
// customer dropped during dedup (for example an email collision) must be
// dropped here too.
func FilterIntegrity(customers []model.Customer, products []model.Product, txs []model.Transaction) []model.Transaction {
	validCustomers := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		validCustomers[c.ID] = struct{}{}
	}
	validProducts := make(map[int64]struct{}, len(products))
	for _, p := range products {
		validProducts[p.ID] = struct{}{}
	}

	kept := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if _, ok := validCustomers[t.CustomerID]; !ok {
			continue
		}
		if _, ok := validProducts[t.ProductID]; !ok {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
