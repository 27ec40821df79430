package transform

import (
	"time"

	"github.com/leapstack-labs/refinery/internal/model"
)

// datedTransaction pairs a surviving raw row with its parsed date so later
// steps can dedup on the canonical date rather than the raw spelling.
type datedTransaction struct {
	raw  model.RawTransaction
	date time.Time
}

// Transactions applies the transaction cleaning rules in order: drop empty
// rows, validate dates, dedup exact duplicates, dedup by transaction_id,
// coerce and range-check amounts.
func Transactions(raw []model.RawTransaction) []model.Transaction {
	// 1. Fully-empty rows.
	// 2. Date validation: missing, unparseable, impossible calendar dates,
	//    and out-of-range years are all rejected here.
	surviving := make([]datedTransaction, 0, len(raw))
	for _, r := range raw {
		if r.Empty() {
			continue
		}
		date, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		surviving = append(surviving, datedTransaction{raw: r, date: date})
	}

	// 3. Exact full-row duplicates, first-seen wins. The date component is
	// compared post-parse, so "2024-1-5" and "2024-01-05" collide.
	type rowKey struct {
		id, customer, product, amount string
		date                          time.Time
	}
	seenRow := make(map[rowKey]struct{}, len(surviving))
	kept := surviving[:0]
	for _, d := range surviving {
		key := rowKey{d.raw.TransactionID, d.raw.CustomerID, d.raw.ProductID, d.raw.Amount, d.date}
		if _, dup := seenRow[key]; dup {
			continue
		}
		seenRow[key] = struct{}{}
		kept = append(kept, d)
	}
	surviving = kept

	// 4. Dedup by transaction_id, first-seen wins.
	seenID := make(map[string]struct{}, len(surviving))
	kept = surviving[:0]
	for _, d := range surviving {
		if _, dup := seenID[d.raw.TransactionID]; dup {
			continue
		}
		seenID[d.raw.TransactionID] = struct{}{}
		kept = append(kept, d)
	}
	surviving = kept

	// 5-6. Amount coercion and range check; reference ids must also coerce.
	cleaned := make([]model.Transaction, 0, len(surviving))
	for _, d := range surviving {
		amount, ok := parseNumber(d.raw.Amount)
		if !ok || !amountInRange(amount) {
			continue
		}
		productID, ok := parseInt(d.raw.ProductID)
		if !ok {
			continue
		}
		cleaned = append(cleaned, model.Transaction{
			ID:         d.raw.TransactionID,
			CustomerID: d.raw.CustomerID,
			ProductID:  productID,
			Amount:     amount,
			Date:       d.date,
		})
	}
	return cleaned
}
