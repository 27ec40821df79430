package transform

import "github.com/leapstack-labs/refinery/internal/model"

// Products applies the product cleaning rules in order: canonicalize
// category, dedup by product_id, dedup by (name, category), coerce numerics,
// range-check price.
//
// The (name, category) dedup runs after the id dedup and can remove
// additional rows even when the ids already differ.
func Products(raw []model.RawProduct) []model.Product {
	// 1. Category canonicalization.
	surviving := make([]model.RawProduct, len(raw))
	copy(surviving, raw)
	for i := range surviving {
		surviving[i].Category = normalizeCategory(surviving[i].Category)
	}

	// 2. Dedup by product_id, first-seen wins.
	seenID := make(map[string]struct{}, len(surviving))
	kept := surviving[:0]
	for _, r := range surviving {
		if _, dup := seenID[r.ProductID]; dup {
			continue
		}
		seenID[r.ProductID] = struct{}{}
		kept = append(kept, r)
	}
	surviving = kept

	// 3. Dedup by (name, category) pair, first-seen wins.
	type nameCategory struct{ name, category string }
	seenPair := make(map[nameCategory]struct{}, len(surviving))
	kept = surviving[:0]
	for _, r := range surviving {
		key := nameCategory{r.Name, r.Category}
		if _, dup := seenPair[key]; dup {
			continue
		}
		seenPair[key] = struct{}{}
		kept = append(kept, r)
	}
	surviving = kept

	// 4-5. Numeric coercion and price range. Coercion failures are silent
	// row rejections, the same for id and price.
	cleaned := make([]model.Product, 0, len(surviving))
	for _, r := range surviving {
		price, ok := parseNumber(r.Price)
		if !ok || !amountInRange(price) {
			continue
		}
		id, ok := parseInt(r.ProductID)
		if !ok {
			continue
		}
		cleaned = append(cleaned, model.Product{
			ID:       id,
			Name:     r.Name,
			Category: r.Category,
			Price:    price,
		})
	}
	return cleaned
}
