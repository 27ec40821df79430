package transform

import "github.com/leapstack-labs/refinery/internal/model"

// unknownName is substituted when a surviving customer row has no name.
const unknownName = "Unknown"

// Customers applies the customer cleaning rules in order:
// drop missing emails, drop blacklisted literals, drop syntactically invalid
// emails, dedup by email, dedup by customer_id, default missing names.
func Customers(raw []model.RawCustomer) []model.Customer {
	// 1. Missing email.
	surviving := raw[:0:0]
	for _, r := range raw {
		if r.Email != "" {
			surviving = append(surviving, r)
		}
	}

	// 2. Blacklisted literals.
	kept := surviving[:0]
	for _, r := range surviving {
		if !blacklistedEmail(r.Email) {
			kept = append(kept, r)
		}
	}
	surviving = kept

	// 3. Syntactic pattern.
	kept = surviving[:0]
	for _, r := range surviving {
		if validEmailSyntax(r.Email) {
			kept = append(kept, r)
		}
	}
	surviving = kept

	// 4. Dedup by email, first-seen wins.
	seenEmail := make(map[string]struct{}, len(surviving))
	kept = surviving[:0]
	for _, r := range surviving {
		if _, dup := seenEmail[r.Email]; dup {
			continue
		}
		seenEmail[r.Email] = struct{}{}
		kept = append(kept, r)
	}
	surviving = kept

	// 5. Dedup by customer_id, first-seen wins.
	seenID := make(map[string]struct{}, len(surviving))
	kept = surviving[:0]
	for _, r := range surviving {
		if _, dup := seenID[r.CustomerID]; dup {
			continue
		}
		seenID[r.CustomerID] = struct{}{}
		kept = append(kept, r)
	}
	surviving = kept

	// 6. Missing names default rather than drop.
	cleaned := make([]model.Customer, 0, len(surviving))
	for _, r := range surviving {
		name := r.Name
		if name == "" {
			name = unknownName
		}
		cleaned = append(cleaned, model.Customer{
			ID:    r.CustomerID,
			Name:  name,
			Email: r.Email,
		})
	}
	return cleaned
}
