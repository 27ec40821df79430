package warehouse

import (
	"context"
	"fmt"
)

// RevenueRow is one row of the customer_revenue materialization.
type RevenueRow struct {
	CustomerID string
	Name       string
	Email      string
	Total      float64
}

// RebuildCustomerRevenue recomputes the customer_revenue table from the
// loaded customers and transactions. Every customer gets a row (0.0 when it
// has no transactions); an existing row for a customer_id is fully replaced.
func (w *Warehouse) RebuildCustomerRevenue(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO customer_revenue (
			customer_id,
			customer_name,
			customer_email,
			total_transaction_amount
		)
		SELECT
			c.customer_id,
			c.name AS customer_name,
			c.email AS customer_email,
			COALESCE(SUM(t.amount), 0.0) AS total_transaction_amount
		FROM customers c
		LEFT JOIN transactions t ON c.customer_id = t.customer_id
		GROUP BY c.customer_id, c.name, c.email
		ORDER BY total_transaction_amount DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to rebuild customer_revenue: %w", err)
	}

	w.logger.Debug("customer_revenue rebuilt")
	return nil
}

// TopRevenue returns up to limit customers ordered by total revenue,
// highest first.
func (w *Warehouse) TopRevenue(ctx context.Context, limit int) ([]RevenueRow, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT customer_id, customer_name, customer_email, total_transaction_amount
		FROM customer_revenue
		ORDER BY total_transaction_amount DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer_revenue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var top []RevenueRow
	for rows.Next() {
		var r RevenueRow
		if err := rows.Scan(&r.CustomerID, &r.Name, &r.Email, &r.Total); err != nil {
			return nil, fmt.Errorf("failed to scan customer_revenue row: %w", err)
		}
		top = append(top, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer_revenue rows: %w", err)
	}
	return top, nil
}
