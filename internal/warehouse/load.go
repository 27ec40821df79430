package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/refinery/internal/model"
)

// ReplaceCustomers deletes all existing customer rows and inserts the given
// cleaned set, in a single transaction.
func (w *Warehouse) ReplaceCustomers(ctx context.Context, customers []model.Customer) error {
	return w.replace(ctx, model.EntityCustomers, len(customers), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
			return err
		}
		for _, c := range customers {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO customers (customer_id, name, email) VALUES (?, ?, ?)`,
				c.ID, c.Name, c.Email,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProducts deletes all existing product rows and inserts the given
// cleaned set, in a single transaction.
func (w *Warehouse) ReplaceProducts(ctx context.Context, products []model.Product) error {
	return w.replace(ctx, model.EntityProducts, len(products), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}
		for _, p := range products {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO products (product_id, name, category, price) VALUES (?, ?, ?, ?)`,
				p.ID, p.Name, p.Category, p.Price,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceTransactions deletes all existing transaction rows and inserts the
// given cleaned set, in a single transaction. Dates are stored in canonical
// YYYY-MM-DD form.
func (w *Warehouse) ReplaceTransactions(ctx context.Context, txs []model.Transaction) error {
	return w.replace(ctx, model.EntityTransactions, len(txs), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return err
		}
		for _, t := range txs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (transaction_id, customer_id, product_id, amount, transaction_date)
				 VALUES (?, ?, ?, ?, ?)`,
				t.ID, t.CustomerID, t.ProductID, t.Amount, t.DateString(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Counts reads back the stored record count for each entity table.
func (w *Warehouse) Counts(ctx context.Context) (model.Counts, error) {
	var counts model.Counts
	for _, q := range []struct {
		table string
		dest  *int
	}{
		{model.EntityCustomers, &counts.Customers},
		{model.EntityProducts, &counts.Products},
		{model.EntityTransactions, &counts.Transactions},
	} {
		if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+q.table).Scan(q.dest); err != nil {
			return model.Counts{}, fmt.Errorf("failed to count %s: %w", q.table, err)
		}
	}
	return counts, nil
}

func (w *Warehouse) replace(ctx context.Context, entity string, n int, load func(tx *sql.Tx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s load: %w", entity, err)
	}

	if err := load(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to load %s: %w", entity, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s load: %w", entity, err)
	}

	w.logger.Debug("entity loaded", "entity", entity, "rows", n)
	return nil
}
