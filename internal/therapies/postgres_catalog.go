package therapies

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresCatalog reads therapies from the relational database.
type PostgresCatalog struct {
	db db
}

// NewPostgresCatalog initializes a catalog backed by a pgx pool (or any
// compatible querier).
func NewPostgresCatalog(pool db) *PostgresCatalog {
	if pool == nil {
		panic("therapies: pgx pool required")
	}
	return &PostgresCatalog{db: pool}
}

const listTherapiesQuery = `
	SELECT id, title, subtitle, duration, focus, description, price
	FROM therapies
	WHERE active
	ORDER BY sort_order, id
`

// List returns every active therapy.
func (c *PostgresCatalog) List(ctx context.Context) ([]Therapy, error) {
	rows, err := c.db.Query(ctx, listTherapiesQuery)
	if err != nil {
		return nil, fmt.Errorf("therapies: list failed: %w", err)
	}
	defer rows.Close()

	var out []Therapy
	for rows.Next() {
		var t Therapy
		if err := rows.Scan(&t.ID, &t.Title, &t.Subtitle, &t.Duration, &t.Focus, &t.Description, &t.Price); err != nil {
			return nil, fmt.Errorf("therapies: scan failed: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("therapies: list failed: %w", err)
	}
	return out, nil
}
