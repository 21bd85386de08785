package postgres

import (
	"context"

	"github.com/aipreacher/backend/internal/model/denomination"
)

var _ denomination.Store = (*Store)(nil)

// List returns every denomination ordered by name.
func (s *Store) List(ctx context.Context) ([]denomination.Denomination, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM denominations ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]denomination.Denomination, 0)
	for rows.Next() {
		var d denomination.Denomination
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
