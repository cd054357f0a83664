package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/stekc/myTimeAPI/store"
)

func (d *DB) CreateSeenShift(ctx context.Context, create *store.SeenShift) (*store.SeenShift, error) {
	stmt := "INSERT INTO `seen_shift` (`id`, `created_ts`) VALUES (?, ?) ON CONFLICT (`id`) DO NOTHING"
	if _, err := d.db.ExecContext(ctx, stmt, create.ID, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListSeenShifts(ctx context.Context, find *store.FindSeenShift) ([]*store.SeenShift, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}

	query := "SELECT `id`, `created_ts` FROM `seen_shift` WHERE " + strings.Join(where, " AND ") + " ORDER BY `created_ts` DESC"
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.SeenShift, 0)
	for rows.Next() {
		shift := &store.SeenShift{}
		if err := rows.Scan(&shift.ID, &shift.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteSeenShifts(ctx context.Context, delete *store.DeleteSeenShift) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM `seen_shift` WHERE `created_ts` < ?", delete.CreatedBefore)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
