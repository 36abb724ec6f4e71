// Package postgres implements the item repo using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/todos"
)

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables todos.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{tables.Items}.Sanitize()}, nil
}

const itemColumns = `owner_id, item_id, created_at, name, due_date, done, description, priority_points, attachment_url`

func scanItem(row pgx.Row) (todos.Item, error) {
	var item todos.Item
	var attachmentURL *string

	err := row.Scan(
		&item.OwnerID, &item.ItemID, &item.CreatedAt, &item.Name, &item.DueDate,
		&item.Done, &item.Description, &item.PriorityPoints, &attachmentURL,
	)
	if err != nil {
		return todos.Item{}, err
	}

	item.CreatedAt = item.CreatedAt.UTC()
	if attachmentURL != nil {
		item.AttachmentURL = *attachmentURL
	}
	return item, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, todos.ErrStoreUnavailable, err)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]todos.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY created_at, item_id
	`, itemColumns, r.tableName)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list by owner", err)
	}
	defer rows.Close()

	items := []todos.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storeErr("list by owner: scan", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("list by owner", err)
	}

	slog.DebugContext(ctx, "listed items", "owner_id", ownerID, "count", len(items))
	return items, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, itemID string) (todos.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND item_id = $2
	`, itemColumns, r.tableName)

	item, err := scanItem(r.pool.QueryRow(ctx, query, ownerID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return todos.Item{}, todos.ErrNotFound
		}
		return todos.Item{}, storeErr("get", err)
	}

	return item, nil
}

func (r *Repo) Create(ctx context.Context, item todos.Item) (todos.Item, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, item_id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			name = EXCLUDED.name,
			due_date = EXCLUDED.due_date,
			done = EXCLUDED.done,
			description = EXCLUDED.description,
			priority_points = EXCLUDED.priority_points,
			attachment_url = EXCLUDED.attachment_url
		RETURNING %s
	`, r.tableName, itemColumns, itemColumns)

	var attachmentURL *string
	if item.AttachmentURL != "" {
		attachmentURL = &item.AttachmentURL
	}

	created, err := scanItem(r.pool.QueryRow(ctx, query,
		item.OwnerID, item.ItemID, item.CreatedAt, item.Name, item.DueDate,
		item.Done, item.Description, item.PriorityPoints, attachmentURL,
	))
	if err != nil {
		return todos.Item{}, storeErr("create", err)
	}

	slog.DebugContext(ctx, "created item", "owner_id", item.OwnerID, "item_id", item.ItemID)
	return created, nil
}

func (r *Repo) Update(ctx context.Context, ownerID, itemID string, patch todos.ItemUpdate) (todos.Item, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $3, due_date = $4, done = $5, description = $6, priority_points = $7
		WHERE owner_id = $1 AND item_id = $2
		RETURNING %s
	`, r.tableName, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		ownerID, itemID,
		patch.Name, patch.DueDate, patch.Done, patch.Description, patch.PriorityPoints,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return todos.Item{}, todos.ErrNotFound
		}
		return todos.Item{}, storeErr("update", err)
	}

	slog.DebugContext(ctx, "updated item", "owner_id", ownerID, "item_id", itemID)
	return item, nil
}

func (r *Repo) UpdateAttachment(ctx context.Context, ownerID, itemID, attachmentURL string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET attachment_url = $3
		WHERE owner_id = $1 AND item_id = $2
	`, r.tableName)

	tag, err := r.pool.Exec(ctx, query, ownerID, itemID, attachmentURL)
	if err != nil {
		return storeErr("update attachment", err)
	}
	if tag.RowsAffected() == 0 {
		return todos.ErrNotFound
	}

	slog.DebugContext(ctx, "updated item attachment", "owner_id", ownerID, "item_id", itemID)
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, itemID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE owner_id = $1 AND item_id = $2`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, ownerID, itemID); err != nil {
		return storeErr("delete", err)
	}

	slog.DebugContext(ctx, "deleted item", "owner_id", ownerID, "item_id", itemID)
	return nil
}
