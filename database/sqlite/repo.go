// Package sqlite implements the item repo using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagarc03/todos"
)

type repo struct {
	db        *sql.DB
	tableName string
}

const itemColumns = `owner_id, item_id, created_at, name, due_date, done, description, priority_points, attachment_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (todos.Item, error) {
	var item todos.Item
	var createdAt string
	var attachmentURL sql.NullString

	err := row.Scan(
		&item.OwnerID, &item.ItemID, &createdAt, &item.Name, &item.DueDate,
		&item.Done, &item.Description, &item.PriorityPoints, &attachmentURL,
	)
	if err != nil {
		return todos.Item{}, err
	}

	item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return todos.Item{}, fmt.Errorf("parse created_at: %w", err)
	}
	item.AttachmentURL = attachmentURL.String

	return item, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, todos.ErrStoreUnavailable, err)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]todos.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE owner_id = ? ORDER BY created_at, item_id`, itemColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list by owner", err)
	}
	defer func() { _ = rows.Close() }()

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

func (r *repo) Get(ctx context.Context, ownerID, itemID string) (todos.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE owner_id = ? AND item_id = ?`, itemColumns, r.tableName)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, ownerID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todos.Item{}, todos.ErrNotFound
		}
		return todos.Item{}, storeErr("get", err)
	}

	return item, nil
}

func (r *repo) Create(ctx context.Context, item todos.Item) (todos.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, item_id) DO UPDATE SET
			created_at = excluded.created_at,
			name = excluded.name,
			due_date = excluded.due_date,
			done = excluded.done,
			description = excluded.description,
			priority_points = excluded.priority_points,
			attachment_url = excluded.attachment_url`, r.tableName, itemColumns)

	var attachmentURL sql.NullString
	if item.AttachmentURL != "" {
		attachmentURL = sql.NullString{String: item.AttachmentURL, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		item.OwnerID, item.ItemID, item.CreatedAt.UTC().Format(time.RFC3339Nano), item.Name, item.DueDate,
		item.Done, item.Description, item.PriorityPoints, attachmentURL,
	)
	if err != nil {
		return todos.Item{}, storeErr("create", err)
	}

	slog.DebugContext(ctx, "created item", "owner_id", item.OwnerID, "item_id", item.ItemID)
	return item, nil
}

func (r *repo) Update(ctx context.Context, ownerID, itemID string, patch todos.ItemUpdate) (todos.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET name = ?, due_date = ?, done = ?, description = ?, priority_points = ?
		WHERE owner_id = ? AND item_id = ?
		RETURNING %s`, r.tableName, itemColumns)

	item, err := scanItem(r.db.QueryRowContext(ctx, query,
		patch.Name, patch.DueDate, patch.Done, patch.Description, patch.PriorityPoints,
		ownerID, itemID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todos.Item{}, todos.ErrNotFound
		}
		return todos.Item{}, storeErr("update", err)
	}

	slog.DebugContext(ctx, "updated item", "owner_id", ownerID, "item_id", itemID)
	return item, nil
}

func (r *repo) UpdateAttachment(ctx context.Context, ownerID, itemID, attachmentURL string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s SET attachment_url = ? WHERE owner_id = ? AND item_id = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, attachmentURL, ownerID, itemID)
	if err != nil {
		return storeErr("update attachment", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("update attachment: rows affected", err)
	}
	if n == 0 {
		return todos.ErrNotFound
	}

	slog.DebugContext(ctx, "updated item attachment", "owner_id", ownerID, "item_id", itemID)
	return nil
}

func (r *repo) Delete(ctx context.Context, ownerID, itemID string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE owner_id = ? AND item_id = ?`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query, ownerID, itemID); err != nil {
		return storeErr("delete", err)
	}

	slog.DebugContext(ctx, "deleted item", "owner_id", ownerID, "item_id", itemID)
	return nil
}
