package notification

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT notification_id, user_id, transaction_id, title, body, is_read, is_deleted, created_at
		FROM notifications
		WHERE user_id = $1 AND is_deleted = false
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TransactionID, &n.Title, &n.Body, &n.IsRead, &n.IsDeleted, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, userID, id string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE notification_id = $1 AND user_id = $2 AND is_deleted = false`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) SoftDelete(ctx context.Context, userID, id string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE notifications SET is_deleted = true
		WHERE notification_id = $1 AND user_id = $2 AND is_deleted = false`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

// Insert writes a notification inside the caller's transaction, so the emit
// commits or rolls back together with the state change that caused it.
func Insert(ctx context.Context, tx pgx.Tx, n *Notification) error {
	return tx.QueryRow(ctx, `
		INSERT INTO notifications(notification_id, user_id, transaction_id, title, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		n.ID, n.UserID, n.TransactionID, n.Title, n.Body).Scan(&n.CreatedAt)
}
