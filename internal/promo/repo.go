package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPromoNotFound = errors.New("promo not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, code string, discount int, activeAt, expiresAt time.Time) (*Promo, error) {
	if discount < 0 || discount > 100 {
		return nil, fmt.Errorf("discount must be a percentage between 0 and 100, got %d", discount)
	}
	if !expiresAt.After(activeAt) {
		return nil, fmt.Errorf("expiresAt must be after activeAt")
	}

	p := &Promo{ID: uuid.NewString(), Code: code, Discount: discount, ActiveAt: activeAt, ExpiresAt: expiresAt}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO promos(promo_id, code_promo, discount, active_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Code, p.Discount, p.ActiveAt, p.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]Promo, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT promo_id, code_promo, discount, active_at, expires_at
		FROM promos ORDER BY active_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Promo
	for rows.Next() {
		var p Promo
		if err := rows.Scan(&p.ID, &p.Code, &p.Discount, &p.ActiveAt, &p.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*Promo, error) {
	var p Promo
	err := r.DB.QueryRow(ctx, `
		SELECT promo_id, code_promo, discount, active_at, expires_at
		FROM promos WHERE code_promo = $1`, code).
		Scan(&p.ID, &p.Code, &p.Discount, &p.ActiveAt, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetInTx reads a promo inside an open transaction (checkout path).
func GetInTx(ctx context.Context, tx pgx.Tx, promoID string) (*Promo, error) {
	var p Promo
	err := tx.QueryRow(ctx, `
		SELECT promo_id, code_promo, discount, active_at, expires_at
		FROM promos WHERE promo_id = $1`, promoID).
		Scan(&p.ID, &p.Code, &p.Discount, &p.ActiveAt, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
