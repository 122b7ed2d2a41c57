package ledger

import (
	"fmt"

	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// AppendConfirmed добавляет строку журнала и в той же транзакции сбрасывает
// состояние диалога. Повторная доставка того же подтверждения находит уже
// пустой шаг и до записи не доходит.
func (r *Repo) AppendConfirmed(ctx context.Context, e Entry, chatID int64) error {
	if e.Qty <= 0 {
		return fmt.Errorf("qty must be > 0")
	}
	if e.Price < 0 {
		return fmt.Errorf("price must be >= 0")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `
		INSERT INTO ledger_entries (op_date, op_type, product, qty, price, new_price, article, article_new)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, e.Date, e.Type, e.Product, e.Qty, e.Price, e.NewPrice, e.Article(), e.ArticleNew()); err != nil {
		return err
	}

	// Справочники самоподдерживающиеся: новый товар и его цены
	// становятся известны следующим диалогам.
	if _, err = tx.Exec(ctx, `
		INSERT INTO products (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`, e.Product); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO stock (product, price) VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, e.Product, e.Price); err != nil {
		return err
	}
	if e.NewPrice > 0 {
		if _, err = tx.Exec(ctx, `
			INSERT INTO stock (product, price) VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, e.Product, e.NewPrice); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, `
		UPDATE sessions
		SET step = '', pending = '{}', version = version + 1, updated_at = now()
		WHERE chat_id = $1
	`, chatID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Scan возвращает журнал целиком, в порядке хранения.
func (r *Repo) Scan(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT op_date, op_type, product, qty, price, new_price
		FROM ledger_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Type, &e.Product, &e.Qty, &e.Price, &e.NewPrice); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
