package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByChatID(ctx context.Context, chatID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, name, active, created_at
		FROM users WHERE chat_id = $1
	`, chatID)

	var u User
	if err := row.Scan(&u.ChatID, &u.Name, &u.Active, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
