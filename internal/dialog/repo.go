package dialog

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Get читает сессию чата, создавая пустую строку при первом обращении.
// Мусор в step/pending не валит обработку: читается как idle.
func (r *Repo) Get(ctx context.Context, chatID int64) (*Session, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (chat_id) VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING
	`, chatID); err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		SELECT step, pending, selected_date, version
		FROM sessions WHERE chat_id = $1
	`, chatID)

	var (
		step string
		raw  []byte
		s    = Session{ChatID: chatID}
	)
	if err := row.Scan(&step, &raw, &s.SelectedDate, &s.Version); err != nil {
		if err == pgx.ErrNoRows {
			return &s, nil
		}
		return nil, err
	}
	s.Step = ParseStep(step)
	_ = json.Unmarshal(raw, &s.Pending)
	return &s, nil
}

// SetCAS сохраняет новое состояние, только если строку никто не менял
// после нашего чтения (сравнение по version). false — проигранная гонка.
func (r *Repo) SetCAS(ctx context.Context, chatID, readVersion int64, step Step, p Pending, selectedDate *string) (bool, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET step = $3,
		    pending = $4,
		    selected_date = COALESCE($5, selected_date),
		    version = version + 1,
		    updated_at = now()
		WHERE chat_id = $1 AND version = $2
	`, chatID, readVersion, step.Encode(), raw, selectedDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Reset безусловно возвращает диалог в idle (используется /start).
func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET step = '', pending = '{}', version = version + 1, updated_at = now()
		WHERE chat_id = $1
	`, chatID)
	return err
}
