// Package schedule — график смен продавцов (лист Sched исходной таблицы):
// дата, продавец и выручка за смену. Используется меню (кто сегодня
// работает) и расчётом зарплаты.
package schedule

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexeii/shoppy-bot/internal/domain/payroll"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// SellerOn возвращает продавца по графику на дату ("" — если смены нет).
func (r *Repo) SellerOn(ctx context.Context, date time.Time) (string, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT seller FROM schedule WHERE work_date = $1
	`, date)
	var seller string
	if err := row.Scan(&seller); err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return seller, nil
}

// ScanMonth — все смены месяца, в порядке дат.
func (r *Repo) ScanMonth(ctx context.Context, month time.Time) ([]payroll.Shift, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	to := from.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT work_date, seller, sales
		FROM schedule
		WHERE work_date >= $1 AND work_date < $2
		ORDER BY work_date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Shift
	for rows.Next() {
		var s payroll.Shift
		if err := rows.Scan(&s.Date, &s.Seller, &s.Sales); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
