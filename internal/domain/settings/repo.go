// Package settings — пары ключ/значение, редактируемые оператором без
// передеплоя (лист Settings исходной таблицы). Читаются заново на каждый
// апдейт; отсутствующие ключи добираются из значений по умолчанию.
package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	KeyStartMsg       = "startMsg"
	KeyDenyMsg        = "denyMsg"
	KeyOpeningBalance = "openingBalance"
)

var defaults = map[string]string{
	KeyStartMsg:       "Добро пожаловать, {name}!",
	KeyDenyMsg:        "{name}, доступ к боту закрыт. Обратитесь к администратору.",
	KeyOpeningBalance: "0",
}

type Settings map[string]string

func (s Settings) Get(key string) string { return s[key] }

func (s Settings) Int(key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s[key]))
	return n
}

// Render подставляет {name}-плейсхолдеры в шаблон сообщения.
func (s Settings) Render(key string, data map[string]string) string {
	out := s[key]
	for k, v := range data {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// GetAll возвращает настройки поверх значений по умолчанию.
// Ошибка чтения не валит обработку апдейта: работаем на дефолтах.
func (r *Repo) GetAll(ctx context.Context) (Settings, error) {
	out := Settings{}
	for k, v := range defaults {
		out[k] = v
	}

	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return out, err
		}
		if k = strings.TrimSpace(k); k != "" && strings.TrimSpace(v) != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out, rows.Err()
}
