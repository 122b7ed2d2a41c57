package users

import "time"

// User — авторизованный сотрудник магазина. Строки заводятся
// администратором заранее; бот их не создаёт.
type User struct {
	ChatID    int64
	Name      string
	Active    bool
	CreatedAt time.Time
}
