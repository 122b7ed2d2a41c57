// Package paginate нарезает упорядоченный список на страницы фиксированного
// размера. Чистая функция: раскладка кнопок и «новый товар…» добавляются
// выше, на уровне клавиатур.
package paginate

// Page — срез исходного списка плюс флаги навигации.
type Page[T any] struct {
	Items   []T
	HasPrev bool
	HasNext bool
}

// Slice возвращает страницу index (с нуля) по perPage элементов.
// Порядок элементов сохраняется; выход за последнюю страницу даёт
// пустой список.
func Slice[T any](items []T, perPage, index int) Page[T] {
	if perPage <= 0 || index < 0 {
		return Page[T]{}
	}
	start := index * perPage
	if start >= len(items) {
		return Page[T]{HasPrev: index > 0}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:   items[start:end],
		HasPrev: index > 0,
		HasNext: end < len(items),
	}
}

// Pages — количество страниц для списка данной длины.
func Pages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
