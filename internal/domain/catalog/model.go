package catalog

// Product — позиция справочника товаров (лист Goods исходной таблицы).
type Product struct {
	ID    int64
	Name  string
	Emoji string
}
