package ledger

import "time"

// LineItem — сгруппированная позиция дня (кол-во просуммировано по артикулу).
type LineItem struct {
	Product string
	Qty     int
	Price   int
}

// DiscountLine — переоценка не группируется, каждая строка показывается отдельно.
type DiscountLine struct {
	Product  string
	Qty      int
	Price    int
	NewPrice int
	Delta    int
}

// Section — итоги дня по одному типу операции. Total подписан:
// продажа и списание уменьшают стоимость остатка, приход и возврат
// увеличивают, переоценка даёт дельту любого знака.
type Section struct {
	Op        Op
	Items     []LineItem
	Discounts []DiscountLine
	Total     int
}

// DayReport — результат прогона журнала за одну дату.
type DayReport struct {
	Date         time.Time
	Sections     []Section // только типы с активностью, в порядке ReportOrder
	GrandTotal   int
	ShowGrand    bool // общий итог показываем, когда активны ≥2 типа
	StartBalance int
	EndBalance   int
	Skipped      []string // метки операций, которые не удалось распознать
}

func sign(op Op) int {
	switch op {
	case OpSale, OpOutcome:
		return -1
	default:
		return 1
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func dayBefore(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.YearDay() < b.YearDay()
}

// Aggregate прогоняет журнал целиком и собирает отчёт за target.
// Журнал не обязан быть отсортирован; строки позже target игнорируются.
// Чистая функция: два прогона по одним данным дают одинаковый отчёт.
func Aggregate(entries []Entry, target time.Time, openingBalance int) DayReport {
	rep := DayReport{Date: target}

	// Подписанный вклад каждого типа до target.
	prev := map[Op]int{}

	type group struct {
		order []string // артикулы в порядке появления
		items map[string]*LineItem
	}
	day := map[Op]*group{}
	var discounts []DiscountLine
	discountDelta := 0

	for _, e := range entries {
		op, ok := OpFromLabel(e.Type)
		if !ok {
			rep.Skipped = append(rep.Skipped, e.Type)
			continue
		}

		switch {
		case dayBefore(e.Date, target):
			if op == OpDiscount {
				prev[op] += e.Delta()
			} else {
				prev[op] += sign(op) * e.Amount()
			}
		case sameDay(e.Date, target):
			if op == OpDiscount {
				discounts = append(discounts, DiscountLine{
					Product:  e.Product,
					Qty:      e.Qty,
					Price:    e.Price,
					NewPrice: e.NewPrice,
					Delta:    e.Delta(),
				})
				discountDelta += e.Delta()
				continue
			}
			g := day[op]
			if g == nil {
				g = &group{items: map[string]*LineItem{}}
				day[op] = g
			}
			art := e.Article()
			it := g.items[art]
			if it == nil {
				it = &LineItem{Product: e.Product, Price: e.Price}
				g.items[art] = it
				g.order = append(g.order, art)
			}
			it.Qty += e.Qty
		}
		// будущие даты в отчёт за target не входят
	}

	rep.StartBalance = openingBalance
	for _, op := range ReportOrder {
		rep.StartBalance += prev[op]
	}

	for _, op := range ReportOrder {
		var sec Section
		switch {
		// Переоценка с нулевой суммарной дельтой стоимость остатка
		// не меняет — секцию не показываем.
		case op == OpDiscount && discountDelta != 0:
			sec = Section{Op: op, Discounts: discounts, Total: discountDelta}
		case op != OpDiscount && day[op] != nil:
			g := day[op]
			sec = Section{Op: op}
			for _, art := range g.order {
				it := g.items[art]
				sec.Items = append(sec.Items, *it)
				sec.Total += it.Qty * it.Price
			}
			sec.Total *= sign(op)
		default:
			continue
		}
		rep.Sections = append(rep.Sections, sec)
		rep.GrandTotal += sec.Total
	}

	rep.ShowGrand = len(rep.Sections) >= 2
	rep.EndBalance = rep.StartBalance + rep.GrandTotal
	return rep
}
