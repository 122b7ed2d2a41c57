package ledger

import (
	"fmt"
	"time"
)

type Op string

const (
	OpSale     Op = "sale"
	OpIncome   Op = "income"
	OpOutcome  Op = "outcome"
	OpDiscount Op = "discount"
	OpReturn   Op = "return"
)

// Порядок секций в отчёте — как в исходной таблице.
var ReportOrder = []Op{OpSale, OpReturn, OpIncome, OpOutcome, OpDiscount}

var opLabels = map[Op]string{
	OpSale:     "Продажа",
	OpIncome:   "Приход",
	OpOutcome:  "Списание",
	OpDiscount: "Переоценка",
	OpReturn:   "Возврат",
}

func (o Op) Label() string { return opLabels[o] }

// OpFromLabel — обратное преобразование: в журнале тип хранится
// локализованной меткой.
func OpFromLabel(label string) (Op, bool) {
	for op, l := range opLabels {
		if l == label {
			return op, true
		}
	}
	return "", false
}

// Entry — строка журнала операций. После записи не изменяется.
type Entry struct {
	Date     time.Time
	Type     string // локализованная метка операции
	Product  string
	Qty      int
	Price    int
	NewPrice int // только для переоценки, иначе 0
}

// Article — ключ группировки одинаковых позиций.
func (e Entry) Article() string {
	return fmt.Sprintf("%s_%d", e.Product, e.Price)
}

func (e Entry) ArticleNew() string {
	if e.NewPrice == 0 {
		return ""
	}
	return fmt.Sprintf("%s_%d", e.Product, e.NewPrice)
}

// Amount — стоимость позиции (кол-во × цена).
func (e Entry) Amount() int { return e.Qty * e.Price }

// Delta — изменение стоимости остатка при переоценке.
func (e Entry) Delta() int { return e.Qty * (e.NewPrice - e.Price) }
