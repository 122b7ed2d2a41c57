// Package dialog — машина состояний многошагового диалога.
// Решение о переходе принимает чистая функция Decide; побочные эффекты
// (сообщения, запись в журнал) описываются командами и исполняются ботом.
package dialog

import (
	"strings"
	"time"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
)

type Stage string

const (
	StageNone       Stage = ""
	StageGoods      Stage = "goods"
	StageProductNew Stage = "productnew"
	StagePrices     Stage = "prices"
	StagePriceInput Stage = "price_input"
	StageQty        Stage = "qty"
	StageQtyInput   Stage = "qty_input"
	StageConfirm    Stage = "confirm"
	StageDateEnter  Stage = "date_enter" // выбор рабочей даты, вне операций
)

// Step — текущее положение диалога: операция журнала плюс её этап.
// Для выбора даты Op пустой. Пустой Step — диалог не начат.
type Step struct {
	Op    ledger.Op
	Stage Stage
}

func (s Step) Idle() bool { return s.Stage == StageNone }

// Encode сворачивает шаг в токен вида operation_stage[_substage]
// ("sale_qty_input", "date_enter") — формат хранения в сессии.
func (s Step) Encode() string {
	if s.Idle() {
		return ""
	}
	if s.Stage == StageDateEnter {
		return string(StageDateEnter)
	}
	return string(s.Op) + "_" + string(s.Stage)
}

// ParseStep — обратное преобразование; мусор в колонке читается как idle.
func ParseStep(token string) Step {
	if token == "" {
		return Step{}
	}
	if token == string(StageDateEnter) {
		return Step{Stage: StageDateEnter}
	}
	op, stage, ok := strings.Cut(token, "_")
	if !ok {
		return Step{}
	}
	switch o := ledger.Op(op); o {
	case ledger.OpSale, ledger.OpIncome, ledger.OpOutcome, ledger.OpDiscount, ledger.OpReturn:
		switch st := Stage(stage); st {
		case StageGoods, StageProductNew, StagePrices, StagePriceInput,
			StageQty, StageQtyInput, StageConfirm:
			return Step{Op: o, Stage: st}
		}
	}
	return Step{}
}

// Pending — данные, накопленные по ходу диалога. В отличие от
// исходного произвольного JSON-объекта, состав полей фиксирован;
// какие из них обязаны быть заполнены, проверяется по этапу (guards
// в Decide).
type Pending struct {
	Product   string `json:"product,omitempty"`
	Price     int    `json:"price,omitempty"`
	NewPrice  int    `json:"newPrice,omitempty"` // только переоценка
	Qty       int    `json:"qty,omitempty"`
	Total     int    `json:"total,omitempty"`
	Page      int    `json:"page,omitempty"`
	MessageID int    `json:"messageId,omitempty"` // сообщение, которое редактируем
}

// Session — персистентное состояние диалога одного чата.
type Session struct {
	ChatID       int64
	Step         Step
	Pending      Pending
	SelectedDate string // дд.мм.гггг; пусто — работаем по сегодняшнему дню
	Version      int64
}

// EffectiveDate — дата, которой датируются записи журнала и отчёт.
func (s Session) EffectiveDate(now time.Time) time.Time {
	if s.SelectedDate != "" {
		if d, err := time.ParseInLocation(dates.Layout, s.SelectedDate, now.Location()); err == nil {
			return d
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
