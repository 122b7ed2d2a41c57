package dialog

import (
	"strconv"
	"strings"
	"time"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
)

// Кнопки главного меню и служебные подписи (как в исходной таблице).
const (
	WordReport = "Отчёт"
	WordToday  = "Сегодня"

	IcoToday  = "🗓️"
	IcoDay    = "👀"
	IcoSeller = "🤵"
	IcoNew    = "🆕"
)

type EventKind int

const (
	EventText EventKind = iota
	EventCallback
)

// Event — входящий апдейт, уже очищенный от транспортных деталей:
// либо текст сообщения, либо payload нажатой inline-кнопки.
type Event struct {
	Kind EventKind
	Text string
	Data string
}

// Command — побочный эффект, который исполнитель выполняет после
// принятия решения. Поле Edit у команд-сообщений означает «править
// сообщение из Pending.MessageID», иначе шлётся новое (и его id
// попадает в сохраняемый Pending).
type Command interface{ isCommand() }

type ShowGoods struct {
	Op   ledger.Op
	Page int
	Edit bool
}

type ShowPrices struct {
	Op      ledger.Op
	Product string
	Page    int
}

type AskNewProduct struct{ Op ledger.Op }

type AskPrice struct {
	Op      ledger.Op
	Product string
	Edit    bool // false: предыдущему сообщению только срезаются кнопки
}

type AskQty struct {
	Op      ledger.Op
	Product string
	Price   int
	Edit    bool
}

type AskQtyInput struct {
	Op      ledger.Op
	Product string
	Price   int
}

type AskConfirm struct {
	Op      ledger.Op
	Product string
	Price   int
	Qty     int
	Edit    bool
}

type Append struct{ Entry ledger.Entry }

type Saved struct {
	Op       ledger.Op
	Product  string
	Price    int
	NewPrice int
	Qty      int
	Total    int
	Date     string
}

type Cancelled struct{ Op ledger.Op }

type SendReport struct{ Date time.Time }

type ExportDay struct{ Date time.Time }

type SendPayroll struct{}

type AskDate struct{}

type MainMenu struct {
	Greeting bool   // поприветствовать шаблоном startMsg
	Note     string // строка перед меню (например, подтверждение даты)
}

type Say struct{ Text string }

func (ShowGoods) isCommand()     {}
func (ShowPrices) isCommand()    {}
func (AskNewProduct) isCommand() {}
func (AskPrice) isCommand()      {}
func (AskQty) isCommand()        {}
func (AskQtyInput) isCommand()   {}
func (AskConfirm) isCommand()    {}
func (Append) isCommand()        {}
func (Saved) isCommand()         {}
func (Cancelled) isCommand()     {}
func (SendReport) isCommand()    {}
func (ExportDay) isCommand()     {}
func (SendPayroll) isCommand()   {}
func (AskDate) isCommand()       {}
func (MainMenu) isCommand()      {}
func (Say) isCommand()           {}

// Decision — результат перехода: что сохранить и что сделать.
type Decision struct {
	Persist bool
	Step    Step
	Pending Pending
	// nil — дату не трогаем; указатель на "" — сброс к «сегодня».
	SetDate  *string
	Commands []Command
}

func stay() Decision { return Decision{} }

func next(step Step, p Pending, cmds ...Command) Decision {
	return Decision{Persist: true, Step: step, Pending: p, Commands: cmds}
}

func reset(cmds ...Command) Decision {
	return Decision{Persist: true, Commands: cmds}
}

// Decide — чистая функция переходов: (состояние, событие) → решение.
// Никаких обращений к хранилищам и транспорту; время передаётся явно.
func Decide(s Session, ev Event, now time.Time) Decision {
	if ev.Kind == EventCallback {
		return decideCallback(s, ev.Data, now)
	}
	return decideText(s, strings.TrimSpace(ev.Text), now)
}

func decideText(s Session, text string, now time.Time) Decision {
	if text == "/start" {
		return reset(MainMenu{Greeting: true})
	}

	// Кнопки главного меню работают из любого шага: нажатие
	// равносильно отмене незавершённого диалога.
	if op, ok := ledger.OpFromLabel(text); ok {
		return next(Step{Op: op, Stage: StageGoods}, Pending{},
			ShowGoods{Op: op, Page: 0})
	}
	switch {
	case text == WordReport:
		return Decision{Commands: []Command{SendReport{Date: s.EffectiveDate(now)}}}
	case strings.Contains(text, IcoSeller):
		return Decision{Commands: []Command{SendPayroll{}}}
	case strings.Contains(text, IcoToday), strings.Contains(text, IcoDay):
		return next(Step{Stage: StageDateEnter}, Pending{}, AskDate{})
	}

	switch s.Step.Stage {
	case StageDateEnter:
		if text == WordToday {
			today := ""
			return Decision{Persist: true, SetDate: &today,
				Commands: []Command{MainMenu{Note: "Дата: сегодня"}}}
		}
		d, ok := dates.Parse(text, now)
		if !ok {
			return Decision{Commands: []Command{
				Say{Text: "Неверная дата. Введите дату в формате ДД.ММ.ГГГГ"}}}
		}
		formatted := d.Format(dates.Layout)
		return Decision{Persist: true, SetDate: &formatted,
			Commands: []Command{MainMenu{Note: "Дата: " + formatted}}}

	case StageProductNew:
		if text == "" {
			return stay()
		}
		p := s.Pending
		p.Product = text
		return next(Step{Op: s.Step.Op, Stage: StagePriceInput}, p,
			AskPrice{Op: s.Step.Op, Product: text})

	case StagePriceInput:
		if s.Pending.Product == "" {
			return corrupted()
		}
		price, err := strconv.Atoi(text)
		if err != nil || price < 0 {
			return Decision{Commands: []Command{
				Say{Text: "Введите цену числом, например 25"}}}
		}
		p := s.Pending
		if s.Step.Op == ledger.OpDiscount && p.Price > 0 {
			// Старая цена уже выбрана из списка — это новая.
			p.NewPrice = price
		} else {
			p.Price = price
		}
		qtyPrice := p.NewPrice
		if qtyPrice == 0 {
			qtyPrice = p.Price
		}
		return next(Step{Op: s.Step.Op, Stage: StageQty}, p,
			AskQty{Op: s.Step.Op, Product: p.Product, Price: qtyPrice})

	case StageQtyInput:
		if s.Pending.Product == "" {
			return corrupted()
		}
		qty, err := strconv.Atoi(text)
		if err != nil || qty <= 0 {
			return Decision{Commands: []Command{
				Say{Text: "Введите количество целым числом больше нуля"}}}
		}
		return toConfirm(s, qty, false)
	}

	return stay()
}

func decideCallback(s Session, data string, now time.Time) Decision {
	key, value, _ := strings.Cut(data, "_")

	if key == "cancel" {
		if s.Step.Idle() {
			return stay()
		}
		return reset(Cancelled{Op: s.Step.Op})
	}

	// Экспорт дня доступен из любого состояния: кнопка живёт под отчётом.
	if key == "export" {
		if d, err := time.ParseInLocation(dates.Layout, value, now.Location()); err == nil {
			return Decision{Commands: []Command{ExportDay{Date: d}}}
		}
		return stay()
	}

	switch s.Step.Stage {
	case StageGoods:
		switch key {
		case "product":
			if value == "new" {
				return next(Step{Op: s.Step.Op, Stage: StageProductNew}, s.Pending,
					AskNewProduct{Op: s.Step.Op})
			}
			p := s.Pending
			p.Product = value
			p.Page = 0
			return next(Step{Op: s.Step.Op, Stage: StagePrices}, p,
				ShowPrices{Op: s.Step.Op, Product: value, Page: 0})
		case "page":
			page, err := strconv.Atoi(value)
			if err != nil || page < 0 {
				return stay()
			}
			p := s.Pending
			p.Page = page
			return next(s.Step, p, ShowGoods{Op: s.Step.Op, Page: page, Edit: true})
		}

	case StagePrices:
		if s.Pending.Product == "" {
			return corrupted()
		}
		switch key {
		case "price":
			if value == "new" {
				return next(Step{Op: s.Step.Op, Stage: StagePriceInput}, s.Pending,
					AskPrice{Op: s.Step.Op, Product: s.Pending.Product, Edit: true})
			}
			price, err := strconv.Atoi(value)
			if err != nil || price < 0 {
				return stay()
			}
			p := s.Pending
			p.Price = price
			if s.Step.Op == ledger.OpDiscount {
				// Переоценка: выбранная цена — старая, дальше вводим новую.
				return next(Step{Op: s.Step.Op, Stage: StagePriceInput}, p,
					AskPrice{Op: s.Step.Op, Product: p.Product, Edit: true})
			}
			return next(Step{Op: s.Step.Op, Stage: StageQty}, p,
				AskQty{Op: s.Step.Op, Product: p.Product, Price: price, Edit: true})
		case "page":
			page, err := strconv.Atoi(value)
			if err != nil || page < 0 {
				return stay()
			}
			p := s.Pending
			p.Page = page
			return next(s.Step, p,
				ShowPrices{Op: s.Step.Op, Product: p.Product, Page: page})
		}

	case StageQty:
		if s.Pending.Product == "" {
			return corrupted()
		}
		switch key {
		case "other":
			return next(Step{Op: s.Step.Op, Stage: StageQtyInput}, s.Pending,
				AskQtyInput{Op: s.Step.Op, Product: s.Pending.Product, Price: qtyPrice(s.Pending)})
		case "qty":
			qty, err := strconv.Atoi(value)
			if err != nil || qty <= 0 {
				return stay()
			}
			return toConfirm(s, qty, true)
		}

	case StageConfirm:
		if key == "confirm" {
			p := s.Pending
			if p.Product == "" || p.Qty <= 0 {
				return corrupted()
			}
			e := ledger.Entry{
				Date:     s.EffectiveDate(now),
				Type:     s.Step.Op.Label(),
				Product:  p.Product,
				Qty:      p.Qty,
				Price:    p.Price,
				NewPrice: p.NewPrice,
			}
			return reset(
				Append{Entry: e},
				Saved{
					Op: s.Step.Op, Product: p.Product,
					Price: p.Price, NewPrice: p.NewPrice,
					Qty: p.Qty, Total: p.Total,
					Date: e.Date.Format(dates.Layout),
				},
			)
		}
	}

	// Повторная доставка устаревшего колбэка: состояние уже ушло дальше.
	return stay()
}

// qtyPrice — цена, по которой считается сумма: для переоценки новая.
func qtyPrice(p Pending) int {
	if p.NewPrice > 0 {
		return p.NewPrice
	}
	return p.Price
}

func toConfirm(s Session, qty int, edit bool) Decision {
	p := s.Pending
	p.Qty = qty
	p.Total = qtyPrice(p) * qty
	return next(Step{Op: s.Step.Op, Stage: StageConfirm}, p,
		AskConfirm{Op: s.Step.Op, Product: p.Product, Price: qtyPrice(p), Qty: qty, Edit: edit})
}

// corrupted — в Pending нет полей, обязательных для этапа (например,
// confirm без цены). Такое состояние не чиним, а сбрасываем.
func corrupted() Decision {
	return reset(Say{Text: "Диалог сбился, начните заново."}, MainMenu{})
}
