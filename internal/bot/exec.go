package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/dialog"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
	"github.com/lexeii/shoppy-bot/internal/domain/payroll"
	"github.com/lexeii/shoppy-bot/internal/domain/settings"
	"github.com/lexeii/shoppy-bot/internal/infra/metrics"
	"github.com/lexeii/shoppy-bot/internal/report"
)

// Подписи шагов подтверждения и итоговых сообщений по операциям.
var opText = map[ledger.Op]struct{ confirm, saved, cancelled string }{
	ledger.OpSale:     {"Подтвердите продажу:", "Продажа сохранена ✅", "Продажа отменена ❌"},
	ledger.OpIncome:   {"Подтвердите приход:", "Приход сохранён ✅", "Приход отменён ❌"},
	ledger.OpOutcome:  {"Подтвердите списание:", "Списание сохранено ✅", "Списание отменено ❌"},
	ledger.OpDiscount: {"Подтвердите переоценку:", "Переоценка сохранена ✅", "Переоценка отменена ❌"},
	ledger.OpReturn:   {"Подтвердите возврат:", "Возврат сохранён ✅", "Возврат отменён ❌"},
}

type reqCtx struct {
	sets settings.Settings
	name string
	now  time.Time
}

// execute выполняет команды решения по порядку и затем сохраняет
// состояние. Запись в журнал сбрасывает сессию в той же транзакции,
// поэтому после Append отдельная запись состояния не нужна.
func (b *Bot) execute(ctx context.Context, s *dialog.Session, d dialog.Decision, rc reqCtx) {
	chatID := s.ChatID
	pending := d.Pending
	editID := s.Pending.MessageID
	appended := false

	sel := s.SelectedDate
	if d.SetDate != nil {
		sel = *d.SetDate
	}

	for _, cmd := range d.Commands {
		switch c := cmd.(type) {
		case dialog.ShowGoods:
			if id := b.showGoods(ctx, chatID, c, editID); id != 0 {
				pending.MessageID = id
			}

		case dialog.ShowPrices:
			if id := b.showPrices(ctx, chatID, c, editID); id != 0 {
				pending.MessageID = id
			}

		case dialog.AskNewProduct:
			text := fmt.Sprintf("<b>%s.</b> Введите название нового товара:", c.Op.Label())
			if id := b.editOrSend(chatID, editID, text, cancelMarkup()); id != 0 {
				pending.MessageID = id
			}

		case dialog.AskPrice:
			var text string
			if c.Op == ledger.OpDiscount && d.Pending.Price > 0 {
				text = fmt.Sprintf("<b>%s: %s</b> по %d ₴.\n\nВведите новую цену:",
					c.Op.Label(), c.Product, d.Pending.Price)
			} else {
				text = fmt.Sprintf("<b>%s: %s.</b>\n\nВведите цену:", c.Op.Label(), c.Product)
			}
			if c.Edit && editID != 0 {
				b.editHTML(chatID, editID, text, cancelMarkup())
			} else {
				b.stripButtons(chatID, editID)
				if id := b.sendHTML(chatID, text, cancelMarkup()); id != 0 {
					pending.MessageID = id
				}
			}

		case dialog.AskQty:
			text := fmt.Sprintf("<b>%s: %s</b> по <b>%d ₴</b>. Количество:",
				c.Op.Label(), c.Product, c.Price)
			if c.Edit && editID != 0 {
				b.editHTML(chatID, editID, text, qtyMarkup())
			} else {
				b.stripButtons(chatID, editID)
				if id := b.sendHTML(chatID, text, qtyMarkup()); id != 0 {
					pending.MessageID = id
				}
			}

		case dialog.AskQtyInput:
			text := fmt.Sprintf("<b>%s: %s</b> по <b>%d ₴</b>.\n\nВведите количество:",
				c.Op.Label(), c.Product, c.Price)
			if id := b.editOrSend(chatID, editID, text, cancelMarkup()); id != 0 {
				pending.MessageID = id
			}

		case dialog.AskConfirm:
			text := fmt.Sprintf("%s\n\n<b>%s</b> %d × %d ₴ = <b>%d ₴</b>\n\nВсё верно?",
				opText[c.Op].confirm, c.Product, c.Qty, c.Price, d.Pending.Total)
			if c.Edit && editID != 0 {
				b.editHTML(chatID, editID, text, confirmMarkup())
			} else {
				b.stripButtons(chatID, editID)
				if id := b.sendHTML(chatID, text, confirmMarkup()); id != 0 {
					pending.MessageID = id
				}
			}

		case dialog.Append:
			if err := b.ledger.AppendConfirmed(ctx, c.Entry, chatID); err != nil {
				b.log.Error("ledger append failed", "err", err, "chat_id", chatID)
				b.sendHTML(chatID, "Не удалось сохранить запись, попробуйте ещё раз.", nil)
				return // остаёмся на шаге подтверждения
			}
			if op, ok := ledger.OpFromLabel(c.Entry.Type); ok {
				metrics.AppendsTotal.WithLabelValues(string(op)).Inc()
			}
			appended = true

		case dialog.Saved:
			line := fmt.Sprintf("<b>%s</b> %d × %d ₴", c.Product, c.Qty, c.Price)
			if c.NewPrice > 0 {
				line = fmt.Sprintf("<b>%s</b> %d × %d → %d ₴", c.Product, c.Qty, c.Price, c.NewPrice)
			}
			text := fmt.Sprintf("%s\n\n%s = <b>%d ₴</b>\nДата: <b>%s</b>",
				opText[c.Op].saved, line, c.Total, c.Date)
			b.editOrSend(chatID, editID, text, nil)

		case dialog.Cancelled:
			b.editOrSend(chatID, editID, opText[c.Op].cancelled, nil)

		case dialog.SendReport:
			b.sendReport(ctx, chatID, c.Date, rc)

		case dialog.ExportDay:
			b.exportDay(ctx, chatID, c.Date)

		case dialog.SendPayroll:
			b.sendPayroll(ctx, chatID, rc.now)

		case dialog.AskDate:
			b.stripButtons(chatID, editID)
			m := "Выберите дату или введите её в формате ДД.ММ.ГГГГ:"
			b.sendHTML(chatID, m, dateMarkup(rc.now))

		case dialog.MainMenu:
			b.sendMainMenu(ctx, chatID, c, sel, rc)

		case dialog.Say:
			b.sendHTML(chatID, c.Text, nil)
		}
	}

	if !d.Persist || appended {
		return
	}
	// Явный возврат в главное меню сохраняем безусловно: отмена не
	// должна проигрывать гонку второму апдейту.
	if d.Step.Idle() && pending == (dialog.Pending{}) && d.SetDate == nil {
		if err := b.sessions.Reset(ctx, chatID); err != nil {
			b.log.Error("session reset failed", "err", err, "chat_id", chatID)
		}
		return
	}
	ok, err := b.sessions.SetCAS(ctx, chatID, s.Version, d.Step, pending, d.SetDate)
	if err != nil {
		b.log.Error("session write failed", "err", err, "chat_id", chatID)
		return
	}
	if !ok {
		metrics.CASConflictsTotal.Inc()
		b.log.Warn("session write lost race", "chat_id", chatID)
	}
}

func (b *Bot) editOrSend(chatID int64, editID int, text string, kb any) int {
	if editID != 0 {
		var ikb *tgbotapi.InlineKeyboardMarkup
		if m, okCast := kb.(*tgbotapi.InlineKeyboardMarkup); okCast {
			ikb = m
		}
		b.editHTML(chatID, editID, text, ikb)
		return 0
	}
	return b.sendHTML(chatID, text, kb)
}

func (b *Bot) showGoods(ctx context.Context, chatID int64, c dialog.ShowGoods, editID int) int {
	products, err := b.catalog.ListProducts(ctx)
	if err != nil {
		b.log.Error("product list failed", "err", err)
		b.sendHTML(chatID, "Не удалось получить список товаров.", nil)
		return 0
	}
	items := make([]choice, 0, len(products)+1)
	for _, p := range products {
		label := p.Name
		if p.Emoji != "" {
			label = p.Emoji + " " + p.Name
		}
		items = append(items, choice{label: label, data: "product_" + p.Name})
	}
	if c.Op == ledger.OpIncome {
		items = append(items, choice{label: dialog.IcoNew + " Новый товар…", data: "product_new"})
	}
	kb, _, total := pagedMarkup(items, b.goodsPage, c.Page)
	text := fmt.Sprintf("<b>%s.</b> Товары %d/%d:", c.Op.Label(), c.Page+1, total)
	if c.Edit && editID != 0 {
		b.editHTML(chatID, editID, text, kb)
		return editID
	}
	b.stripButtons(chatID, editID)
	return b.sendHTML(chatID, text, kb)
}

func (b *Bot) showPrices(ctx context.Context, chatID int64, c dialog.ShowPrices, editID int) int {
	prices, err := b.catalog.ListKnownPrices(ctx, c.Product)
	if err != nil {
		b.log.Error("price list failed", "err", err, "product", c.Product)
		b.sendHTML(chatID, "Не удалось получить список цен.", nil)
		return 0
	}
	items := make([]choice, 0, len(prices)+1)
	for _, p := range prices {
		items = append(items, choice{label: strconv.Itoa(p) + " ₴", data: "price_" + strconv.Itoa(p)})
	}
	if c.Op == ledger.OpIncome {
		items = append(items, choice{label: dialog.IcoNew + " Новая цена…", data: "price_new"})
	}
	kb, _, total := pagedMarkup(items, b.pricesPage, c.Page)
	text := pricesHeader(c.Op, c.Product, c.Page, total)
	if editID != 0 {
		b.editHTML(chatID, editID, text, kb)
		return editID
	}
	return b.sendHTML(chatID, text, kb)
}

// pricesHeader — счётчик страниц показываем, только когда их больше одной.
func pricesHeader(op ledger.Op, product string, page, total int) string {
	if total > 1 {
		return fmt.Sprintf("<b>%s: %s.</b> Цены %d/%d:", op.Label(), product, page+1, total)
	}
	return fmt.Sprintf("<b>%s: %s.</b> Цены:", op.Label(), product)
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, date time.Time, rc reqCtx) {
	entries, err := b.ledger.Scan(ctx)
	if err != nil {
		b.log.Error("ledger scan failed", "err", err)
		b.sendHTML(chatID, "Не удалось построить отчёт.", nil)
		return
	}
	rep := ledger.Aggregate(entries, date, rc.sets.Int(settings.KeyOpeningBalance))
	for _, lbl := range rep.Skipped {
		metrics.SkippedRowsTotal.Inc()
		b.log.Warn("unknown operation label in journal", "label", lbl)
	}
	b.sendHTML(chatID, report.Day(rep), exportMarkup(date.Format(dates.Layout)))
}

func (b *Bot) exportDay(ctx context.Context, chatID int64, date time.Time) {
	entries, err := b.ledger.Scan(ctx)
	if err != nil {
		b.log.Error("ledger scan failed", "err", err)
		b.sendHTML(chatID, "Не удалось выгрузить журнал.", nil)
		return
	}
	data, name, err := report.DayJournal(entries, date)
	if err != nil {
		b.log.Error("journal export failed", "err", err)
		b.sendHTML(chatID, "Не удалось выгрузить журнал.", nil)
		return
	}
	b.sendDocument(chatID, name, data, "Журнал за "+date.Format(dates.Layout))
}

func (b *Bot) sendPayroll(ctx context.Context, chatID int64, now time.Time) {
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	shifts, err := b.schedule.ScanMonth(ctx, month)
	if err != nil {
		b.log.Error("schedule scan failed", "err", err)
		b.sendHTML(chatID, "Не удалось получить график смен.", nil)
		return
	}
	res := payroll.Calculate(shifts, month, now, b.rates, b.forecast)
	b.sendHTML(chatID, report.Payroll(res), nil)
}

func (b *Bot) sendMainMenu(ctx context.Context, chatID int64, c dialog.MainMenu, sel string, rc reqCtx) {
	eff := dialog.Session{SelectedDate: sel}.EffectiveDate(rc.now)
	seller, err := b.schedule.SellerOn(ctx, eff)
	if err != nil {
		b.log.Warn("seller lookup failed", "err", err)
	}
	sellerLabel := dialog.IcoSeller
	if seller != "" {
		sellerLabel = dialog.IcoSeller + " " + seller
	}
	dateLabel := dialog.IcoToday + " " + dialog.WordToday
	if sel != "" {
		dateLabel = dialog.IcoDay + " " + sel
	}

	text := c.Note
	if c.Greeting {
		text = rc.sets.Render(settings.KeyStartMsg, map[string]string{"name": rc.name})
	}
	if text == "" {
		text = "Выберите операцию:"
	}
	b.sendHTML(chatID, text, mainMenuMarkup(sellerLabel, dateLabel))
}
