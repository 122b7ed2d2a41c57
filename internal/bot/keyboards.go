package bot

import (
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/dialog"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
	"github.com/lexeii/shoppy-bot/internal/paginate"
)

type choice struct {
	label string
	data  string
}

// grid раскладывает кнопки по три в ряд, как в исходных списках товаров.
func grid(items []choice, cols int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, it := range items {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(it.label, it.data))
		if len(row) == cols {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func navRow(page int, hasPrev, hasNext bool) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if hasPrev {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀ Назад", "page_"+strconv.Itoa(page-1)))
	}
	if hasNext {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Вперед ▶", "page_"+strconv.Itoa(page+1)))
	}
	return row
}

func pagedMarkup(items []choice, perPage, page int) (*tgbotapi.InlineKeyboardMarkup, paginate.Page[choice], int) {
	total := paginate.Pages(len(items), perPage)
	pg := paginate.Slice(items, perPage, page)
	rows := grid(pg.Items, 3)
	if nav := navRow(page, pg.HasPrev, pg.HasNext); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, cancelRow())
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb, pg, total
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "cancel"),
	)
}

func cancelMarkup() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(cancelRow())
	return &kb
}

func qtyMarkup() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1", "qty_1"),
			tgbotapi.NewInlineKeyboardButtonData("2", "qty_2"),
			tgbotapi.NewInlineKeyboardButtonData("3", "qty_3"),
			tgbotapi.NewInlineKeyboardButtonData("Другое…", "other"),
		),
		cancelRow(),
	)
	return &kb
}

func confirmMarkup() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", "confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "cancel"),
		),
	)
	return &kb
}

func exportMarkup(date string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Excel", "export_"+date),
		),
	)
	return &kb
}

// mainMenuMarkup — постоянная reply-клавиатура: операции, отчёт,
// продавец смены и индикатор выбранной даты.
func mainMenuMarkup(sellerLabel, dateLabel string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ledger.OpSale.Label()),
			tgbotapi.NewKeyboardButton(ledger.OpIncome.Label()),
			tgbotapi.NewKeyboardButton(ledger.OpOutcome.Label()),
			tgbotapi.NewKeyboardButton(ledger.OpDiscount.Label()),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ledger.OpReturn.Label()),
			tgbotapi.NewKeyboardButton(dialog.WordReport),
			tgbotapi.NewKeyboardButton(sellerLabel),
			tgbotapi.NewKeyboardButton(dateLabel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// dateMarkup — быстрый выбор: позавчера, вчера, сегодня.
func dateMarkup(now time.Time) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(now.AddDate(0, 0, -2).Format(dates.Layout)),
			tgbotapi.NewKeyboardButton(now.AddDate(0, 0, -1).Format(dates.Layout)),
			tgbotapi.NewKeyboardButton(dialog.WordToday),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}
