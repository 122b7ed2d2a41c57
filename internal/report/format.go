// Package report — чистое форматирование: превращает результаты
// агрегатора журнала и расчёта зарплаты в текст сообщений (HTML-разметка
// Telegram) и файлы выгрузки.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
	"github.com/lexeii/shoppy-bot/internal/domain/payroll"
)

// Разделители тысяч как в исходной таблице (uk-UA: 1 000 000).
var printer = message.NewPrinter(language.Ukrainian)

func money(n int) string { return printer.Sprintf("%d", n) }

// signed — знак пишем всегда: продажа/списание с минусом, приход/возврат
// и положительная переоценка с плюсом.
func signed(n int) string {
	if n > 0 {
		return "+" + money(n)
	}
	return money(n)
}

// Day собирает текст отчёта за день. Секции без активности опущены;
// общий итог печатается только при двух и более активных типах.
func Day(rep ledger.DayReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>ОТЧЁТ за %s</b>\n", rep.Date.Format(dates.Layout))

	for _, sec := range rep.Sections {
		fmt.Fprintf(&b, "\n<b>%s:</b>\n", sec.Op.Label())
		for _, it := range sec.Items {
			fmt.Fprintf(&b, "🔸%s %d×%s\n", it.Product, it.Qty, money(it.Price))
		}
		for _, d := range sec.Discounts {
			fmt.Fprintf(&b, "🔹%s %d×%s → %d×%s (%s)\n",
				d.Product, d.Qty, money(d.Price), d.Qty, money(d.NewPrice), signed(d.Delta))
		}
		fmt.Fprintf(&b, "Итого: <b>%s</b> ₴\n", signed(sec.Total))
	}

	if rep.ShowGrand {
		fmt.Fprintf(&b, "\nИтого за день: <b>%s</b> ₴\n", signed(rep.GrandTotal))
	}

	b.WriteString("\n<b>Остаток товаров:</b>\n")
	fmt.Fprintf(&b, "💵 начало дня: <b>%s</b> ₴\n", money(rep.StartBalance))
	fmt.Fprintf(&b, "💵 конец дня: <b>%s</b> ₴", money(rep.EndBalance))

	return b.String()
}

// Payroll — сводка зарплаты за месяц.
func Payroll(res payroll.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Продавцы за %s</b>\n", res.Month.Format("01.2006"))

	if len(res.Sellers) == 0 {
		b.WriteString("\nСмен в этом месяце пока нет.")
		return b.String()
	}

	for _, s := range res.Sellers {
		fmt.Fprintf(&b, "\n🤵 %s: %s ₴ (%d%%), смен: %d", s.Name, money(s.Sales), s.Percent, s.DaysWorked)
	}

	fmt.Fprintf(&b, "\n\nОборот: <b>%s</b> ₴", money(res.TotalSales))
	if res.Forecast {
		fmt.Fprintf(&b, "\nПрогноз до конца месяца: <b>%s</b> ₴ (+%s)", money(res.FinalSales), money(res.Projected))
	}
	fmt.Fprintf(&b, "\nЗарплата продавца: <b>%s</b> ₴", money(res.SalaryEach))

	return b.String()
}
