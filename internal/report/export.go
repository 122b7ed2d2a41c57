package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lexeii/shoppy-bot/internal/dates"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
)

// DayJournal выгружает строки журнала за дату в .xlsx — колонки как в
// исходном листе Log. Возвращает содержимое файла и его имя.
func DayJournal(entries []ledger.Entry, date time.Time) ([]byte, string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []string{"Дата", "Тип", "Товар", "Кол-во", "Цена", "Новая цена", "Артикул", "Новый артикул"}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	rowIdx := 2
	for _, e := range entries {
		if !sameDay(e.Date, date) {
			continue
		}
		values := []any{
			e.Date.Format(dates.Layout), e.Type, e.Product, e.Qty, e.Price,
		}
		if e.NewPrice > 0 {
			values = append(values, e.NewPrice)
		} else {
			values = append(values, "")
		}
		values = append(values, e.Article(), e.ArticleNew())

		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
		rowIdx++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("journal_%s.xlsx", date.Format("20060102"))
	return buf.Bytes(), name, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
