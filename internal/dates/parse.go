package dates

import (
	"strconv"
	"strings"
	"time"
)

// Layout — формат дат во всём боте (журнал, меню, отчёты).
const Layout = "02.01.2006"

// Parse разбирает свободный ввод даты. Допустимые формы:
//
//	"17"         — день текущего месяца
//	"17.11"      — день и месяц текущего года
//	"17.11.25"   — двухзначный год (+2000)
//	"17.11.2025" — полный год (2000..2100)
//
// Возвращает дату с полночью в локации now и ok=false, если ввод
// не является существующей календарной датой.
func Parse(input string, now time.Time) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(input), ".")

	var day, month, year int
	var err error

	switch len(parts) {
	case 1:
		day, err = atoi(parts[0])
		month = int(now.Month())
		year = now.Year()
	case 2:
		day, err = atoi(parts[0])
		if err == nil {
			month, err = atoi(parts[1])
		}
		year = now.Year()
	case 3:
		day, err = atoi(parts[0])
		if err == nil {
			month, err = atoi(parts[1])
		}
		if err == nil {
			year, err = atoi(parts[2])
		}
		switch {
		case err != nil:
		case len(parts[2]) == 2:
			year += 2000
		case len(parts[2]) == 4:
			if year < 2000 || year > 2100 {
				return time.Time{}, false
			}
		default:
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}
	if err != nil {
		return time.Time{}, false
	}

	// time.Date нормализует переполнение (31.04 → 01.05), поэтому
	// проверяем, что дата собралась ровно из введённых компонентов.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
