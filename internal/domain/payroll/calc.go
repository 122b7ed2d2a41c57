// Package payroll считает зарплату продавцов по графику смен:
// база + процент с продаж + бонус за каждый порог оборота.
// Для текущего незавершённого месяца продажи достраиваются линейным
// прогнозом по среднему за прошедшие смены.
package payroll

import (
	"math"
	"time"
)

// Shift — строка графика: кто работал в дату и на какую сумму продал.
type Shift struct {
	Date   time.Time
	Seller string
	Sales  int
}

// Rates — параметры расчёта (из конфига).
type Rates struct {
	Base              int     // оклад за месяц
	CommissionRate    float64 // доля с продаж, например 0.03
	BonusThreshold    int     // порог оборота для бонуса
	BonusPerThreshold int     // бонус за каждый полный порог
}

type SellerStat struct {
	Name       string
	Sales      int
	DaysWorked int
	Percent    int // доля в общем обороте, округлённая до процента
}

type Result struct {
	Month       time.Time
	Sellers     []SellerStat // в порядке появления в графике
	TotalSales  int          // фактический оборот: только смены не позже сегодня
	Forecast    bool         // прогноз применён
	Projected   int          // добавка прогноза к факту
	FinalSales  int          // оборот, по которому считается оплата
	SalaryEach  int          // оплата одного продавца
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Calculate агрегирует смены за месяц month. При forecast и month ==
// текущему месяцу факт достраивается до конца месяца; если прошедших
// смен или оставшихся дней нет, прогноз тихо вырождается в факт.
func Calculate(shifts []Shift, month time.Time, now time.Time, rates Rates, forecast bool) Result {
	res := Result{Month: month}

	idx := map[string]int{}
	sellerTotal := 0
	daysPassed := 0

	for _, s := range shifts {
		if !sameMonth(s.Date, month) {
			continue
		}
		i, ok := idx[s.Seller]
		if !ok {
			i = len(res.Sellers)
			idx[s.Seller] = i
			res.Sellers = append(res.Sellers, SellerStat{Name: s.Seller})
		}
		res.Sellers[i].Sales += s.Sales
		res.Sellers[i].DaysWorked++
		sellerTotal += s.Sales
		// Будущие смены — план, а не факт: в оборот и в среднее
		// не входят, иначе прогноз считал бы их дважды.
		if !s.Date.After(now) {
			res.TotalSales += s.Sales
			daysPassed++
		}
	}

	res.FinalSales = res.TotalSales
	if forecast && sameMonth(month, now) {
		daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
		daysRemaining := daysInMonth - now.Day()
		if daysPassed > 0 && daysRemaining > 0 {
			avg := float64(res.TotalSales) / float64(daysPassed)
			res.Projected = int(math.Round(avg * float64(daysRemaining)))
			res.FinalSales = res.TotalSales + res.Projected
			res.Forecast = true
		}
	}

	res.SalaryEach = rates.Base +
		int(math.Round(float64(res.FinalSales)*rates.CommissionRate))
	if rates.BonusThreshold > 0 {
		res.SalaryEach += (res.FinalSales / rates.BonusThreshold) * rates.BonusPerThreshold
	}

	for i := range res.Sellers {
		if sellerTotal > 0 {
			res.Sellers[i].Percent = int(math.Round(100 * float64(res.Sellers[i].Sales) / float64(sellerTotal)))
		}
	}
	return res
}
