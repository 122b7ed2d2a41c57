package ledger

import (
	"reflect"
	"testing"
	"time"
)

func day(dd string) time.Time {
	d, err := time.Parse("02.01.2006", dd)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregate_SingleSale(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 3, Price: 20},
	}
	rep := Aggregate(log, day("10.01.2025"), 1000)

	if rep.StartBalance != 1000 {
		t.Fatalf("start balance = %d", rep.StartBalance)
	}
	if rep.EndBalance != 940 {
		t.Fatalf("end balance = %d", rep.EndBalance)
	}
	if len(rep.Sections) != 1 {
		t.Fatalf("sections = %d", len(rep.Sections))
	}
	sec := rep.Sections[0]
	if sec.Op != OpSale || sec.Total != -60 {
		t.Fatalf("sale section total = %d", sec.Total)
	}
	if rep.ShowGrand {
		t.Fatal("grand total must be hidden for a single active type")
	}
}

func TestAggregate_DiscountDelta(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Переоценка", Product: "Milk", Qty: 5, Price: 20, NewPrice: 18},
	}
	rep := Aggregate(log, day("10.01.2025"), 1000)

	if len(rep.Sections) != 1 {
		t.Fatalf("sections = %d", len(rep.Sections))
	}
	sec := rep.Sections[0]
	if sec.Op != OpDiscount || sec.Total != -10 {
		t.Fatalf("discount total = %d", sec.Total)
	}
	if len(sec.Discounts) != 1 || sec.Discounts[0].Delta != -10 {
		t.Fatalf("discount lines = %+v", sec.Discounts)
	}
	if rep.EndBalance != 990 {
		t.Fatalf("end balance = %d", rep.EndBalance)
	}
}

func TestAggregate_BalanceContinuity(t *testing.T) {
	// Конец предыдущего дня с операциями == начало следующего.
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Bread", Qty: 2, Price: 25},
		{Date: day("10.01.2025"), Type: "Приход", Product: "Milk", Qty: 10, Price: 20},
		{Date: day("12.01.2025"), Type: "Возврат", Product: "Bread", Qty: 1, Price: 25},
	}
	first := Aggregate(log, day("10.01.2025"), 1000)
	second := Aggregate(log, day("12.01.2025"), 1000)
	if second.StartBalance != first.EndBalance {
		t.Fatalf("start of 12.01 = %d, end of 10.01 = %d", second.StartBalance, first.EndBalance)
	}
}

func TestAggregate_FutureRowsIgnored(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 1, Price: 20},
		{Date: day("11.01.2025"), Type: "Продажа", Product: "Milk", Qty: 100, Price: 20},
	}
	rep := Aggregate(log, day("10.01.2025"), 500)
	if rep.EndBalance != 480 {
		t.Fatalf("end balance = %d, future row leaked in", rep.EndBalance)
	}
}

func TestAggregate_GroupsByArticle(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 1, Price: 20},
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 2, Price: 20},
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 1, Price: 25},
	}
	rep := Aggregate(log, day("10.01.2025"), 0)
	sec := rep.Sections[0]
	want := []LineItem{
		{Product: "Milk", Qty: 3, Price: 20},
		{Product: "Milk", Qty: 1, Price: 25},
	}
	if !reflect.DeepEqual(sec.Items, want) {
		t.Fatalf("items = %+v, want %+v", sec.Items, want)
	}
	if sec.Total != -85 {
		t.Fatalf("total = %d", sec.Total)
	}
}

func TestAggregate_GrandTotalWithTwoTypes(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 3, Price: 20},
		{Date: day("10.01.2025"), Type: "Приход", Product: "Bread", Qty: 4, Price: 25},
	}
	rep := Aggregate(log, day("10.01.2025"), 0)
	if !rep.ShowGrand {
		t.Fatal("grand total must be shown for two active types")
	}
	if rep.GrandTotal != 40 {
		t.Fatalf("grand total = %d", rep.GrandTotal)
	}
}

func TestAggregate_UnknownLabelSkipped(t *testing.T) {
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Хрень", Product: "Milk", Qty: 3, Price: 20},
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 1, Price: 20},
	}
	rep := Aggregate(log, day("10.01.2025"), 100)
	if len(rep.Skipped) != 1 || rep.Skipped[0] != "Хрень" {
		t.Fatalf("skipped = %v", rep.Skipped)
	}
	if rep.EndBalance != 80 {
		t.Fatalf("end balance = %d, unknown row corrupted totals", rep.EndBalance)
	}
}

func TestAggregate_ZeroDeltaDiscountHidden(t *testing.T) {
	// Переоценки взаимно гасятся: секции нет, итоги не затронуты.
	log := []Entry{
		{Date: day("10.01.2025"), Type: "Переоценка", Product: "Milk", Qty: 5, Price: 20, NewPrice: 22},
		{Date: day("10.01.2025"), Type: "Переоценка", Product: "Milk", Qty: 5, Price: 22, NewPrice: 20},
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 1, Price: 20},
	}
	rep := Aggregate(log, day("10.01.2025"), 100)
	for _, sec := range rep.Sections {
		if sec.Op == OpDiscount {
			t.Fatal("zero-delta discount section emitted")
		}
	}
	if rep.ShowGrand {
		t.Fatal("grand total shown with a single visible section")
	}
	if rep.EndBalance != 80 {
		t.Fatalf("end balance = %d", rep.EndBalance)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	log := []Entry{
		{Date: day("09.01.2025"), Type: "Приход", Product: "Milk", Qty: 10, Price: 20},
		{Date: day("10.01.2025"), Type: "Продажа", Product: "Milk", Qty: 3, Price: 20},
		{Date: day("10.01.2025"), Type: "Переоценка", Product: "Milk", Qty: 5, Price: 20, NewPrice: 22},
	}
	a := Aggregate(log, day("10.01.2025"), 1000)
	b := Aggregate(log, day("10.01.2025"), 1000)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs over the same log differ")
	}
}
