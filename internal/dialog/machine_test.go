package dialog

import (
	"testing"
	"time"

	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
)

var now = time.Date(2025, time.November, 9, 15, 30, 0, 0, time.UTC)

func text(s string) Event     { return Event{Kind: EventText, Text: s} }
func callback(d string) Event { return Event{Kind: EventCallback, Data: d} }

func apply(t *testing.T, s Session, ev Event) (Session, Decision) {
	t.Helper()
	d := Decide(s, ev, now)
	if d.Persist {
		s.Step = d.Step
		s.Pending = d.Pending
	}
	if d.SetDate != nil {
		s.SelectedDate = *d.SetDate
	}
	return s, d
}

func appends(d Decision) []ledger.Entry {
	var out []ledger.Entry
	for _, c := range d.Commands {
		if a, ok := c.(Append); ok {
			out = append(out, a.Entry)
		}
	}
	return out
}

func TestSaleHappyPath(t *testing.T) {
	s := Session{ChatID: 1}

	s, d := apply(t, s, text("Продажа"))
	if s.Step != (Step{Op: ledger.OpSale, Stage: StageGoods}) {
		t.Fatalf("after command: step = %+v", s.Step)
	}
	if _, ok := d.Commands[0].(ShowGoods); !ok {
		t.Fatalf("expected ShowGoods, got %T", d.Commands[0])
	}

	s, _ = apply(t, s, callback("product_Bread"))
	if s.Step.Stage != StagePrices || s.Pending.Product != "Bread" {
		t.Fatalf("after product: step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, _ = apply(t, s, callback("price_25"))
	if s.Step.Stage != StageQty || s.Pending.Price != 25 {
		t.Fatalf("after price: step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, _ = apply(t, s, callback("qty_2"))
	if s.Step.Stage != StageConfirm || s.Pending.Qty != 2 || s.Pending.Total != 50 {
		t.Fatalf("after qty: step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, d = apply(t, s, callback("confirm"))
	if !s.Step.Idle() {
		t.Fatalf("after confirm: step=%+v, want idle", s.Step)
	}
	got := appends(d)
	if len(got) != 1 {
		t.Fatalf("appends = %d, want exactly 1", len(got))
	}
	e := got[0]
	if e.Type != "Продажа" || e.Product != "Bread" || e.Qty != 2 || e.Price != 25 || e.NewPrice != 0 {
		t.Fatalf("entry = %+v", e)
	}
	if e.Date.Format("02.01.2006") != "09.11.2025" {
		t.Fatalf("entry date = %v, want today", e.Date)
	}
}

func TestSelectedDateUsedForAppend(t *testing.T) {
	s := Session{
		ChatID:       1,
		Step:         Step{Op: ledger.OpSale, Stage: StageConfirm},
		Pending:      Pending{Product: "Bread", Price: 25, Qty: 1, Total: 25},
		SelectedDate: "01.11.2025",
	}
	_, d := apply(t, s, callback("confirm"))
	e := appends(d)[0]
	if e.Date.Format("02.01.2006") != "01.11.2025" {
		t.Fatalf("entry date = %v, want selected date", e.Date)
	}
}

func TestCancelAtEveryStage(t *testing.T) {
	stages := []Step{
		{Op: ledger.OpSale, Stage: StageGoods},
		{Op: ledger.OpSale, Stage: StagePrices},
		{Op: ledger.OpSale, Stage: StagePriceInput},
		{Op: ledger.OpSale, Stage: StageQty},
		{Op: ledger.OpSale, Stage: StageQtyInput},
		{Op: ledger.OpSale, Stage: StageConfirm},
	}
	for _, st := range stages {
		s := Session{ChatID: 1, Step: st, Pending: Pending{Product: "Bread", Price: 25}}
		s, d := apply(t, s, callback("cancel"))
		if !s.Step.Idle() {
			t.Errorf("cancel at %v left step %v", st, s.Step)
		}
		if len(appends(d)) != 0 {
			t.Errorf("cancel at %v produced a ledger append", st)
		}
	}
}

func TestRedeliveredConfirmIsNoop(t *testing.T) {
	// Состояние уже сброшено первым confirm; повтор не должен писать.
	s := Session{ChatID: 1}
	_, d := apply(t, s, callback("confirm"))
	if d.Persist || len(appends(d)) != 0 {
		t.Fatalf("stale confirm: persist=%v appends=%d", d.Persist, len(appends(d)))
	}
}

func TestPageNavigationKeepsStage(t *testing.T) {
	s := Session{ChatID: 1, Step: Step{Op: ledger.OpIncome, Stage: StageGoods}}
	s, d := apply(t, s, callback("page_2"))
	if s.Step.Stage != StageGoods || s.Pending.Page != 2 {
		t.Fatalf("after page: step=%+v pending=%+v", s.Step, s.Pending)
	}
	sg, ok := d.Commands[0].(ShowGoods)
	if !ok || !sg.Edit || sg.Page != 2 {
		t.Fatalf("command = %#v", d.Commands[0])
	}
}

func TestIncomeNewProductFlow(t *testing.T) {
	s := Session{ChatID: 1, Step: Step{Op: ledger.OpIncome, Stage: StageGoods}}

	s, _ = apply(t, s, callback("product_new"))
	if s.Step.Stage != StageProductNew {
		t.Fatalf("step = %+v", s.Step)
	}

	s, _ = apply(t, s, text("Кефир"))
	if s.Step.Stage != StagePriceInput || s.Pending.Product != "Кефир" {
		t.Fatalf("step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, _ = apply(t, s, text("45"))
	if s.Step.Stage != StageQty || s.Pending.Price != 45 {
		t.Fatalf("step=%+v pending=%+v", s.Step, s.Pending)
	}
}

func TestDiscountAsksNewPrice(t *testing.T) {
	s := Session{ChatID: 1, Step: Step{Op: ledger.OpDiscount, Stage: StagePrices},
		Pending: Pending{Product: "Milk"}}

	s, _ = apply(t, s, callback("price_20"))
	if s.Step.Stage != StagePriceInput || s.Pending.Price != 20 {
		t.Fatalf("after old price: step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, _ = apply(t, s, text("18"))
	if s.Step.Stage != StageQty || s.Pending.NewPrice != 18 {
		t.Fatalf("after new price: step=%+v pending=%+v", s.Step, s.Pending)
	}

	s, _ = apply(t, s, callback("qty_5"))
	if s.Pending.Total != 90 {
		t.Fatalf("total = %d, want qty*newPrice", s.Pending.Total)
	}

	_, d := apply(t, s, callback("confirm"))
	e := appends(d)[0]
	if e.Type != "Переоценка" || e.Price != 20 || e.NewPrice != 18 || e.Qty != 5 {
		t.Fatalf("entry = %+v", e)
	}
}

func TestInvalidQtyReprompts(t *testing.T) {
	s := Session{ChatID: 1, Step: Step{Op: ledger.OpSale, Stage: StageQtyInput},
		Pending: Pending{Product: "Bread", Price: 25}}
	for _, bad := range []string{"abc", "-1", "0", "1.5"} {
		_, d := apply(t, s, text(bad))
		if d.Persist {
			t.Errorf("qty %q advanced the state", bad)
		}
		if len(d.Commands) != 1 {
			t.Errorf("qty %q: commands = %v", bad, d.Commands)
		}
	}
}

func TestDateEnterFlow(t *testing.T) {
	s := Session{ChatID: 1}

	s, _ = apply(t, s, text(IcoToday+"09.11.2025"))
	if s.Step.Stage != StageDateEnter {
		t.Fatalf("step = %+v", s.Step)
	}

	// Невалидная дата: остаёмся на шаге, переспрашиваем.
	s, d := apply(t, s, text("31.04.2025"))
	if s.Step.Stage != StageDateEnter || d.Persist {
		t.Fatalf("invalid date changed the state")
	}

	s, _ = apply(t, s, text("01.11.2025"))
	if !s.Step.Idle() || s.SelectedDate != "01.11.2025" {
		t.Fatalf("step=%+v selected=%q", s.Step, s.SelectedDate)
	}

	// «Сегодня» сбрасывает выбранную дату.
	s.Step = Step{Stage: StageDateEnter}
	s, _ = apply(t, s, text(WordToday))
	if s.SelectedDate != "" {
		t.Fatalf("selected = %q, want cleared", s.SelectedDate)
	}
}

func TestStartResets(t *testing.T) {
	s := Session{ChatID: 1, Step: Step{Op: ledger.OpSale, Stage: StageConfirm},
		Pending: Pending{Product: "Bread", Price: 25, Qty: 2}}
	s, d := apply(t, s, text("/start"))
	if !s.Step.Idle() {
		t.Fatalf("step = %+v", s.Step)
	}
	if len(appends(d)) != 0 {
		t.Fatal("/start must not append")
	}
}

func TestStepTokenRoundTrip(t *testing.T) {
	steps := []Step{
		{},
		{Op: ledger.OpSale, Stage: StageGoods},
		{Op: ledger.OpIncome, Stage: StageProductNew},
		{Op: ledger.OpDiscount, Stage: StagePriceInput},
		{Op: ledger.OpReturn, Stage: StageQtyInput},
		{Op: ledger.OpOutcome, Stage: StageConfirm},
		{Stage: StageDateEnter},
	}
	for _, st := range steps {
		if got := ParseStep(st.Encode()); got != st {
			t.Errorf("round trip %+v → %q → %+v", st, st.Encode(), got)
		}
	}
	if got := ParseStep("garbage"); !got.Idle() {
		t.Errorf("garbage token parsed as %+v", got)
	}
	if got := ParseStep("sale_bogus"); !got.Idle() {
		t.Errorf("bogus stage parsed as %+v", got)
	}
}

func TestReportCommandUsesEffectiveDate(t *testing.T) {
	s := Session{ChatID: 1, SelectedDate: "05.11.2025"}
	_, d := apply(t, s, text(WordReport))
	r, ok := d.Commands[0].(SendReport)
	if !ok {
		t.Fatalf("command = %#v", d.Commands[0])
	}
	if r.Date.Format("02.01.2006") != "05.11.2025" {
		t.Fatalf("report date = %v", r.Date)
	}
}
