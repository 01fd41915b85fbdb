package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/report"
)

func loss(group, name, amount, kind, date string) entity.LostSaleAdjustment {
	return entity.LostSaleAdjustment{GroupID: group, Name: name, Amount: amount, CorrectionType: kind, Date: date}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseLedgerDate(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"15.03.2024", true, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"15.03", true, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{" 01.12.2025 ", true, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15", false, time.Time{}},
		{"5.3.2024", false, time.Time{}},
		{"15/03/2024", false, time.Time{}},
		{"31.02.2024", false, time.Time{}},
		{"00.13", false, time.Time{}},
		{"", false, time.Time{}},
		{"вчера", false, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := report.ParseLedgerDate(tc.in, fixedNow)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "esperado %s, obtenido %s", tc.want, got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"50,00":    "50",
		"1 500,50": "1500.5",
		"1 200": "1200",
		"-20":      "-20",
		"12.5":     "12.5",
		"":         "0",
		"abc":      "0",
		"10 руб":   "0",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assertDec(t, want, report.ParseAmount(in))
		})
	}
}

func TestParseOptionalAmount(t *testing.T) {
	assert.False(t, report.ParseOptionalAmount("").Valid)
	assert.False(t, report.ParseOptionalAmount("n/a").Valid)

	rent := report.ParseOptionalAmount("3 000,00")
	require.True(t, rent.Valid)
	assertDec(t, "3000", rent.Decimal)
}

func TestIsLoss(t *testing.T) {
	assert.True(t, report.IsLoss("потеря"))
	assert.True(t, report.IsLoss("Потеря товара"))
	assert.True(t, report.IsLoss("ПОТЕРЯ"))
	assert.False(t, report.IsLoss("возврат"))
	assert.False(t, report.IsLoss(""))
}

func TestFilterLosses(t *testing.T) {
	period := report.Period{From: day(2026, time.March, 1), To: day(2026, time.March, 31)}
	rows := []entity.LostSaleAdjustment{
		loss("C1", "a", "10", "потеря", "01.03.2026"),   // límite inferior
		loss("C1", "b", "10", "Потеря", "31.03"),        // límite superior, año actual
		loss("C1", "c", "10", "потеря", "28.02.2026"),   // antes
		loss("C1", "d", "10", "потеря", "01.04.2026"),   // después
		loss("C1", "e", "10", "потеря", "сегодня"),      // fecha no interpretable: pasa
		loss("C1", "f", "10", "потеря", ""),             // sin fecha: pasa
		loss("C1", "g", "10", "пересорт", "15.03.2026"), // no es pérdida
	}

	got := report.FilterLosses(rows, period, fixedNow)

	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "b", "e", "f"}, names)
}

func TestFilterLosses_SinPeriodo(t *testing.T) {
	rows := []entity.LostSaleAdjustment{
		loss("C1", "a", "10", "потеря", "01.01.2000"),
		loss("C1", "b", "10", "ремонт", "01.01.2000"),
	}
	got := report.FilterLosses(rows, report.Period{}, fixedNow)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestPeriod_ContainsDay_IgnoraHora(t *testing.T) {
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	p := report.Period{To: &to}
	assert.True(t, p.ContainsDay(time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.ContainsDay(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SinAjustesNoCambiaNada(t *testing.T) {
	calc := report.NewCalculator(report.DefaultCommissionRate)
	groups := report.Aggregate([]entity.SaleRecord{
		sale("C1", "Widget", "100", "2"),
		sale("C2", "Gadget", "15.5", "3"),
	})
	calc.Recalculate(groups.Groups())

	before := snapshot(groups)
	report.Reconcile(groups, nil)
	report.Reconcile(groups, []entity.LostSaleAdjustment{})

	assert.Equal(t, before, snapshot(groups))
}

func TestReconcile_Widget(t *testing.T) {
	calc := report.NewCalculator(report.DefaultCommissionRate)
	groups := report.Aggregate([]entity.SaleRecord{
		sale("C1", "Widget", "100", "2"),
		sale("C1", "Widget", "100", "3"),
	})
	calc.Recalculate(groups.Groups())

	adjustments := report.FilterLosses([]entity.LostSaleAdjustment{
		loss("C1", "Widget", "50,00", "потеря", "10.10.2026"),
	}, report.Period{From: day(2026, time.October, 1), To: day(2026, time.October, 31)}, fixedNow)
	report.Reconcile(groups, adjustments)
	calc.Recalculate(groups.Groups())

	g, _ := groups.Get("C1")
	qty, total := dec("0"), dec("0")
	for _, l := range g.Lines {
		if l.Name == "Widget" {
			qty = qty.Add(l.Quantity)
			total = total.Add(l.LineTotal)
		}
	}
	assertDec(t, "6", qty)
	assertDec(t, "550", total)
	assertDec(t, "550", g.TotalSales)
	assertDec(t, "55", g.Commission)
	assertDec(t, "495", g.AuthorAmount)

	// la identidad (nombre, precio) separa la línea sintética de 50
	require.Len(t, g.Lines, 2)
	assertDec(t, "50", g.Lines[1].UnitPrice)
	assertDec(t, "1", g.Lines[1].Quantity)
	assert.False(t, g.Lines[1].RestStock.Valid)
}

func TestReconcile_FusionaConMismoPrecio(t *testing.T) {
	groups := report.Aggregate([]entity.SaleRecord{
		withRest(sale("C1", "Widget", "100", "5"), "4"),
	})
	report.Reconcile(groups, []entity.LostSaleAdjustment{
		loss("C1", " Widget ", "100,00", "потеря", ""),
	})

	g, _ := groups.Get("C1")
	require.Len(t, g.Lines, 1)
	assertDec(t, "6", g.Lines[0].Quantity)
	assertDec(t, "600", g.Lines[0].LineTotal)
	assertDec(t, "4", g.Lines[0].RestStock.Decimal)
	assertDec(t, "600", g.TotalSales)
}

func TestReconcile_CreaGrupos(t *testing.T) {
	groups := report.NewGroupSet()
	report.Reconcile(groups, []entity.LostSaleAdjustment{
		loss("C9", "Poster", "abc", "потеря", ""),
		loss("", "Sticker", "-12,30", "потеря", ""),
	})

	require.Equal(t, 2, groups.Len())
	c9, ok := groups.Get("C9")
	require.True(t, ok)
	assertDec(t, "0", c9.TotalSales)

	unknown, ok := groups.Get(entity.UnknownGroup)
	require.True(t, ok)
	assertDec(t, "-12.3", unknown.TotalSales)
}

func TestReconcile_TotalEsSumaDeLineas(t *testing.T) {
	groups := report.Aggregate([]entity.SaleRecord{
		sale("C1", "a", "0.1", "3"),
	})
	report.Reconcile(groups, []entity.LostSaleAdjustment{
		loss("C1", "b", "0,1", "потеря", ""),
		loss("C1", "b", "0,1", "потеря", ""),
		loss("C1", "c", "0,2", "потеря", ""),
	})

	g, _ := groups.Get("C1")
	assertDec(t, sumLines(g).String(), g.TotalSales)
	assertDec(t, "0.7", g.TotalSales)
}

type lineSnap struct {
	Name, Price, Qty, Total, Commission, Author string
}

type groupSnap struct {
	ID, Total, Commission, Author string
	Lines                         []lineSnap
}

func snapshot(groups *report.GroupSet) []groupSnap {
	var out []groupSnap
	for _, g := range groups.Groups() {
		gs := groupSnap{ID: g.GroupID, Total: g.TotalSales.String(), Commission: g.Commission.String(), Author: g.AuthorAmount.String()}
		for _, l := range g.Lines {
			gs.Lines = append(gs.Lines, lineSnap{l.Name, l.UnitPrice.String(), l.Quantity.String(), l.LineTotal.String(), l.Commission.String(), l.AuthorAmount.String()})
		}
		out = append(out, gs)
	}
	return out
}
