package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// LossMarker marca en el tipo de corrección de las filas que son pérdidas de venta.
const LossMarker = "потеря"

var (
	fullDateRe  = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	shortDateRe = regexp.MustCompile(`^(\d{2})\.(\d{2})$`)
)

// Period rango de fechas inclusivo. Extremos nil no acotan.
type Period struct {
	From *time.Time
	To   *time.Time
}

// ContainsDay compara por día de calendario, ambos extremos inclusive.
func (p Period) ContainsDay(t time.Time) bool {
	day := dayOf(t)
	if p.From != nil && day.Before(dayOf(*p.From)) {
		return false
	}
	if p.To != nil && day.After(dayOf(*p.To)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseLedgerDate interpreta DD.MM.YYYY o DD.MM (año de now). Cualquier otra forma,
// o una fecha imposible como 31.02, devuelve false.
func ParseLedgerDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	var day, month, year int
	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else if m := shortDateRe.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year = now.Year()
	} else {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// ParseAmount convierte un importe con coma decimal ("1 500,50"). Devuelve 0 si no es numérico.
func ParseAmount(s string) decimal.Decimal {
	d, ok := parseAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseOptionalAmount como ParseAmount pero inválido si está vacío o no es numérico.
func ParseOptionalAmount(s string) decimal.NullDecimal {
	d, ok := parseAmount(s)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

func parseAmount(s string) (decimal.Decimal, bool) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsLoss indica si el tipo de corrección contiene la marca de pérdida, sin distinguir mayúsculas.
func IsLoss(correctionType string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(correctionType), fold.String(LossMarker))
}

// FilterLosses deja las filas de pérdida dentro del período. Las filas con fecha
// no interpretable no se descartan por fecha.
func FilterLosses(rows []entity.LostSaleAdjustment, period Period, now time.Time) []entity.LostSaleAdjustment {
	out := make([]entity.LostSaleAdjustment, 0, len(rows))
	for _, row := range rows {
		if !IsLoss(row.CorrectionType) {
			continue
		}
		if date, ok := ParseLedgerDate(row.Date, now); ok && !period.ContainsDay(date) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Reconcile incorpora cada ajuste como una línea sintética de cantidad 1 e importe igual
// al precio, fusionándola por (nombre, precio). Puede crear grupos nuevos.
// Los ajustes deben venir ya filtrados con FilterLosses.
func Reconcile(groups *GroupSet, adjustments []entity.LostSaleAdjustment) {
	one := decimal.NewFromInt(1)
	for _, adj := range adjustments {
		amount := ParseAmount(adj.Amount)
		g := groups.ensure(groupKey(strings.TrimSpace(adj.GroupID)))
		g.add(strings.TrimSpace(adj.Name), amount, one, amount, decimal.NullDecimal{})
	}
}
