package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"50":        "50.00",
		"1000":      "1 000.00",
		"1234567.5": "1 234 567.50",
		"-1500.25":  "-1 500.25",
		"0.005":     "0.01",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
