package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// ErrBlank is returned when a value is empty after cleanup.
var ErrBlank = errors.New("blank value")

var amountNoise = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"'", "",
	"Кр", "", "кр", "", "Cr", "", "cr", "", "CR", "",
	"Дт", "", "дт", "", "Dr", "", "dr", "", "DR", "",
	"RUB", "", "RUR", "", "руб.", "", "руб", "",
	"USD", "", "EUR", "",
	"₽", "", "$", "", "€", "",
)

// CleanAmount strips separators, debit/credit markers and currency marks.
func CleanAmount(s string) string {
	s = amountNoise.Replace(strings.TrimSpace(s))
	return strings.ReplaceAll(s, ",", ".")
}

// ParseAmount parses a statement amount, e.g. "15 000,50" or "-45000 Дт".
// The result keeps its sign and is rounded to money scale.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := CleanAmount(s)
	if clean == "" {
		return decimal.Zero, ErrBlank
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return model.RoundMoney(d), nil
}
