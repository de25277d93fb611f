package normalize

import "strings"

var currencyCodes = map[string]string{
	"810": "RUB",
	"643": "RUB",
	"840": "USD",
	"978": "EUR",
	"156": "CNY",
	"826": "GBP",
}

var currencyNames = []struct {
	fragment string
	iso      string
}{
	{"рубл", "RUB"},
	{"rub", "RUB"},
	{"доллар", "USD"},
	{"dollar", "USD"},
	{"usd", "USD"},
	{"евро", "EUR"},
	{"euro", "EUR"},
	{"eur", "EUR"},
	{"юан", "CNY"},
	{"yuan", "CNY"},
	{"cny", "CNY"},
}

// CurrencyFromCode maps a numeric ISO 4217 code or a currency name to an
// alphabetic code. Values like "810 (Российский рубль)" are accepted.
func CurrencyFromCode(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if len(s) >= 3 {
		if iso, ok := currencyCodes[s[:3]]; ok {
			return iso, true
		}
	}
	for _, c := range currencyNames {
		if strings.Contains(s, c.fragment) {
			return c.iso, true
		}
	}
	return "", false
}

// IsCurrencyCode reports whether s already looks like an alphabetic ISO code.
func IsCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
