package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCounterparty(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantINN  string
	}{
		{"OOO Example, ИНН: 1234567890", "OOO Example", "1234567890"},
		{`ООО "Ромашка" ИНН 7701234567`, `ООО "Ромашка"`, "7701234567"},
		{"ИП Иванов И.И., инн:123456789012", "ИП Иванов И.И.", "123456789012"},
		{"ACME Ltd, INN 7701234567", "ACME Ltd", "7701234567"},
		{"  Просто название  ", "Просто название", ""},
		{"ООО ИННОВАЦИЯ", "ООО ИННОВАЦИЯ", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, inn := SplitCounterparty(tt.in)
		assert.Equal(t, tt.wantName, name, "name of %q", tt.in)
		assert.Equal(t, tt.wantINN, inn, "inn of %q", tt.in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15000.50", "15000.50"},
		{"15 000,50", "15000.50"},
		{"15 000,5", "15000.50"},
		{"-45000", "-45000.00"},
		{"1 234,56 Кр", "1234.56"},
		{"99,99 Dr", "99.99"},
		{"10.125", "10.13"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), "ParseAmount(%q)", tt.in)
	}
}

func TestParseAmount_Errors(t *testing.T) {
	_, err := ParseAmount("   ")
	assert.ErrorIs(t, err, ErrBlank)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"02.11.2025", "02/11/2025", "2025-11-02", "02-11-2025", "02.11.2025 13:45:00", "2025-11-02T00:00:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, "ParseDate(%q)", in)
		assert.Equal(t, want, got, "ParseDate(%q)", in)
	}
}

func TestParseDate_Errors(t *testing.T) {
	_, err := ParseDate("")
	assert.ErrorIs(t, err, ErrBlank)

	_, err = ParseDate("32.13.2025")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestParseDateTime(t *testing.T) {
	day := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 11, 2, 14, 5, 7, 0, time.UTC), ParseDateTime(day, "14:05:07"))
	assert.Equal(t, time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC), ParseDateTime(day, "09:30"))
	assert.Equal(t, day, ParseDateTime(day, ""))
}

func TestCurrencyFromCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"810", "RUB", true},
		{"643", "RUB", true},
		{"840", "USD", true},
		{"978", "EUR", true},
		{"810 (Российский рубль)", "RUB", true},
		{"Российский рубль", "RUB", true},
		{"US Dollar", "USD", true},
		{"Euro", "EUR", true},
		{"", "", false},
		{"999", "", false},
	}
	for _, tt := range tests {
		got, ok := CurrencyFromCode(tt.in)
		assert.Equal(t, tt.wantOK, ok, "CurrencyFromCode(%q)", tt.in)
		assert.Equal(t, tt.want, got, "CurrencyFromCode(%q)", tt.in)
	}
}

func TestIsCurrencyCode(t *testing.T) {
	assert.True(t, IsCurrencyCode("RUB"))
	assert.False(t, IsCurrencyCode("rub"))
	assert.False(t, IsCurrencyCode("810"))
}
