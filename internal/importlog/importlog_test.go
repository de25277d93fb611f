package importlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

var testTime = time.Date(2025, 12, 1, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Owner:     "owner-1",
		Bank:      model.BankRaiffeisen,
		File:      "nov, 2025.xlsx",
		Total:     3,
		Imported:  2,
		Updated:   1,
		Errors:    1,
		FileID:    "9b2c",
	}
}

func TestFromResult(t *testing.T) {
	res := &model.ImportResult{
		FileID:               "9b2c",
		FileName:             "nov, 2025.xlsx",
		TotalTransactions:    3,
		ImportedTransactions: 2,
		UpdatedTransactions:  1,
		Errors:               []string{"row 14: bad amount"},
	}
	assert.Equal(t, testEntry(), FromResult(testTime, "owner-1", model.BankRaiffeisen, res))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.File = "dec.txt"
	e2.Bank = model.BankOneC
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, testEntry(), entries[0])
	assert.Equal(t, "dec.txt", entries[1].File)
	assert.Equal(t, model.BankOneC, entries[1].Bank)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "import-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 10 fields")

	row := MarshalEntry(testEntry())
	row[colImported] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, `parsing count "many"`)
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2025, 12, 1, 13, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	assert.Equal(t, "2025-12-01T10:30:00Z", MarshalEntry(e)[colTime])
}
