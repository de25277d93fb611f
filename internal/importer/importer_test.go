package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get(model.BankOneC, model.FormatTXT))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(NewOneCParser(DefaultOptions()))
	p := r.Get(model.BankOneC, model.FormatTXT)
	require.NotNil(t, p)
	assert.Equal(t, model.BankOneC, p.Bank())
	assert.Nil(t, r.Get(model.BankRaiffeisen, model.FormatTXT))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewOneCParser(DefaultOptions()))
	assert.Panics(t, func() { r.Register(NewOneCParser(DefaultOptions())) })
}

func TestDefaultRegistry_Supported(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		"one_c/txt",
		"one_c/xls",
		"one_c/xlsx",
		"raiffeisen/txt",
		"raiffeisen/xls",
		"raiffeisen/xlsx",
	}, r.Supported())
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		bank     model.BankType
		fileName string
		want     any
		wantErr  bool
	}{
		{"raiffeisen txt", model.BankRaiffeisen, "kl_to_1c.txt", &OneCParser{}, false},
		{"raiffeisen xlsx upper-case", model.BankRaiffeisen, "Statement.XLSX", &SpreadsheetParser{}, false},
		{"generic xls", model.BankOneC, "old.xls", &SpreadsheetParser{}, false},
		{"csv not supported", model.BankRaiffeisen, "statement.csv", nil, true},
		{"unknown bank", model.BankType("sber"), "statement.txt", nil, true},
		{"no extension", model.BankOneC, "statement", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Lookup(tt.bank, tt.fileName)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoParser))
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.Equal(t, tt.bank, p.Bank())
		})
	}
}

func TestRowError_Error(t *testing.T) {
	err := RowError{Row: 7, Document: "12", Err: errors.New("parsing amount")}
	assert.Equal(t, "row 7 (document 12): parsing amount", err.Error())

	err = RowError{Row: 3, Err: errors.New("boom")}
	assert.Equal(t, "row 3: boom", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "boom")
}

func TestScan_FindsStatements(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	for _, name := range []string{"a.txt", "b.xlsx", "c.XLS", "notes.md", "export.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(importDir, name), []byte("data"), 0o644))
	}

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.xlsx", files[1].Name)
	assert.Equal(t, "c.XLS", files[2].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.txt", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.txt"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "bank.txt")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(importDir, "bank.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.txt"))
	assert.NoError(t, err)
}
