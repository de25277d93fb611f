package model

import (
	"path/filepath"
	"strings"
)

// BankType identifies the bank (or export family) that produced a statement.
type BankType string

const (
	BankOneC       BankType = "one_c"
	BankRaiffeisen BankType = "raiffeisen"
)

// Banks lists every supported bank type.
var Banks = []BankType{BankOneC, BankRaiffeisen}

// ParseBankType accepts the canonical name as well as the legacy upper-case spelling.
func ParseBankType(s string) (BankType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_c", "one_c_format", "1c":
		return BankOneC, true
	case "raiffeisen":
		return BankRaiffeisen, true
	}
	return "", false
}

// FileFormat is a statement file format, derived from the file extension.
type FileFormat string

const (
	FormatTXT  FileFormat = "txt"
	FormatXLSX FileFormat = "xlsx"
	FormatXLS  FileFormat = "xls"
)

// FormatFromFileName maps a file extension to a FileFormat.
// It returns false for anything other than .txt, .xlsx and .xls.
func FormatFromFileName(name string) (FileFormat, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch FileFormat(ext) {
	case FormatTXT, FormatXLSX, FormatXLS:
		return FileFormat(ext), true
	}
	return "", false
}
