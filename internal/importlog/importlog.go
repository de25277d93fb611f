// Package importlog keeps a CSV audit trail of statement imports.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	Owner     string
	Bank      model.BankType
	File      string
	Total     int
	Imported  int
	Updated   int
	Skipped   int
	Errors    int
	FileID    string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,owner,bank,file,total,imported,updated,skipped,errors,file_id"

const (
	numFields   = 10
	logDir      = "logs"
	logFile     = "logs/import-log.csv"
	colTime     = 0
	colOwner    = 1
	colBank     = 2
	colFile     = 3
	colTotal    = 4
	colImported = 5
	colUpdated  = 6
	colSkipped  = 7
	colErrors   = 8
	colFileID   = 9
)

// FromResult builds the log entry for one finished import.
func FromResult(at time.Time, owner string, bank model.BankType, res *model.ImportResult) Entry {
	return Entry{
		Timestamp: at,
		Owner:     owner,
		Bank:      bank,
		File:      res.FileName,
		Total:     res.TotalTransactions,
		Imported:  res.ImportedTransactions,
		Updated:   res.UpdatedTransactions,
		Skipped:   res.SkippedTransactions,
		Errors:    len(res.Errors),
		FileID:    res.FileID,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colOwner] = e.Owner
	row[colBank] = string(e.Bank)
	row[colFile] = e.File
	row[colTotal] = strconv.Itoa(e.Total)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colUpdated] = strconv.Itoa(e.Updated)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colFileID] = e.FileID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	counts := make([]int, 0, 5)
	for _, col := range []int{colTotal, colImported, colUpdated, colSkipped, colErrors} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		Timestamp: ts,
		Owner:     record[colOwner],
		Bank:      model.BankType(record[colBank]),
		File:      record[colFile],
		Total:     counts[0],
		Imported:  counts[1],
		Updated:   counts[2],
		Skipped:   counts[3],
		Errors:    counts[4],
		FileID:    record[colFileID],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
