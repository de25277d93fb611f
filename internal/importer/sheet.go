package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
	"github.com/ig-gor95/finsplit-sub001/internal/normalize"
)

// cell is one spreadsheet cell as seen by the parsers.
type cell struct {
	text string // formatted display value
	raw  string // unformatted value; same as text for string cells
}

func (c cell) blank() bool { return c.text == "" && c.raw == "" }

// grid is the first sheet of a workbook, row-major.
type grid [][]cell

func (g grid) at(row, col int) cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return cell{}
	}
	return g[row][col]
}

func (g grid) blankRow(row int) bool {
	for _, c := range g[row] {
		if !c.blank() {
			return false
		}
	}
	return true
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// loadGrid reads the first sheet of a workbook. The container is detected
// from its magic bytes: zip for xlsx, OLE2 for legacy xls.
func loadGrid(r io.Reader) (grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet: %w", err)
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return loadXLSX(bytes.NewReader(data))
	case bytes.HasPrefix(data, oleMagic):
		return loadXLS(data)
	}
	return nil, errors.New("reading spreadsheet: not an xlsx or xls workbook")
}

func loadXLSX(r io.Reader) (grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("opening xlsx: workbook has no sheets")
	}
	sheet := sheets[0]

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	width := 0
	for _, row := range shown {
		width = max(width, len(row))
	}

	g := make(grid, len(shown))
	for i, row := range shown {
		g[i] = make([]cell, width)
		for j := 0; j < width; j++ {
			var c cell
			if j < len(row) {
				c.text = strings.TrimSpace(row[j])
				c.raw = c.text
			}
			if i < len(raw) && j < len(raw[i]) {
				c.raw = strings.TrimSpace(raw[i][j])
			}
			if c.blank() {
				c = formulaCell(f, sheet, i, j)
			}
			g[i][j] = c
		}
	}
	return g, nil
}

// formulaCell evaluates a formula that was saved without a cached value.
func formulaCell(f *excelize.File, sheet string, row, col int) cell {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return cell{}
	}
	formula, err := f.GetCellFormula(sheet, name)
	if err != nil || formula == "" {
		return cell{}
	}
	v, err := f.CalcCellValue(sheet, name)
	if err != nil {
		return cell{}
	}
	v = strings.TrimSpace(v)
	return cell{text: v, raw: v}
}

func loadXLS(data []byte) (g grid, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if p := recover(); p != nil {
			g, err = nil, fmt.Errorf("opening xls: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("opening xls: workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			g = append(g, nil)
			continue
		}
		cells := make([]cell, row.LastCol())
		for j := range cells {
			v := strings.TrimSpace(row.Col(j))
			cells[j] = cell{text: v, raw: v}
		}
		g = append(g, cells)
	}
	return g, nil
}

// Excel serial day numbers accepted as dates (1954..2173).
const (
	minSerialDate = 20000
	maxSerialDate = 100000
)

// cellDate parses a date cell stored as an Excel serial number or shown as
// text. The serial wins: the displayed text follows the workbook's locale.
func cellDate(c cell) (time.Time, error) {
	if serial, err := strconv.ParseFloat(c.raw, 64); err == nil && serial > minSerialDate && serial < maxSerialDate {
		if st, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(st.Year(), st.Month(), st.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return normalize.ParseDate(c.text)
}

// cellClock returns the time of day held by c as "HH:mm:ss" text. A raw day
// fraction (0.5 is noon) is converted; any other value is returned as shown.
func cellClock(c cell) string {
	if frac, err := strconv.ParseFloat(c.raw, 64); err == nil && frac >= 0 && frac < 1 {
		secs := int(math.Round(frac * 24 * 60 * 60))
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return c.text
}

// cellAmount parses a money cell, preferring the raw numeric value.
func cellAmount(c cell) (decimal.Decimal, error) {
	if c.raw != "" {
		if d, err := decimal.NewFromString(c.raw); err == nil {
			return model.RoundMoney(d), nil
		}
	}
	return normalize.ParseAmount(c.text)
}
