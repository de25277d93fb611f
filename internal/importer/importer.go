package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// ErrNoParser is returned when no parser handles a (bank, format) pair.
var ErrNoParser = errors.New("no parser for bank and file format")

// Parser converts a statement file into normalized transactions and metadata.
type Parser interface {
	Bank() model.BankType
	Formats() []model.FileFormat
	Parse(r io.Reader) (*Result, error)
}

// Result is the output of one parse pass.
type Result struct {
	Transactions []model.NormalizedTransaction
	Metadata     *model.AccountMetadata // nil when nothing was recovered
	Errors       []RowError
}

// RowError describes a row or section that was dropped.
type RowError struct {
	Row      int    // 1-based line or sheet row
	Document string // document number, when known
	Err      error
}

func (e RowError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("row %d (document %s): %v", e.Row, e.Document, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

type parserKey struct {
	bank   model.BankType
	format model.FileFormat
}

// Registry maps (bank, format) pairs to parsers.
type Registry struct {
	parsers map[parserKey]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[parserKey]Parser)}
}

// Register adds a parser for each of its formats. Panics on a duplicate pair.
func (r *Registry) Register(p Parser) {
	for _, f := range p.Formats() {
		key := parserKey{bank: p.Bank(), format: f}
		if _, ok := r.parsers[key]; ok {
			panic(fmt.Sprintf("duplicate parser for %s/%s", key.bank, key.format))
		}
		r.parsers[key] = p
	}
}

// Get returns the parser for a (bank, format) pair, or nil.
func (r *Registry) Get(bank model.BankType, format model.FileFormat) Parser {
	return r.parsers[parserKey{bank: bank, format: format}]
}

// Lookup picks the parser for bank by the extension of fileName.
func (r *Registry) Lookup(bank model.BankType, fileName string) (Parser, error) {
	format, ok := model.FormatFromFileName(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: bank %s, file %q has unsupported extension", ErrNoParser, bank, fileName)
	}
	p := r.Get(bank, format)
	if p == nil {
		return nil, fmt.Errorf("%w: bank %s, format %s", ErrNoParser, bank, format)
	}
	return p, nil
}

// Supported lists the registered pairs as "bank/format", sorted.
func (r *Registry) Supported() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, string(k.bank)+"/"+string(k.format))
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	return DefaultRegistryWithOptions(DefaultOptions())
}

// DefaultRegistryWithOptions is DefaultRegistry with explicit parser options.
func DefaultRegistryWithOptions(opts Options) *Registry {
	r := NewRegistry()
	r.Register(NewOneCParser(opts))
	r.Register(NewRaiffeisenOneCParser(opts))
	r.Register(NewSpreadsheetParser(opts))
	r.Register(NewRaiffeisenSpreadsheetParser(opts))
	return r
}

// importDir is the inbox subdirectory.
const importDir = "import"

// processedDir receives files after a successful import.
const processedDir = "import/processed"

// Scan returns statement files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := model.FormatFromFileName(e.Name()); !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
