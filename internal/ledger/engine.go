// Package ledger merges parsed statements into the persistent ledger.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ig-gor95/finsplit-sub001/internal/dedup"
	"github.com/ig-gor95/finsplit-sub001/internal/importer"
	"github.com/ig-gor95/finsplit-sub001/internal/logger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

var (
	// ErrEmptyFile is returned for an upload with no content.
	ErrEmptyFile = errors.New("empty statement file")
	// ErrNoOwner is returned when a request names no owner.
	ErrNoOwner = errors.New("owner id is required")
)

// Engine imports statement files. It keeps no per-import state and is safe
// for concurrent use; concurrent imports are arbitrated by the stores' unique keys.
type Engine struct {
	registry *importer.Registry
	stores   Stores
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the id source for new rows.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine dispatching through registry and writing to stores.
func NewEngine(registry *importer.Registry, stores Stores, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		stores:   stores,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is one statement upload.
type Request struct {
	OwnerID  string
	Bank     model.BankType
	FileName string
	Body     io.Reader
}

// Import parses a statement and merges it into the ledger. It fails only when
// no parser matches, the body is empty or unreadable, or the file as a whole
// cannot be parsed; row-level problems are reported in the result's Errors.
func (e *Engine) Import(ctx context.Context, req Request) (*model.ImportResult, error) {
	log := logger.FromContext(ctx).With().
		Str("owner", req.OwnerID).
		Str("bank", string(req.Bank)).
		Str("file", req.FileName).
		Logger()

	if req.OwnerID == "" {
		return nil, ErrNoOwner
	}
	parser, err := e.registry.Lookup(req.Bank, req.FileName)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", req.FileName, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", req.FileName, ErrEmptyFile)
	}

	parsed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.FileName, err)
	}
	dedup.Stamp(parsed.Transactions)

	upload, err := e.beginUpload(ctx, req, int64(len(data)))
	if err != nil {
		return nil, err
	}

	var t tally
	for _, re := range parsed.Errors {
		log.Warn().Err(re.Err).Int("row", re.Row).Str("document", re.Document).Msg("row dropped")
		t = t.fail(re.Error())
	}

	account, err := e.syncAccount(ctx, req.OwnerID, parsed.Metadata)
	if err != nil {
		log.Warn().Err(err).Msg("account not synchronized")
		t = t.fail(fmt.Sprintf("account %s: %v", parsed.Metadata.AccountNumber, err))
	}
	accountID := ""
	if account != nil {
		accountID = account.ID
	}
	fileID := ""
	if upload != nil {
		fileID = upload.ID
	}

	for i, txn := range parsed.Transactions {
		out, err := e.reconcile(ctx, req.OwnerID, accountID, fileID, txn)
		if err != nil {
			log.Warn().Err(err).Str("document", txn.DocumentNumber).Msg("transaction not stored")
			t = t.fail(fmt.Sprintf("transaction %d (document %s dated %s): %v",
				i+1, txn.DocumentNumber, txn.DocumentDate.Format("2006-01-02"), err))
			continue
		}
		log.Debug().Str("external_id", txn.ExternalID).Str("outcome", out.String()).Msg("transaction reconciled")
		t = t.add(out)
	}

	if err := e.snapshotBalance(ctx, account, parsed.Metadata); err != nil {
		log.Warn().Err(err).Msg("balance snapshot not stored")
		t = t.fail(fmt.Sprintf("balance snapshot: %v", err))
	}

	total := len(parsed.Transactions)
	e.finishUpload(ctx, upload, t, total, model.UploadCompleted)

	log.Info().
		Int("total", total).
		Int("imported", t.imported).
		Int("updated", t.updated).
		Int("skipped", t.skipped).
		Int("errors", len(t.errors)).
		Msg("statement imported")

	return &model.ImportResult{
		FileID:               fileID,
		FileName:             req.FileName,
		TotalTransactions:    total,
		ImportedTransactions: t.imported,
		UpdatedTransactions:  t.updated,
		SkippedTransactions:  t.skipped,
		Errors:               t.messages(),
		AccountMetadata:      parsed.Metadata,
	}, nil
}

func (e *Engine) beginUpload(ctx context.Context, req Request, size int64) (*model.UploadedFile, error) {
	if e.stores.Uploads == nil {
		return nil, nil
	}
	format, _ := model.FormatFromFileName(req.FileName)
	f := &model.UploadedFile{
		ID:         e.newID(),
		OwnerID:    req.OwnerID,
		FileName:   req.FileName,
		BankType:   req.Bank,
		Format:     format,
		Size:       size,
		Status:     model.UploadProcessing,
		UploadedAt: e.now(),
	}
	if err := e.stores.Uploads.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("recording upload: %w", err)
	}
	return f, nil
}

func (e *Engine) finishUpload(ctx context.Context, f *model.UploadedFile, t tally, total int, status model.UploadStatus) {
	if f == nil {
		return
	}
	now := e.now()
	f.Status = status
	f.Total = total
	f.Imported = t.imported
	f.Updated = t.updated
	f.Skipped = t.skipped
	f.ErrorMessage = strings.Join(t.errors, "\n")
	f.ProcessedAt = &now
	if err := e.stores.Uploads.Update(ctx, f); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("upload", f.ID).Msg("updating upload record")
	}
}
