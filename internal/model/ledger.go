package model

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by repositories when an insert violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

// LedgerTransaction is a persisted transaction. Unique per (OwnerID, ExternalID).
type LedgerTransaction struct {
	NormalizedTransaction
	ID        string
	OwnerID   string
	AccountID string // empty when the statement carried no account
	FileID    string // originating upload, if recorded
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UploadStatus is the processing state of an uploaded statement file.
type UploadStatus string

const (
	UploadProcessing UploadStatus = "PROCESSING"
	UploadCompleted  UploadStatus = "COMPLETED"
	UploadFailed     UploadStatus = "FAILED"
)

// UploadedFile records one statement upload and its outcome.
type UploadedFile struct {
	ID           string
	OwnerID      string
	FileName     string
	BankType     BankType
	Format       FileFormat
	Size         int64
	Status       UploadStatus
	Total        int
	Imported     int
	Updated      int
	Skipped      int
	ErrorMessage string // row errors joined by newline
	UploadedAt   time.Time
	ProcessedAt  *time.Time
}

// ImportResult summarizes one import.
type ImportResult struct {
	FileID               string           `json:"fileId,omitempty"`
	FileName             string           `json:"fileName"`
	TotalTransactions    int              `json:"totalTransactions"`
	ImportedTransactions int              `json:"importedTransactions"`
	UpdatedTransactions  int              `json:"updatedTransactions"`
	SkippedTransactions  int              `json:"skippedTransactions"`
	Errors               []string         `json:"errors"`
	AccountMetadata      *AccountMetadata `json:"accountMetadata,omitempty"`
}
