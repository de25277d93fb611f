package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type uploadRepository sqlRepo

var _ ledger.UploadRepository = (*uploadRepository)(nil)

func (ur *uploadRepository) Create(ctx context.Context, f *model.UploadedFile) error {
	query, args, err := buildCreateUploadQuery(f)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := ur.r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (ur *uploadRepository) Update(ctx context.Context, f *model.UploadedFile) error {
	query, args, err := buildUpdateUploadQuery(f)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	res, err := ur.r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func (ur *uploadRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.UploadedFile, error) {
	query, args, err := buildListUploadsQuery(ownerID)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := ur.r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var out []model.UploadedFile
	for rows.Next() {
		var (
			f                    model.UploadedFile
			bank, format, status string
			uploadedAt           string
			processedAt          sql.NullString
		)
		err := rows.Scan(
			&f.ID, &f.OwnerID, &f.FileName, &bank, &format, &f.Size, &status,
			&f.Total, &f.Imported, &f.Updated, &f.Skipped, &f.ErrorMessage,
			&uploadedAt, &processedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		f.BankType = model.BankType(bank)
		f.Format = model.FileFormat(format)
		f.Status = model.UploadStatus(status)
		if f.UploadedAt, err = parseTime(uploadedAt); err != nil {
			return nil, err
		}
		if f.ProcessedAt, err = parseNullTime(processedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return out, nil
}
