package sqlite

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

const tableUploads = "uploaded_files"

var uploadColumns = []string{
	"id",
	"owner_id",
	"file_name",
	"bank_type",
	"format",
	"size",
	"status",
	"total",
	"imported",
	"updated",
	"skipped",
	"error_message",
	"uploaded_at",
	"processed_at",
}

func buildCreateUploadQuery(f *model.UploadedFile) (string, []any, error) {
	return psql.Insert(tableUploads).
		Columns(uploadColumns...).
		Values(
			f.ID, f.OwnerID, f.FileName, string(f.BankType), string(f.Format), f.Size, string(f.Status),
			f.Total, f.Imported, f.Updated, f.Skipped, f.ErrorMessage,
			formatTime(f.UploadedAt), nullTime(f.ProcessedAt),
		).
		ToSql()
}

func buildUpdateUploadQuery(f *model.UploadedFile) (string, []any, error) {
	return psql.Update(tableUploads).
		SetMap(map[string]any{
			"status":        string(f.Status),
			"total":         f.Total,
			"imported":      f.Imported,
			"updated":       f.Updated,
			"skipped":       f.Skipped,
			"error_message": f.ErrorMessage,
			"processed_at":  nullTime(f.ProcessedAt),
		}).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
}

func buildListUploadsQuery(ownerID string) (string, []any, error) {
	return psql.Select(uploadColumns...).
		From(tableUploads).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("uploaded_at", "id").
		ToSql()
}
