package domain

import (
	"context"
	"io"
)

// RowError records why one spreadsheet row could not be stored.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// UploadOutcome summarises one ingestion run. SuccessCount+FailureCount == TotalRows.
type UploadOutcome struct {
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	Errors       []RowError `json:"errors"`
}

// Sheet is the first worksheet of a workbook with every cell coerced to text.
// A nil cell is blank or unreadable.
type Sheet struct {
	Header []string
	Rows   []SheetRow
}

type SheetRow struct {
	Number int // 1-based row number as shown by spreadsheet apps
	Cells  []*string
}

// Cell returns the cell at column idx or nil when the row is shorter.
func (r SheetRow) Cell(idx int) *string {
	if idx < 0 || idx >= len(r.Cells) {
		return nil
	}
	return r.Cells[idx]
}

type SheetReader interface {
	ReadFirstSheet(ctx context.Context, r io.Reader) (*Sheet, error)
}

// UploadArchive keeps a copy of raw uploads.
type UploadArchive interface {
	Store(ctx context.Context, key string, body []byte, contentType string) error
}
