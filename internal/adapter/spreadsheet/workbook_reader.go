package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"interview-coach/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// built-in number formats that render as dates or times
var dateNumFmts = map[int]struct{}{
	14: {}, 15: {}, 16: {}, 17: {}, 18: {}, 19: {}, 20: {}, 21: {}, 22: {},
	45: {}, 46: {}, 47: {},
}

// WorkbookReader reads .xlsx uploads with excelize.
type WorkbookReader struct {
	logger *zap.Logger
}

var _ domain.SheetReader = (*WorkbookReader)(nil)

func NewWorkbookReader(logger *zap.Logger) *WorkbookReader {
	return &WorkbookReader{logger: logger}
}

// ReadFirstSheet returns the header row and every following row of the first
// worksheet. Cells are coerced to text by their stored type; blank or
// unreadable cells are nil.
func (r *WorkbookReader) ReadFirstSheet(ctx context.Context, src io.Reader) (*domain.Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, domain.NewError(domain.CodeInvalidFormat, "failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewError(domain.CodeInvalidFormat, "workbook has no sheets", nil)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, domain.NewError(domain.CodeInvalidFormat, "failed to read first sheet", err)
	}
	if len(rows) == 0 {
		return &domain.Sheet{}, nil
	}

	out := &domain.Sheet{Header: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		out.Header[i] = strings.TrimSpace(h)
	}

	width := len(out.Header)
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 1
		cols := width
		if len(rows[i]) > cols {
			cols = len(rows[i])
		}
		cells := make([]*string, cols)
		for c := 0; c < cols; c++ {
			cells[c] = r.cellText(f, sheet, c+1, rowNum)
		}
		out.Rows = append(out.Rows, domain.SheetRow{Number: rowNum, Cells: cells})
	}
	return out, nil
}

func (r *WorkbookReader) cellText(f *excelize.File, sheet string, col, row int) *string {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil
	}

	if formula, err := f.GetCellFormula(sheet, axis); err == nil && formula != "" {
		if v, err := f.CalcCellValue(sheet, axis); err == nil {
			return textOrNil(v)
		}
		// cached result
		if v, err := f.GetCellValue(sheet, axis); err == nil {
			return textOrNil(v)
		}
		return nil
	}

	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		r.logger.Debug("unreadable cell", zap.String("cell", axis), zap.Error(err))
		return nil
	}

	switch typ {
	case excelize.CellTypeError:
		return nil
	case excelize.CellTypeBool:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil
		}
		switch strings.TrimSpace(raw) {
		case "1", "TRUE", "true":
			return strPtr("true")
		case "":
			return nil
		default:
			return strPtr("false")
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil
		}
		num, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if perr != nil {
			return textOrNil(raw)
		}
		if r.isDateCell(f, sheet, axis) {
			if t, err := excelize.ExcelDateToTime(num, false); err == nil {
				return strPtr(t.Format("2006-01-02"))
			}
		}
		return strPtr(formatNumber(num))
	default:
		v, err := f.GetCellValue(sheet, axis)
		if err != nil {
			return nil
		}
		return textOrNil(v)
	}
}

func (r *WorkbookReader) isDateCell(f *excelize.File, sheet, axis string) bool {
	idx, err := f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if _, ok := dateNumFmts[style.NumFmt]; ok {
		return true
	}
	if style.CustomNumFmt != nil {
		lower := strings.ToLower(*style.CustomNumFmt)
		return strings.Contains(lower, "y") || strings.Contains(lower, "d")
	}
	return false
}

// formatNumber renders whole numbers without a fraction (2024.0 → "2024").
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func textOrNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func strPtr(s string) *string {
	return &s
}

// ContentType is the MIME type of .xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ValidateExtension rejects uploads that are not .xlsx workbooks.
func ValidateExtension(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return domain.NewInvalidInputError(fmt.Sprintf("Invalid file type %q: only .xlsx workbooks are supported", filename))
	}
	return nil
}
