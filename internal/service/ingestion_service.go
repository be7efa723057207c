package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"interview-coach/internal/domain"
	"interview-coach/internal/util"

	"go.uber.org/zap"
)

// canonical spreadsheet columns
const (
	colQuestion   = "question"
	colCategory   = "category"
	colCompany    = "company"
	colQuestionAt = "question_at"
)

// headerSynonyms lists the accepted header names per canonical column.
var headerSynonyms = map[string][]string{
	colQuestion:   {"question", "질문"},
	colCategory:   {"category", "카테고리", "분류"},
	colCompany:    {"company", "회사", "기업"},
	colQuestionAt: {"question_at", "출제", "연도", "year"},
}

var headerLookup = func() map[string]string {
	m := make(map[string]string)
	for canonical, names := range headerSynonyms {
		for _, n := range names {
			m[n] = canonical
		}
	}
	return m
}()

const minOptionalTextLength = 2

const archiveContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// IngestionService imports questions from a spreadsheet upload.
type IngestionService interface {
	// Ingest stores one question per usable row. Row failures are collected in the
	// outcome; only an unreadable workbook or a missing question column fails the call.
	Ingest(ctx context.Context, accountID string, src io.Reader) (*domain.UploadOutcome, error)
}

type ingestionServiceImpl struct {
	reader    domain.SheetReader
	questions QuestionService
	archive   domain.UploadArchive
	logger    *zap.Logger
}

// NewIngestionService creates an IngestionService. archive may be nil.
func NewIngestionService(reader domain.SheetReader, questions QuestionService, archive domain.UploadArchive, logger *zap.Logger) IngestionService {
	return &ingestionServiceImpl{reader: reader, questions: questions, archive: archive, logger: logger}
}

func (s *ingestionServiceImpl) Ingest(ctx context.Context, accountID string, src io.Reader) (*domain.UploadOutcome, error) {
	if s.archive != nil {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, domain.NewInvalidInputError("Invalid upload: " + err.Error())
		}
		key := fmt.Sprintf("uploads/%s/%s.xlsx", accountID, util.NewULID())
		if err := s.archive.Store(ctx, key, data, archiveContentType); err != nil {
			s.logger.Warn("Failed to archive upload", zap.String("key", key), zap.Error(err))
		}
		src = bytes.NewReader(data)
	}

	sheet, err := s.reader.ReadFirstSheet(ctx, src)
	if err != nil {
		return nil, err
	}

	columns := mapHeader(sheet.Header)
	qIdx, ok := columns[colQuestion]
	if !ok {
		return nil, domain.NewError(domain.CodeMissingQuestionColumn,
			"Invalid spreadsheet: no question column (question/질문)", nil)
	}

	outcome := &domain.UploadOutcome{Errors: []domain.RowError{}}
	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		text, ok := questionText(row.Cell(qIdx))
		if !ok {
			continue
		}

		in := domain.QuestionInput{Text: text}
		if idx, ok := columns[colCategory]; ok {
			in.Category = optionalCell(row.Cell(idx))
		}
		if idx, ok := columns[colCompany]; ok {
			in.Company = optionalCell(row.Cell(idx))
		}
		if idx, ok := columns[colQuestionAt]; ok {
			in.QuestionAt = parseYear(row.Cell(idx))
		}

		outcome.TotalRows++
		if _, err := s.questions.Add(ctx, in); err != nil {
			outcome.FailureCount++
			outcome.Errors = append(outcome.Errors, domain.RowError{Row: row.Number, Message: err.Error()})
			continue
		}
		outcome.SuccessCount++
	}

	s.logger.Info("Spreadsheet ingested",
		zap.String("account_id", accountID),
		zap.Int("total", outcome.TotalRows),
		zap.Int("success", outcome.SuccessCount),
		zap.Int("failure", outcome.FailureCount))
	return outcome, nil
}

// mapHeader maps canonical column names to their first matching index.
func mapHeader(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		canonical, ok := headerLookup[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, seen := out[canonical]; !seen {
			out[canonical] = i
		}
	}
	return out
}

// questionText returns the text to store, or false when the row is skipped.
func questionText(cell *string) (string, bool) {
	if cell == nil {
		return "", false
	}
	t := strings.TrimSpace(*cell)
	if t == "" || domain.IsYearToken(t) || utf8.RuneCountInString(t) <= domain.MinQuestionLength {
		return "", false
	}
	stripped := domain.StripTrailingYear(t)
	if utf8.RuneCountInString(stripped) <= domain.MinQuestionLength {
		return "", false
	}
	return stripped, true
}

func optionalCell(cell *string) *string {
	if cell == nil {
		return nil
	}
	t := strings.TrimSpace(*cell)
	if utf8.RuneCountInString(t) < minOptionalTextLength {
		return nil
	}
	return &t
}

// parseYear accepts "2023" and "2023.0"; anything else is absent.
func parseYear(cell *string) *int {
	if cell == nil {
		return nil
	}
	t := strings.TrimSpace(*cell)
	year, err := strconv.Atoi(t)
	if err != nil {
		f, ferr := strconv.ParseFloat(t, 64)
		if ferr != nil || f != math.Trunc(f) {
			return nil
		}
		year = int(f)
	}
	if year < 1900 || year > 2100 {
		return nil
	}
	return &year
}
