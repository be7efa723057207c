package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"interview-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cells(values ...interface{}) []*string {
	out := make([]*string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[i] = &s
		}
	}
	return out
}

func TestIngestionService_SkipsYearAndBlankRows(t *testing.T) {
	ctx := context.Background()
	reader := new(MockSheetReader)
	questions := new(MockQuestionService)

	sheet := &domain.Sheet{
		Header: []string{"질문", "분류"},
		Rows: []domain.SheetRow{
			{Number: 2, Cells: cells("2024", "인성")},
			{Number: 3, Cells: cells("팀워크 경험에 대해 말해주세요 2024", "인성")},
			{Number: 4, Cells: cells(nil, "인성")},
		},
	}
	reader.On("ReadFirstSheet", ctx, mock.Anything).Return(sheet, nil)
	questions.On("Add", ctx, mock.MatchedBy(func(in domain.QuestionInput) bool {
		return in.Text == "팀워크 경험에 대해 말해주세요" && *in.Category == "인성"
	})).Return(&domain.Question{ID: "q1"}, nil)

	out, err := NewIngestionService(reader, questions, nil, zap.NewNop()).Ingest(ctx, "u1", strings.NewReader("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalRows)
	assert.Equal(t, 1, out.SuccessCount)
	assert.Equal(t, 0, out.FailureCount)
	assert.Empty(t, out.Errors)
	questions.AssertNumberOfCalls(t, "Add", 1)
}

func TestIngestionService_RowFailuresCollected(t *testing.T) {
	ctx := context.Background()
	reader := new(MockSheetReader)
	questions := new(MockQuestionService)

	sheet := &domain.Sheet{
		Header: []string{" Company ", "QUESTION", "year", "카테고리"},
		Rows: []domain.SheetRow{
			{Number: 2, Cells: cells("카카오", "트랜잭션 격리 수준을 설명하세요", "2023", "DB")},
			{Number: 3, Cells: cells("A", "인덱스가 느려지는 경우는?", "2022.0", "D")},
			{Number: 4, Cells: cells("토스", "캐시 전략을 설명하세요", "작년", "백엔드")},
			{Number: 5, Cells: cells("네이버", "abc")},
			{Number: 6, Cells: cells("네이버", "ab 2023")},
		},
	}
	reader.On("ReadFirstSheet", ctx, mock.Anything).Return(sheet, nil)

	questions.On("Add", ctx, mock.MatchedBy(func(in domain.QuestionInput) bool {
		return in.Company != nil && *in.Company == "카카오" && *in.QuestionAt == 2023 && *in.Category == "DB"
	})).Return(&domain.Question{}, nil)
	questions.On("Add", ctx, mock.MatchedBy(func(in domain.QuestionInput) bool {
		return in.Company == nil && in.Category == nil && *in.QuestionAt == 2022
	})).Return(nil, errors.New("duplicate key value violates unique constraint"))
	questions.On("Add", ctx, mock.MatchedBy(func(in domain.QuestionInput) bool {
		return in.QuestionAt == nil && *in.Company == "토스"
	})).Return(&domain.Question{}, nil)

	out, err := NewIngestionService(reader, questions, nil, zap.NewNop()).Ingest(ctx, "u1", strings.NewReader("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalRows)
	assert.Equal(t, 2, out.SuccessCount)
	assert.Equal(t, 1, out.FailureCount)
	assert.Equal(t, out.TotalRows, out.SuccessCount+out.FailureCount)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, domain.RowError{Row: 3, Message: "duplicate key value violates unique constraint"}, out.Errors[0])
}

func TestIngestionService_MissingQuestionColumn(t *testing.T) {
	ctx := context.Background()
	reader := new(MockSheetReader)
	questions := new(MockQuestionService)

	reader.On("ReadFirstSheet", ctx, mock.Anything).Return(&domain.Sheet{
		Header: []string{"title", "회사"},
		Rows:   []domain.SheetRow{{Number: 2, Cells: cells("어떤 질문입니다", "회사")}},
	}, nil)

	out, err := NewIngestionService(reader, questions, nil, zap.NewNop()).Ingest(ctx, "u1", strings.NewReader("x"))
	assert.Nil(t, out)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeMissingQuestionColumn, de.Code)
	questions.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestIngestionService_ArchivesUpload(t *testing.T) {
	ctx := context.Background()
	reader := new(MockSheetReader)
	archive := new(MockUploadArchive)
	payload := []byte("raw-xlsx-bytes")

	archive.On("Store", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "uploads/u1/") && strings.HasSuffix(key, ".xlsx")
	}), payload, archiveContentType).Return(errors.New("bucket missing"))
	reader.On("ReadFirstSheet", ctx, mock.MatchedBy(func(r *bytes.Reader) bool {
		return r.Len() == len(payload)
	})).Return(&domain.Sheet{Header: []string{"question"}}, nil)

	out, err := NewIngestionService(reader, new(MockQuestionService), archive, zap.NewNop()).Ingest(ctx, "u1", bytes.NewReader(payload))
	require.NoError(t, err, "archive failure is not fatal")
	assert.Equal(t, 0, out.TotalRows)
	archive.AssertExpectations(t)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2023, *parseYear(strp("2023")))
	assert.Equal(t, 2021, *parseYear(strp(" 2021.0 ")))
	assert.Nil(t, parseYear(strp("2021.5")))
	assert.Nil(t, parseYear(strp("작년")))
	assert.Nil(t, parseYear(strp("45000")))
	assert.Nil(t, parseYear(nil))
}

func TestMapHeader(t *testing.T) {
	cols := mapHeader([]string{"ID", " 질문 ", "Question", "기업", "출제"})
	assert.Equal(t, 1, cols[colQuestion], "first synonym wins")
	assert.Equal(t, 3, cols[colCompany])
	assert.Equal(t, 4, cols[colQuestionAt])
	_, ok := cols[colCategory]
	assert.False(t, ok)
}
