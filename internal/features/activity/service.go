package activity

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ActivityService interface {
	ListForSubmission(ctx context.Context, submissionID string, page, limit int64) ([]Entry, error)
	ExportForSubmission(ctx context.Context, submissionID string) ([]byte, string, error)
}

type ActivityServiceImpl struct {
	Repo ActivityRepository
}

func NewActivityService(repo ActivityRepository) ActivityService {
	return &ActivityServiceImpl{Repo: repo}
}

func (s *ActivityServiceImpl) ListForSubmission(ctx context.Context, submissionID string, page, limit int64) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.Repo.ListBySubmission(ctx, submissionID, limit, (page-1)*limit)
}

var exportColumns = []string{"Created At", "Message", "Category", "Actor", "Actor Role", "Action", "Stage", "Status"}

// ExportForSubmission renders the full log as an XLSX workbook, newest first.
func (s *ActivityServiceImpl) ExportForSubmission(ctx context.Context, submissionID string) ([]byte, string, error) {
	entries, err := s.Repo.ListBySubmission(ctx, submissionID, 0, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Activity"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, e := range entries {
		row := []any{
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Message,
			string(e.Category),
			e.ActorID,
			e.Metadata.ActorRole,
			e.Metadata.Action,
			e.Metadata.Stage,
			e.Metadata.Status,
		}
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), fmt.Sprintf("submission-%s-activity.xlsx", submissionID), nil
}
