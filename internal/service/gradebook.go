package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/pkg/logger"
)

const gradebookSheet = "Gradebook"

type GradebookRow struct {
	Student domain.Student
	// Overall is nil when nothing is gradable yet.
	Overall *float64
	Grades  map[string]*float64
}

type Gradebook struct {
	Labels []string
	Rows   []GradebookRow
}

// Gradebook builds one row per roster student over all post-due
// assignments.
func (s *GradeService) Gradebook(ctx context.Context, course Course) (*Gradebook, error) {
	now := s.now()
	gb := &Gradebook{}
	for _, a := range course.Catalog.Assignments() {
		if a.PostDue(now) {
			gb.Labels = append(gb.Labels, a.Label)
		}
	}

	for _, student := range course.Roster.Students() {
		records := s.Records(course, student.ID)
		row := GradebookRow{
			Student: student,
			Grades:  make(map[string]*float64, len(records)),
		}
		for _, r := range records {
			row.Grades[r.Label] = r.Overall
		}

		overall, err := Overall(records, course.Catalog)
		switch {
		case err == nil:
			row.Overall = &overall
		case errors.Is(err, errdefs.ErrNoGradableWork):
		default:
			return nil, err
		}
		gb.Rows = append(gb.Rows, row)
	}

	logger.FromContext(ctx, s.log).Debug("gradebook built",
		zap.Int("students", len(gb.Rows)),
		zap.Int("assignments", len(gb.Labels)),
	)
	return gb, nil
}

// ExportXLSX renders the gradebook as a workbook and returns it with a
// suggested file name.
func (s *GradeService) ExportXLSX(ctx context.Context, course Course, courseName string) (*bytes.Buffer, string, error) {
	gb, err := s.Gradebook(ctx, course)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(gradebookSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create style: %w", err)
	}

	header := append([]string{"Name", "Student ID", "Overall"}, gb.Labels...)
	for i, h := range header {
		if err := f.SetCellValue(gradebookSheet, cell(colName(i), 1), h); err != nil {
			return nil, "", err
		}
	}
	if err := f.SetCellStyle(gradebookSheet, "A1", cell(colName(len(header)-1), 1), headerStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(gradebookSheet, "A", "A", 28); err != nil {
		return nil, "", err
	}
	if err := f.SetColWidth(gradebookSheet, "B", "B", 14); err != nil {
		return nil, "", err
	}

	for r, row := range gb.Rows {
		line := r + 2
		values := []interface{}{row.Student.Name(), row.Student.ID, scoreCell(row.Overall)}
		for _, label := range gb.Labels {
			values = append(values, scoreCell(row.Grades[label]))
		}
		for c, v := range values {
			if err := f.SetCellValue(gradebookSheet, cell(colName(c), line), v); err != nil {
				return nil, "", err
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.FromContext(ctx, s.log).Error("failed to write workbook", zap.Error(err))
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	name := strings.TrimSpace(courseName)
	if name == "" {
		name = "course"
	}
	return buf, fmt.Sprintf("%s-gradebook.xlsx", strings.ReplaceAll(name, " ", "_")), nil
}

func scoreCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
