package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"coursework_service/internal/domain"
)

// gradeReport is the plain-text body sent with a returned submission.
func gradeReport(md domain.Metadata, records []domain.GradeRecord, overall *float64) string {
	var g domain.Grade
	if md.Grade != nil {
		g = *md.Grade
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Technical: %s\nPresentation: %s\nOverall Grade = %s",
		domain.FormatScore(g.Technical),
		domain.FormatScore(g.Presentation),
		domain.FormatScore(g.Overall),
	)

	if len(md.Comments) > 0 {
		b.WriteString("\n\nComments:\n")
		for i, c := range md.Comments {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%d. %s", i+1, c)
		}
	}

	b.WriteString("\n\nGrades\n======\n")
	b.WriteString(gradeTable(records))

	if overall != nil {
		fmt.Fprintf(&b, "\n\nCourse overall grade: %.3f", *overall)
	}
	return b.String()
}

// gradeTable lists records newest due date first.
func gradeTable(records []domain.GradeRecord) string {
	sorted := make([]domain.GradeRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.After(sorted[j].DueDate)
	})

	header := fmt.Sprintf("%-35s %-15s %-8s %-10s %s", "label", "grade", "points", "category", "duedate")
	lines := []string{header, strings.Repeat("-", len(header))}
	for _, r := range sorted {
		lines = append(lines, fmt.Sprintf("%-35s %15s %s %-15s %s",
			r.Label,
			r.StatusString(),
			center(strconv.FormatFloat(r.Points, 'f', -1, 64), 8),
			r.Category,
			r.DueDate.UTC().Format(domain.DueDateLayout),
		))
	}
	return strings.Join(lines, "\n")
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
