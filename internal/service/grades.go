package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/internal/notebook"
	"coursework_service/pkg/logger"
)

type StudentGrades struct {
	Student domain.Student
	// Records holds one entry per post-due assignment, in catalog order.
	Records []domain.GradeRecord
	Overall float64
}

type GradeService struct {
	store SubmissionStore
	log   *logger.Logger
	now   Clock
}

func NewGradeService(store SubmissionStore, log *logger.Logger, now Clock) *GradeService {
	if now == nil {
		now = SystemClock
	}
	return &GradeService{store: store, log: log, now: now}
}

// Record reads the active file for (student, assignment). An absent file
// is a missing record; an unreadable one carries its error.
func (s *GradeService) Record(studentID string, a domain.Assignment) domain.GradeRecord {
	rec := domain.GradeRecord{
		Label:    a.Label,
		Category: a.Category,
		Points:   a.Points,
		DueDate:  a.DueDate,
	}

	path, err := s.store.Path(domain.LocationActive, studentID, a.Label)
	if err != nil {
		rec.Err = err
		return rec
	}
	rec.Path = path

	data, err := s.store.Read(domain.LocationActive, studentID, a.Label)
	if err != nil {
		if !errors.Is(err, errdefs.ErrNotFound) {
			rec.Submitted = true
			rec.Err = err
		}
		return rec
	}
	rec.Submitted = true

	doc, err := notebook.Parse(data)
	if err != nil {
		rec.Err = fmt.Errorf("%s: %w", path, err)
		return rec
	}
	if g := doc.Metadata().Grade; g != nil {
		rec.Technical = g.Technical
		rec.Presentation = g.Presentation
		rec.Overall = g.Overall
	}
	return rec
}

// Records returns grade records for every assignment past its due date.
func (s *GradeService) Records(course Course, studentID string) []domain.GradeRecord {
	now := s.now()
	var records []domain.GradeRecord
	for _, a := range course.Catalog.Assignments() {
		if !a.PostDue(now) {
			continue
		}
		records = append(records, s.Record(studentID, a))
	}
	return records
}

// Overall is the points and category weighted mean of the record grades.
// Missing and ungraded work counts as zero.
func Overall(records []domain.GradeRecord, catalog Catalog) (float64, error) {
	var num, den float64
	for _, r := range records {
		w := r.Points * catalog.Weight(r.Category)
		num += r.Credit() * w
		den += w
	}
	if !(den > 0) || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, errdefs.ErrNoGradableWork
	}
	return num / den, nil
}

func (s *GradeService) GradesFor(ctx context.Context, course Course, studentID string) (*StudentGrades, error) {
	student, err := course.Roster.Student(studentID)
	if err != nil {
		return nil, err
	}

	records := s.Records(course, studentID)
	for _, r := range records {
		if r.Err != nil {
			logger.FromContext(ctx, s.log).Warn("unreadable submission counted as zero",
				zap.String("student_id", studentID),
				zap.String("label", r.Label),
				zap.Error(r.Err),
			)
		}
	}

	overall, err := Overall(records, course.Catalog)
	if err != nil {
		return nil, fmt.Errorf("grades for %s: %w", studentID, err)
	}

	return &StudentGrades{
		Student: student,
		Records: records,
		Overall: overall,
	}, nil
}
