package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/internal/notebook"
	"coursework_service/pkg/logger"
)

const DefaultPacing = time.Second

type ReturnReceipt struct {
	StudentID  string
	Label      string
	Recipient  string
	Overall    *float64
	ReturnedAt string
}

type SkippedReturn struct {
	StudentID string
	Reason    string
}

type ReturnSummary struct {
	Label    string
	Returned []ReturnReceipt
	Skipped  []SkippedReturn
}

type ReturnService struct {
	store      SubmissionStore
	status     StatusStore
	sink       NotificationSink
	journal    DeliveryJournal
	grades     *GradeService
	log        *logger.Logger
	now        Clock
	pacing     time.Duration
	sleep      func(time.Duration)
	courseName string
}

// NewReturnService wires the return engine. journal may be nil.
func NewReturnService(
	store SubmissionStore,
	status StatusStore,
	sink NotificationSink,
	journal DeliveryJournal,
	grades *GradeService,
	log *logger.Logger,
	now Clock,
	pacing time.Duration,
	courseName string,
) *ReturnService {
	if now == nil {
		now = SystemClock
	}
	return &ReturnService{
		store:      store,
		status:     status,
		sink:       sink,
		journal:    journal,
		grades:     grades,
		log:        log,
		now:        now,
		pacing:     pacing,
		sleep:      time.Sleep,
		courseName: courseName,
	}
}

// SetSleep replaces the pacing sleep. Tests use it to observe pacing.
func (s *ReturnService) SetSleep(sleep func(time.Duration)) {
	s.sleep = sleep
}

// pendingReturn is a checked, composed return that has not been sent yet.
type pendingReturn struct {
	student  domain.Student
	label    string
	original []byte
	doc      *notebook.Document
	overall  *float64
	message  domain.Notification
}

// ReturnOne sends the graded active file for (student, label) back to the
// student. Without force a second return fails with ErrAlreadyReturned.
func (s *ReturnService) ReturnOne(ctx context.Context, course Course, studentID, label string, force bool) (*ReturnReceipt, error) {
	p, err := s.prepare(course, studentID, label, force)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, p)
}

func (s *ReturnService) prepare(course Course, studentID, label string, force bool) (*pendingReturn, error) {
	student, err := course.Roster.Student(studentID)
	if err != nil {
		return nil, err
	}
	if _, err := course.Catalog.Assignment(label); err != nil {
		return nil, err
	}

	data, err := s.store.Read(domain.LocationActive, studentID, label)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", studentID, label, errdefs.ErrNotCollected)
		}
		return nil, err
	}
	doc, err := notebook.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.store.FileName(studentID, label), err)
	}

	md := doc.Metadata()
	if !md.Graded() {
		return nil, fmt.Errorf("%s/%s: %w", studentID, label, errdefs.ErrNotGraded)
	}
	if md.Returned != nil && !force {
		return nil, fmt.Errorf("%s/%s returned at %s: %w", studentID, label, *md.Returned, errdefs.ErrAlreadyReturned)
	}
	if student.Email == "" {
		return nil, fmt.Errorf("student %s has no email address: %w", studentID, errdefs.ErrValidation)
	}

	records := s.grades.Records(course, studentID)
	var overall *float64
	if v, err := Overall(records, course.Catalog); err == nil {
		overall = &v
	}

	fileName := s.store.FileName(studentID, label)
	return &pendingReturn{
		student:  student,
		label:    label,
		original: data,
		doc:      doc,
		overall:  overall,
		message: domain.Notification{
			Recipient: student.Email,
			Subject:   fmt.Sprintf("[%s] - %s has been graded", s.courseName, fileName),
			Body:      gradeReport(md, records, overall),
		},
	}, nil
}

// deliver stamps the file, sends it and restores the original bytes if the
// sink fails.
func (s *ReturnService) deliver(ctx context.Context, p *pendingReturn) (*ReturnReceipt, error) {
	log := logger.FromContext(ctx, s.log).With(
		zap.String("student_id", p.student.ID),
		zap.String("label", p.label),
	)

	stamp := notebook.Timestamp(s.now())
	if err := p.doc.SetReturned(stamp); err != nil {
		return nil, err
	}
	stamped, err := p.doc.Bytes()
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(domain.LocationActive, p.student.ID, p.label, stamped); err != nil {
		return nil, fmt.Errorf("failed to stamp returned: %w", err)
	}

	msg := p.message
	msg.Attachment = &domain.Attachment{
		Filename: s.store.FileName(p.student.ID, p.label),
		Content:  stamped,
	}

	if err := s.sink.Send(ctx, msg); err != nil {
		if !errdefs.IsSinkFailure(err) {
			err = fmt.Errorf("%w: %v", errdefs.ErrTransportFailure, err)
		}
		if rbErr := s.store.Write(domain.LocationActive, p.student.ID, p.label, p.original); rbErr != nil {
			log.Error("failed to roll back returned stamp", zap.Error(rbErr))
			return nil, errors.Join(err, rbErr)
		}
		log.Warn("return notification failed, stamp rolled back", zap.Error(err))
		return nil, err
	}

	receipt := &ReturnReceipt{
		StudentID:  p.student.ID,
		Label:      p.label,
		Recipient:  msg.Recipient,
		Overall:    p.doc.Metadata().OverallGrade(),
		ReturnedAt: stamp,
	}
	s.journalDelivery(ctx, log, receipt, msg.Subject)

	log.Info("submission returned", zap.String("recipient", msg.Recipient))
	return receipt, nil
}

func (s *ReturnService) journalDelivery(ctx context.Context, log *logger.Logger, r *ReturnReceipt, subject string) {
	if s.journal == nil {
		return
	}
	err := s.journal.Create(ctx, &domain.Delivery{
		StudentID:  r.StudentID,
		Label:      r.Label,
		Recipient:  r.Recipient,
		Subject:    subject,
		Overall:    r.Overall,
		ReturnedAt: r.ReturnedAt,
	})
	if err != nil {
		log.Error("failed to journal delivery", zap.Error(err))
	}
}

// ReturnAll returns label to every student in roster order, pausing between
// sends. Students with nothing to return are skipped; a sink failure stops
// the batch. The status marker is set to Returned once the roster is done.
func (s *ReturnService) ReturnAll(ctx context.Context, course Course, label string) (*ReturnSummary, error) {
	if _, err := course.Catalog.Assignment(label); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx, s.log).With(zap.String("label", label))

	summary := &ReturnSummary{Label: label}
	sent := false
	for _, student := range course.Roster.Students() {
		p, err := s.prepare(course, student.ID, label, false)
		if err != nil {
			if errdefs.IsNothingToReturn(err) || errors.Is(err, errdefs.ErrValidation) {
				summary.Skipped = append(summary.Skipped, SkippedReturn{StudentID: student.ID, Reason: err.Error()})
				continue
			}
			return summary, err
		}

		if sent && s.pacing > 0 {
			s.sleep(s.pacing)
		}
		receipt, err := s.deliver(ctx, p)
		if err != nil {
			log.Error("return batch aborted",
				zap.String("student_id", student.ID),
				zap.Int("returned", len(summary.Returned)),
				zap.Error(err),
			)
			return summary, err
		}
		sent = true
		summary.Returned = append(summary.Returned, *receipt)
	}

	if err := s.status.MarkReturned(label); err != nil {
		return summary, fmt.Errorf("failed to mark %s returned: %w", label, err)
	}
	log.Info("return batch complete",
		zap.Int("returned", len(summary.Returned)),
		zap.Int("skipped", len(summary.Skipped)),
	)
	return summary, nil
}

func (s *ReturnService) Deliveries(ctx context.Context, label string) ([]*domain.Delivery, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("delivery journal is not configured: %w", errdefs.ErrNotFound)
	}
	return s.journal.ListByLabel(ctx, label)
}
