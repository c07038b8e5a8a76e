package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/internal/notebook"
	"coursework_service/pkg/logger"
)

type TurnInReceipt struct {
	StudentID string
	Label     string
	Path      string
	TurnedIn  string
}

type SubmitService struct {
	store      SubmissionStore
	sink       NotificationSink
	log        *logger.Logger
	now        Clock
	courseName string
	submitTo   string
}

// NewSubmitService wires turn-in. submitTo receives a copy of every
// turned-in file.
func NewSubmitService(
	store SubmissionStore,
	sink NotificationSink,
	log *logger.Logger,
	now Clock,
	courseName string,
	submitTo string,
) *SubmitService {
	if now == nil {
		now = SystemClock
	}
	return &SubmitService{
		store:      store,
		sink:       sink,
		log:        log,
		now:        now,
		courseName: courseName,
		submitTo:   submitTo,
	}
}

// TurnIn stamps content, places it in the inbox and sends a receipt. When
// the receipt cannot be sent the inbox is restored.
func (s *SubmitService) TurnIn(ctx context.Context, course Course, studentID, label string, content []byte) (*TurnInReceipt, error) {
	student, err := course.Roster.Student(studentID)
	if err != nil {
		return nil, err
	}
	if _, err := course.Catalog.Assignment(label); err != nil {
		return nil, err
	}

	doc, err := notebook.Parse(content)
	if err != nil {
		return nil, err
	}
	stamp := notebook.Timestamp(s.now())
	if err := doc.SetTurnedIn(stamp); err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	previous, err := s.store.Read(domain.LocationInbox, studentID, label)
	if err != nil && !errors.Is(err, errdefs.ErrNotFound) {
		return nil, err
	}
	if err := s.store.Write(domain.LocationInbox, studentID, label, data); err != nil {
		return nil, fmt.Errorf("failed to write submission: %w", err)
	}

	log := logger.FromContext(ctx, s.log).With(
		zap.String("student_id", studentID),
		zap.String("label", label),
	)

	fileName := s.store.FileName(studentID, label)
	msg := domain.Notification{
		Recipient: s.submitTo,
		Subject:   fmt.Sprintf("[%s] - Turning in %s from %s", s.courseName, label, student.Name()),
		Body:      fmt.Sprintf("%s turned in %s at %s.", student.Name(), fileName, stamp),
		Attachment: &domain.Attachment{
			Filename: fileName,
			Content:  data,
		},
	}
	if student.Email != "" {
		msg.Cc = []string{student.Email}
	}
	if msg.Recipient == "" {
		msg.Recipient, msg.Cc = student.Email, nil
	}

	if err := s.sink.Send(ctx, msg); err != nil {
		if !errdefs.IsSinkFailure(err) {
			err = fmt.Errorf("%w: %v", errdefs.ErrTransportFailure, err)
		}
		if rbErr := s.restoreInbox(studentID, label, previous); rbErr != nil {
			log.Error("failed to roll back turn-in", zap.Error(rbErr))
			return nil, errors.Join(err, rbErr)
		}
		log.Warn("turn-in receipt failed, inbox restored", zap.Error(err))
		return nil, err
	}

	path, _ := s.store.Path(domain.LocationInbox, studentID, label)
	log.Info("submission turned in")
	return &TurnInReceipt{
		StudentID: studentID,
		Label:     label,
		Path:      path,
		TurnedIn:  stamp,
	}, nil
}

func (s *SubmitService) restoreInbox(studentID, label string, previous []byte) error {
	if previous == nil {
		return s.store.Remove(domain.LocationInbox, studentID, label)
	}
	return s.store.Write(domain.LocationInbox, studentID, label, previous)
}
