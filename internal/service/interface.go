package service

//go:generate mockgen -destination=mocks/sink_mocks.go -package=mocks . NotificationSink,ArchiveMirror,DeliveryJournal

import (
	"context"
	"time"

	"coursework_service/internal/domain"
)

type Roster interface {
	Students() []domain.Student
	Student(id string) (domain.Student, error)
}

type Catalog interface {
	Assignments() []domain.Assignment
	Assignment(label string) (domain.Assignment, error)
	Weight(category string) float64
}

// Course is the roster and catalog snapshot an operation runs against.
type Course struct {
	Roster  Roster
	Catalog Catalog
}

type SubmissionStore interface {
	Locate(studentID, label string) (domain.Presence, error)
	Copy(src, dst domain.Location, studentID, label string) error
	Move(src, dst domain.Location, studentID, label string) error
	Read(loc domain.Location, studentID, label string) ([]byte, error)
	Write(loc domain.Location, studentID, label string, data []byte) error
	Remove(loc domain.Location, studentID, label string) error
	Path(loc domain.Location, studentID, label string) (string, error)
	FileName(studentID, label string) string
	List(label string, loc domain.Location) ([]string, error)
}

type StatusStore interface {
	Get(label string) (domain.StatusMarker, error)
	MarkCollected(label string) (bool, error)
	MarkReturned(label string) error
}

type NotificationSink interface {
	Send(ctx context.Context, n domain.Notification) error
}

type ArchiveMirror interface {
	Put(ctx context.Context, label, fileName string, data []byte) error
}

type DeliveryJournal interface {
	Create(ctx context.Context, delivery *domain.Delivery) error
	ListByLabel(ctx context.Context, label string) ([]*domain.Delivery, error)
}

// Clock returns the current time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}
