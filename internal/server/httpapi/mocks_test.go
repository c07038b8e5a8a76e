package httpapi

import (
	"bytes"
	"context"

	"github.com/stretchr/testify/mock"

	"coursework_service/internal/domain"
	"coursework_service/internal/service"
)

type staticCourse struct {
	course service.Course
	err    error
}

func (s staticCourse) Load(context.Context) (service.Course, error) {
	return s.course, s.err
}

type mockCollector struct{ mock.Mock }

func (m *mockCollector) Collect(ctx context.Context, course service.Course, label string, opts service.CollectOptions) (*service.CollectionResult, error) {
	args := m.Called(ctx, course, label, opts)
	if res := args.Get(0); res != nil {
		return res.(*service.CollectionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollector) Ungraded(ctx context.Context, course service.Course, label string, n int) ([]service.UngradedItem, error) {
	args := m.Called(ctx, course, label, n)
	if res := args.Get(0); res != nil {
		return res.([]service.UngradedItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollector) Overview(ctx context.Context, course service.Course) []service.AssignmentOverview {
	args := m.Called(ctx, course)
	return args.Get(0).([]service.AssignmentOverview)
}

type mockGrader struct{ mock.Mock }

func (m *mockGrader) GradesFor(ctx context.Context, course service.Course, studentID string) (*service.StudentGrades, error) {
	args := m.Called(ctx, course, studentID)
	if res := args.Get(0); res != nil {
		return res.(*service.StudentGrades), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGrader) Gradebook(ctx context.Context, course service.Course) (*service.Gradebook, error) {
	args := m.Called(ctx, course)
	if res := args.Get(0); res != nil {
		return res.(*service.Gradebook), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGrader) ExportXLSX(ctx context.Context, course service.Course, courseName string) (*bytes.Buffer, string, error) {
	args := m.Called(ctx, course, courseName)
	if res := args.Get(0); res != nil {
		return res.(*bytes.Buffer), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type mockReturner struct{ mock.Mock }

func (m *mockReturner) ReturnOne(ctx context.Context, course service.Course, studentID, label string, force bool) (*service.ReturnReceipt, error) {
	args := m.Called(ctx, course, studentID, label, force)
	if res := args.Get(0); res != nil {
		return res.(*service.ReturnReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReturner) ReturnAll(ctx context.Context, course service.Course, label string) (*service.ReturnSummary, error) {
	args := m.Called(ctx, course, label)
	if res := args.Get(0); res != nil {
		return res.(*service.ReturnSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReturner) Deliveries(ctx context.Context, label string) ([]*domain.Delivery, error) {
	args := m.Called(ctx, label)
	if res := args.Get(0); res != nil {
		return res.([]*domain.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) TurnIn(ctx context.Context, course service.Course, studentID, label string, content []byte) (*service.TurnInReceipt, error) {
	args := m.Called(ctx, course, studentID, label, content)
	if res := args.Get(0); res != nil {
		return res.(*service.TurnInReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}
