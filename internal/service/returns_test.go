package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/internal/notebook"
	"coursework_service/internal/service"
	"coursework_service/internal/service/mocks"
	"coursework_service/pkg/logger"
)

type returnFixture struct {
	store   *memStore
	status  *memStatus
	sink    *mocks.MockNotificationSink
	journal *mocks.MockDeliveryJournal
	svc     *service.ReturnService
	sleeps  []time.Duration
}

func setupReturns(t *testing.T, withJournal bool) *returnFixture {
	ctrl := gomock.NewController(t)
	f := &returnFixture{
		store:  newMemStore(),
		status: newMemStatus(),
		sink:   mocks.NewMockNotificationSink(ctrl),
	}
	var journal service.DeliveryJournal
	if withJournal {
		f.journal = mocks.NewMockDeliveryJournal(ctrl)
		journal = f.journal
	}
	grades := service.NewGradeService(f.store, logger.NewNop(), fixedClock)
	f.svc = service.NewReturnService(f.store, f.status, f.sink, journal, grades,
		logger.NewNop(), fixedClock, time.Second, "CHEM101")
	f.svc.SetSleep(func(d time.Duration) { f.sleeps = append(f.sleeps, d) })
	return f
}

func TestReturnOne(t *testing.T) {
	ctx := context.Background()

	t.Run("not collected", func(t *testing.T) {
		f := setupReturns(t, false)
		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "s1", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrNotCollected)
	})

	t.Run("not graded", func(t *testing.T) {
		f := setupReturns(t, false)
		f.store.put(domain.LocationActive, "s1", "hw01", notebookJSON(t, doc{}))

		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "s1", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrNotGraded)
		assert.Zero(t, f.store.writes)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := setupReturns(t, false)
		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "zz", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("sends report and stamps file", func(t *testing.T) {
		f := setupReturns(t, true)
		course := defaultCourse(t, "s1")
		f.store.put(domain.LocationActive, "s1", "hw01",
			notebookJSON(t, doc{grade: ptr(0.85), comments: []string{"check units", "nice plot"}}))

		var sent domain.Notification
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n domain.Notification) error {
				sent = n
				return nil
			}).Times(1)
		f.journal.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, d *domain.Delivery) error {
				assert.Equal(t, "s1", d.StudentID)
				assert.Equal(t, "hw01", d.Label)
				assert.Equal(t, "2026-10-17 12:00:00.000000", d.ReturnedAt)
				return nil
			})

		receipt, err := f.svc.ReturnOne(ctx, course, "s1", "hw01", false)
		require.NoError(t, err)

		assert.Equal(t, "s1@uni.edu", receipt.Recipient)
		assert.Equal(t, "2026-10-17 12:00:00.000000", receipt.ReturnedAt)
		assert.Equal(t, "s1@uni.edu", sent.Recipient)
		assert.Equal(t, "[CHEM101] - s1-hw01.ipynb has been graded", sent.Subject)
		assert.Contains(t, sent.Body, "Overall Grade = 0.850")
		assert.Contains(t, sent.Body, "Comments:\n1. check units\n2. nice plot")
		assert.Contains(t, sent.Body, "Grades\n======\n")
		assert.Contains(t, sent.Body, "Course overall grade: 0.850")
		require.NotNil(t, sent.Attachment)
		assert.Equal(t, "s1-hw01.ipynb", sent.Attachment.Filename)

		stored, _ := f.store.get(domain.LocationActive, "s1", "hw01")
		assert.Equal(t, stored, sent.Attachment.Content)
		md, err := notebook.Parse(stored)
		require.NoError(t, err)
		require.NotNil(t, md.Metadata().Returned)
		assert.Equal(t, "2026-10-17 12:00:00.000000", *md.Metadata().Returned)
	})

	t.Run("second return without force is refused", func(t *testing.T) {
		f := setupReturns(t, false)
		course := defaultCourse(t, "s1")
		f.store.put(domain.LocationActive, "s1", "hw01", notebookJSON(t, doc{grade: ptr(0.5)}))
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		_, err := f.svc.ReturnOne(ctx, course, "s1", "hw01", false)
		require.NoError(t, err)

		_, err = f.svc.ReturnOne(ctx, course, "s1", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrAlreadyReturned)

		_, err = f.svc.ReturnOne(ctx, course, "s1", "hw01", true)
		assert.NoError(t, err)
	})

	t.Run("auth failure rolls back the stamp", func(t *testing.T) {
		f := setupReturns(t, true)
		original := notebookJSON(t, doc{grade: ptr(0.5)})
		f.store.put(domain.LocationActive, "s1", "hw01", original)
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errdefs.ErrAuthFailure)

		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "s1", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrAuthFailure)

		stored, _ := f.store.get(domain.LocationActive, "s1", "hw01")
		assert.Equal(t, original, stored)
	})

	t.Run("unknown sink error is a transport failure", func(t *testing.T) {
		f := setupReturns(t, false)
		original := notebookJSON(t, doc{grade: ptr(0.5)})
		f.store.put(domain.LocationActive, "s1", "hw01", original)
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "s1", "hw01", false)
		assert.ErrorIs(t, err, errdefs.ErrTransportFailure)

		stored, _ := f.store.get(domain.LocationActive, "s1", "hw01")
		assert.Equal(t, original, stored)
	})

	t.Run("journal failure is not fatal", func(t *testing.T) {
		f := setupReturns(t, true)
		f.store.put(domain.LocationActive, "s1", "hw01", notebookJSON(t, doc{grade: ptr(0.5)}))
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
		f.journal.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.ReturnOne(ctx, defaultCourse(t, "s1"), "s1", "hw01", false)
		assert.NoError(t, err)
	})
}

func TestReturnAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty roster still marks returned", func(t *testing.T) {
		f := setupReturns(t, false)
		summary, err := f.svc.ReturnAll(ctx, defaultCourse(t), "hw01")
		require.NoError(t, err)
		assert.Empty(t, summary.Returned)
		assert.Equal(t, domain.StatusReturned, f.status.markers["hw01"])
	})

	t.Run("skips nothing-to-return and paces sends", func(t *testing.T) {
		f := setupReturns(t, false)
		course := defaultCourse(t, "s1", "s2", "s3", "s4")
		f.store.put(domain.LocationActive, "s1", "hw01", notebookJSON(t, doc{grade: ptr(0.9)}))
		f.store.put(domain.LocationActive, "s2", "hw01", notebookJSON(t, doc{}))
		f.store.put(domain.LocationActive, "s4", "hw01", notebookJSON(t, doc{grade: ptr(0.6)}))

		var recipients []string
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n domain.Notification) error {
				recipients = append(recipients, n.Recipient)
				return nil
			}).Times(2)

		summary, err := f.svc.ReturnAll(ctx, course, "hw01")
		require.NoError(t, err)

		assert.Equal(t, []string{"s1@uni.edu", "s4@uni.edu"}, recipients)
		assert.Len(t, summary.Returned, 2)
		require.Len(t, summary.Skipped, 2)
		assert.Equal(t, "s2", summary.Skipped[0].StudentID)
		assert.Equal(t, "s3", summary.Skipped[1].StudentID)
		assert.Equal(t, []time.Duration{time.Second}, f.sleeps)
		assert.Equal(t, domain.StatusReturned, f.status.markers["hw01"])
	})

	t.Run("malformed and already returned files are skipped", func(t *testing.T) {
		f := setupReturns(t, false)
		course := defaultCourse(t, "s1", "s2", "s3")
		f.store.put(domain.LocationActive, "s1", "hw01", []byte(`{"metadata": {"grade": "A+"}}`))
		f.store.put(domain.LocationActive, "s2", "hw01", notebookJSON(t, doc{grade: ptr(0.9)}))
		f.store.put(domain.LocationActive, "s3", "hw01", notebookJSON(t, doc{grade: ptr(0.7)}))
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		summary, err := f.svc.ReturnAll(ctx, course, "hw01")
		require.NoError(t, err)
		assert.Len(t, summary.Returned, 2)
		require.Len(t, summary.Skipped, 1)
		assert.Equal(t, "s1", summary.Skipped[0].StudentID)
		assert.Contains(t, summary.Skipped[0].Reason, errdefs.ErrMalformed.Error())
		assert.Equal(t, domain.StatusReturned, f.status.markers["hw01"])

		// A rerun sends nothing.
		summary, err = f.svc.ReturnAll(ctx, course, "hw01")
		require.NoError(t, err)
		assert.Empty(t, summary.Returned)
		require.Len(t, summary.Skipped, 3)
		assert.Contains(t, summary.Skipped[0].Reason, errdefs.ErrMalformed.Error())
		assert.Contains(t, summary.Skipped[1].Reason, errdefs.ErrAlreadyReturned.Error())
		assert.Contains(t, summary.Skipped[2].Reason, errdefs.ErrAlreadyReturned.Error())
		assert.Equal(t, domain.StatusReturned, f.status.markers["hw01"])
	})

	t.Run("sink failure aborts the batch", func(t *testing.T) {
		f := setupReturns(t, false)
		f.status.markers["hw01"] = domain.StatusCollected
		course := defaultCourse(t, "s1", "s2")
		f.store.put(domain.LocationActive, "s1", "hw01", notebookJSON(t, doc{grade: ptr(0.9)}))
		f.store.put(domain.LocationActive, "s2", "hw01", notebookJSON(t, doc{grade: ptr(0.9)}))
		f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errdefs.ErrTransportFailure).Times(1)

		summary, err := f.svc.ReturnAll(ctx, course, "hw01")
		assert.ErrorIs(t, err, errdefs.ErrTransportFailure)
		assert.Empty(t, summary.Returned)
		assert.Equal(t, domain.StatusCollected, f.status.markers["hw01"])
	})

	t.Run("unknown label", func(t *testing.T) {
		f := setupReturns(t, false)
		_, err := f.svc.ReturnAll(ctx, defaultCourse(t, "s1"), "nope")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})
}

func TestDeliveries(t *testing.T) {
	ctx := context.Background()

	t.Run("journal disabled", func(t *testing.T) {
		f := setupReturns(t, false)
		_, err := f.svc.Deliveries(ctx, "hw01")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("lists journal rows", func(t *testing.T) {
		f := setupReturns(t, true)
		rows := []*domain.Delivery{{StudentID: "s1", Label: "hw01"}}
		f.journal.EXPECT().ListByLabel(gomock.Any(), "hw01").Return(rows, nil)

		got, err := f.svc.Deliveries(ctx, "hw01")
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})
}
