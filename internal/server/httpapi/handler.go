package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/service"
	"coursework_service/pkg/logger"
)

const maxBodyBytes = 10 << 20

// CourseLoader returns the roster and catalog an operation should run
// against.
type CourseLoader interface {
	Load(ctx context.Context) (service.Course, error)
}

type Collector interface {
	Collect(ctx context.Context, course service.Course, label string, opts service.CollectOptions) (*service.CollectionResult, error)
	Ungraded(ctx context.Context, course service.Course, label string, n int) ([]service.UngradedItem, error)
	Overview(ctx context.Context, course service.Course) []service.AssignmentOverview
}

type Grader interface {
	GradesFor(ctx context.Context, course service.Course, studentID string) (*service.StudentGrades, error)
	Gradebook(ctx context.Context, course service.Course) (*service.Gradebook, error)
	ExportXLSX(ctx context.Context, course service.Course, courseName string) (*bytes.Buffer, string, error)
}

type Returner interface {
	ReturnOne(ctx context.Context, course service.Course, studentID, label string, force bool) (*service.ReturnReceipt, error)
	ReturnAll(ctx context.Context, course service.Course, label string) (*service.ReturnSummary, error)
	Deliveries(ctx context.Context, label string) ([]*domain.Delivery, error)
}

type Submitter interface {
	TurnIn(ctx context.Context, course service.Course, studentID, label string, content []byte) (*service.TurnInReceipt, error)
}

type Handler struct {
	courses    CourseLoader
	collector  Collector
	grader     Grader
	returner   Returner
	submitter  Submitter
	log        *logger.Logger
	courseName string

	// mu serializes requests that change files on disk.
	mu sync.Mutex
}

func NewHandler(
	courses CourseLoader,
	collector Collector,
	grader Grader,
	returner Returner,
	submitter Submitter,
	log *logger.Logger,
	courseName string,
) *Handler {
	return &Handler{
		courses:    courses,
		collector:  collector,
		grader:     grader,
		returner:   returner,
		submitter:  submitter,
		log:        log,
		courseName: courseName,
	}
}

// Router builds the full HTTP surface including middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(NewLoggingMiddleware(h.log))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, maxBodyBytes)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assignments", h.Overview)
	r.Get("/assignments/{label}/ungraded", h.Ungraded)
	r.Get("/assignments/{label}/deliveries", h.Deliveries)
	r.Get("/students/{student_id}/grades", h.Grades)
	r.Get("/gradebook", h.Gradebook)
	r.Get("/gradebook.xlsx", h.GradebookXLSX)

	r.With(h.serialize).Group(func(r chi.Router) {
		r.Post("/assignments/{label}/collect", h.Collect)
		r.Post("/assignments/{label}/return-all", h.ReturnAll)
		r.Post("/assignments/{label}/students/{student_id}/return", h.ReturnOne)
		r.Put("/assignments/{label}/students/{student_id}/submission", h.TurnIn)
	})
}

func (h *Handler) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	statusCode := mapErr(err)
	log := logger.FromContext(r.Context(), h.log)
	if statusCode >= http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
	} else {
		log.Debug(msg, zap.Error(err))
	}
	writeErrorJSON(w, statusCode, errorMessage(statusCode, err))
}

func (h *Handler) course(w http.ResponseWriter, r *http.Request) (service.Course, bool) {
	course, err := h.courses.Load(r.Context())
	if err != nil {
		h.fail(w, r, "failed to load course", err)
		return service.Course{}, false
	}
	return course, true
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOverviewDTOs(h.collector.Overview(r.Context(), course)))
}

func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	var opts service.CollectOptions
	if opts.Shuffle, err = parseBoolQuery(r, "shuffle"); err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	if opts.ArchiveEarly, err = parseBoolQuery(r, "archive"); err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	res, err := h.collector.Collect(r.Context(), course, label, opts)
	if err != nil {
		h.fail(w, r, "collect failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionDTO(res))
}

func (h *Handler) Ungraded(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		if n, err = strconv.Atoi(raw); err != nil || n < 0 {
			h.fail(w, r, "invalid request parameters", fmt.Errorf("%w: n must be a non-negative integer", ErrBadRequest))
			return
		}
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	items, err := h.collector.Ungraded(r.Context(), course, label, n)
	if err != nil {
		h.fail(w, r, "ungraded lookup failed", err)
		return
	}
	out := make([]ungradedDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ungradedDTO{StudentID: it.StudentID, Path: it.Path})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ReturnOne(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	studentID, err := parsePathParam(r, "student_id")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	force, err := parseBoolQuery(r, "force")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	receipt, err := h.returner.ReturnOne(r.Context(), course, studentID, label, force)
	if err != nil {
		h.fail(w, r, "return failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptDTO(*receipt))
}

// ReturnAll reports the partial summary alongside the error when the
// batch stops early.
func (h *Handler) ReturnAll(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	summary, err := h.returner.ReturnAll(r.Context(), course, label)
	if err != nil {
		if summary == nil {
			h.fail(w, r, "return batch failed", err)
			return
		}
		statusCode := mapErr(err)
		logger.FromContext(r.Context(), h.log).Error("return batch aborted", zap.Error(err))
		dto := toReturnSummaryDTO(summary)
		dto.Error = errorMessage(statusCode, err)
		writeJSON(w, statusCode, dto)
		return
	}
	writeJSON(w, http.StatusOK, toReturnSummaryDTO(summary))
}

func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	ds, err := h.returner.Deliveries(r.Context(), label)
	if err != nil {
		h.fail(w, r, "delivery lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryDTOs(ds))
}

func (h *Handler) TurnIn(w http.ResponseWriter, r *http.Request) {
	label, err := parsePathParam(r, "label")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	studentID, err := parsePathParam(r, "student_id")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}
	content, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, r, "failed to read request body", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if len(content) == 0 {
		h.fail(w, r, "empty submission", fmt.Errorf("%w: empty submission", ErrBadRequest))
		return
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	receipt, err := h.submitter.TurnIn(r.Context(), course, studentID, label, content)
	if err != nil {
		h.fail(w, r, "turn in failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, turnInDTO{
		StudentID: receipt.StudentID,
		Label:     receipt.Label,
		Path:      receipt.Path,
		TurnedIn:  receipt.TurnedIn,
	})
}

func (h *Handler) Grades(w http.ResponseWriter, r *http.Request) {
	studentID, err := parsePathParam(r, "student_id")
	if err != nil {
		h.fail(w, r, "invalid request parameters", err)
		return
	}

	course, ok := h.course(w, r)
	if !ok {
		return
	}
	grades, err := h.grader.GradesFor(r.Context(), course, studentID)
	if err != nil {
		h.fail(w, r, "grade lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toStudentGradesDTO(grades))
}

func (h *Handler) Gradebook(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	gb, err := h.grader.Gradebook(r.Context(), course)
	if err != nil {
		h.fail(w, r, "gradebook failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toGradebookDTO(gb))
}

func (h *Handler) GradebookXLSX(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	buf, filename, err := h.grader.ExportXLSX(r.Context(), course, h.courseName)
	if err != nil {
		h.fail(w, r, "gradebook export failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func parsePathParam(r *http.Request, key string) (string, error) {
	val := chi.URLParam(r, key)
	if val == "" {
		return "", fmt.Errorf("%w: missing path param: %s", ErrBadRequest, key)
	}
	return val, nil
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, key)
	}
	return v, nil
}
