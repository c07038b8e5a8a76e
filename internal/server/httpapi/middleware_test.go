package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"coursework_service/pkg/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{ZapLogger: zap.New(core)}

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := logger.GetRequestID(r.Context())
		require.True(t, ok)
		seenID = id
		assert.Equal(t, id, r.Header.Get("X-Trace-Id"))
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	NewLoggingMiddleware(log)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gradebook", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, seenID, w.Header().Get("X-Trace-Id"))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/gradebook", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Equal(t, seenID, fields["trace_id"])
}
