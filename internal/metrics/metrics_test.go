package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r, err := NewRecorder()
	require.NoError(t, err)

	r.ObserveLoad("ok", 20*time.Millisecond)
	r.ObserveLoad("ok", 30*time.Millisecond)
	r.ObserveLoad("not_found", time.Millisecond)
	r.ObserveSubmit("invalid", time.Millisecond)
	r.ObserveRender("loaded", "html")
	r.ObserveSync(3, nil)
	r.ObserveSync(0, errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.loads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.loads.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.submits.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.renders.WithLabelValues("loaded", "html")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.syncRuns.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.syncRecords))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, err := NewRecorder()
	require.NoError(t, err)
	b, err := NewRecorder()
	require.NoError(t, err)

	a.ObserveSubmit("ok", time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.submits.WithLabelValues("ok")))
}

func TestHandlerExposition(t *testing.T) {
	r, err := NewRecorder()
	require.NoError(t, err)
	r.ObserveLoad("ok", time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `checklist_loads_total{result="ok"} 1`), text)
	assert.Contains(t, text, "checklist_load_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}
