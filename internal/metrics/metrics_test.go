package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(CyclesTotal.WithLabelValues("error"))

	RecordCycle(errors.New("boom"), 0.2, 7)
	RecordCycle(nil, 0.1, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(CyclesTotal.WithLabelValues("error")))
	assert.Equal(t, float64(3), testutil.ToFloat64(ActiveConversations))
}

func TestRecordModeration(t *testing.T) {
	before := testutil.ToFloat64(ModerationActions.WithLabelValues("tombstone", "success"))
	RecordModeration("tombstone", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(ModerationActions.WithLabelValues("tombstone", "success")))
}

func TestServer_ServesMetrics(t *testing.T) {
	RecordAPICall("discovery.conversations.recent", nil)

	rec := httptest.NewRecorder()
	NewServer(":0").Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "slackwatch_api_requests_total"))
}
