package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/children", "200"))
	RecordAPIRequest("GET", "/api/children", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/children", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordEmotionUpdate(t *testing.T) {
	before := testutil.ToFloat64(EmotionUpdates.WithLabelValues("ml_model", "false"))
	RecordEmotionUpdate("ml_model", false)
	RecordEmotionUpdate("ml_model", true)
	assert.Equal(t, before+1, testutil.ToFloat64(EmotionUpdates.WithLabelValues("ml_model", "false")))
}

func TestRecordClassifierCall(t *testing.T) {
	before := testutil.ToFloat64(ClassifierRequests.WithLabelValues("predict", "retry"))
	RecordClassifierCall("predict", "retry")
	assert.Equal(t, before+1, testutil.ToFloat64(ClassifierRequests.WithLabelValues("predict", "retry")))
}
