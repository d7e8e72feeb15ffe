package classifier

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient records backoff sleeps instead of sleeping
func newTestClient(t *testing.T, cfg Config) (*Client, *[]time.Duration) {
	t.Helper()
	c := New(cfg)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func predictHandler(t *testing.T, hits *int32, reply func(n int32, w http.ResponseWriter)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(hits, 1)
		if r.URL.Path != "/predict" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		reply(n, w)
	}
}

func writePrediction(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Prediction{
		Emotion:        "joy",
		Confidence:     0.9,
		AllPredictions: map[string]float64{"joy": 0.9, "fear": 0.05, "anger": 0.05},
	})
}

func TestPredictSendsMultipartUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "face.png", header.Filename)
		assert.Equal(t, []byte("fake-image"), data)

		writePrediction(w)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, Config{BaseURL: srv.URL})
	pred, err := c.Predict(context.Background(), []byte("fake-image"), "face.png")

	require.NoError(t, err)
	assert.Equal(t, "joy", pred.Emotion)
	assert.Equal(t, 0.9, pred.Confidence)
	assert.Len(t, pred.AllPredictions, 3)
	assert.Empty(t, *slept)
}

func TestPredictAcceptsSnakeCaseProbabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"emotion":"sadness","confidence":0.61,"all_predictions":{"sadness":0.61,"Natural":0.39}}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{BaseURL: srv.URL})
	pred, err := c.Predict(context.Background(), []byte("img"), "")

	require.NoError(t, err)
	assert.Equal(t, "sadness", pred.Emotion)
	assert.Equal(t, map[string]float64{"sadness": 0.61, "Natural": 0.39}, pred.AllPredictions)
}

func TestPredictDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "upload.jpg", header.Filename)
		writePrediction(w)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{BaseURL: srv.URL})
	_, err := c.Predict(context.Background(), []byte("x"), "")
	require.NoError(t, err)
}

func TestPredictRetriesTransientStatus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(predictHandler(t, &hits, func(n int32, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePrediction(w)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, Config{BaseURL: srv.URL, Backoff: 500 * time.Millisecond})
	pred, err := c.Predict(context.Background(), []byte("img"), "")

	require.NoError(t, err)
	assert.Equal(t, "joy", pred.Emotion)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, *slept)
}

func TestPredictDoesNotRetryClientErrors(t *testing.T) {
	var primaryHits, fallbackHits int32
	reject := func(n int32, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid image file"}`))
	}
	primary := httptest.NewServer(predictHandler(t, &primaryHits, reject))
	defer primary.Close()
	fallback := httptest.NewServer(predictHandler(t, &fallbackHits, reject))
	defer fallback.Close()

	c, slept := newTestClient(t, Config{BaseURL: primary.URL, FallbackURL: fallback.URL})
	_, err := c.Predict(context.Background(), []byte("img"), "")

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.Equal(t, "Invalid image file", ue.Message)
	assert.Equal(t, "ML service error (400): Invalid image file", ue.Error())
	assert.Equal(t, int32(1), primaryHits)
	assert.Equal(t, int32(1), fallbackHits)
	assert.Empty(t, *slept)
}

func TestPredictFallsBackWhenPrimaryIsDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	var hits int32
	fallback := httptest.NewServer(predictHandler(t, &hits, func(n int32, w http.ResponseWriter) { writePrediction(w) }))
	defer fallback.Close()

	c, _ := newTestClient(t, Config{BaseURL: downURL, FallbackURL: fallback.URL})
	pred, err := c.Predict(context.Background(), []byte("img"), "")

	require.NoError(t, err)
	assert.Equal(t, "joy", pred.Emotion)
	assert.Equal(t, int32(1), hits)
}

func TestPredictExhaustsEveryEndpoint(t *testing.T) {
	var hits int32
	unavailable := func(n int32, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "model not loaded"}`))
	}
	primary := httptest.NewServer(predictHandler(t, &hits, unavailable))
	defer primary.Close()
	fallback := httptest.NewServer(predictHandler(t, &hits, unavailable))
	defer fallback.Close()

	c, slept := newTestClient(t, Config{BaseURL: primary.URL, FallbackURL: fallback.URL, Attempts: 2, Backoff: 500 * time.Millisecond})
	_, err := c.Predict(context.Background(), []byte("img"), "")

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Equal(t, []string{primary.URL, fallback.URL}, ue.Tried)
	assert.Equal(t, "/predict", ue.Endpoint)
	assert.Equal(t, DefaultHint, ue.Hint)
	assert.Equal(t, "ML service error (503): model not loaded", ue.Error())
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits), "two attempts per endpoint")
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, *slept)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(predictHandler(t, &hits, func(n int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{BaseURL: srv.URL, Attempts: 1})
	for i := 0; i < 5; i++ {
		_, err := c.Predict(context.Background(), []byte("img"), "")
		require.Error(t, err)
	}

	_, err := c.Predict(context.Background(), []byte("img"), "")
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Contains(t, ue.Message, "temporarily disabled")
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits), "open breaker short-circuits the call")
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{BaseURL: srv.URL, Attempts: 1})
	for i := 0; i < 8; i++ {
		_, err := c.Predict(context.Background(), []byte("img"), "")
		var ue *UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, http.StatusUnprocessableEntity, ue.Status)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		healthy bool
	}{
		{name: "explicit healthy", body: `{"healthy": true, "model_loaded": true}`, healthy: true},
		{name: "explicit unhealthy", body: `{"healthy": false}`, healthy: false},
		{name: "any json object", body: `{"status": "ok"}`, healthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := newTestClient(t, Config{BaseURL: srv.URL})
			status, err := c.Health(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.healthy, status.Healthy)
			assert.Equal(t, srv.URL, status.URL)
		})
	}
}

func TestHealthAllEndpointsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{BaseURL: srv.URL, FallbackURL: srv.URL + "/"})
	status, err := c.Health(context.Background())

	require.NotNil(t, status)
	assert.False(t, status.Healthy)
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "/health", ue.Endpoint)
	assert.Equal(t, []string{srv.URL}, ue.Tried, "duplicate fallback is dropped")
	assert.Equal(t, "ML health check failed (502): Bad Gateway", ue.Error())
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "500", err: &statusError{status: 500}, want: true},
		{name: "502", err: &statusError{status: 502}, want: true},
		{name: "503", err: &statusError{status: 503}, want: true},
		{name: "504", err: &statusError{status: 504}, want: true},
		{name: "501", err: &statusError{status: 501}, want: false},
		{name: "400", err: &statusError{status: 400}, want: false},
		{name: "connection reset", err: &net.OpError{Op: "read", Err: syscall.ECONNRESET}, want: true},
		{name: "connection aborted", err: &net.OpError{Op: "read", Err: syscall.ECONNABORTED}, want: true},
		{name: "connection refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "net timeout", err: timeoutErr{}, want: true},
		{name: "dns temporary", err: &net.DNSError{Err: "try again", IsTemporary: true}, want: true},
		{name: "dns not found", err: &net.DNSError{Err: "no such host", IsNotFound: true}, want: false},
		{name: "decode failure", err: errors.New("failed to decode prediction"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestBaseURLs(t *testing.T) {
	assert.Equal(t, []string{"http://a:5000", "http://b:5000"}, baseURLs("http://a:5000/", " http://b:5000"))
	assert.Equal(t, []string{"http://a:5000"}, baseURLs("http://a:5000", "http://a:5000/"))
	assert.Empty(t, baseURLs("", ""))
}
