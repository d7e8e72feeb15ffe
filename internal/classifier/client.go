// Package classifier talks to the external image emotion classifier.
//
// Predictions are sent as a multipart upload to {base}/predict. Each base
// URL gets a bounded number of attempts; transient failures are retried
// with a linear backoff before moving on to the fallback URL. A circuit
// breaker stops hammering a classifier that keeps failing.
package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"calmpath/internal/logging"
	"calmpath/internal/metrics"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	predictPath = "/predict"
	healthPath  = "/health"
	breakerName = "emotion-classifier"

	defaultFilename = "upload.jpg"
	maxErrorBody    = 4096
)

// Prediction is the classifier's reply
type Prediction struct {
	Emotion        string             `json:"emotion"`
	Confidence     float64            `json:"confidence"`
	AllPredictions map[string]float64 `json:"allPredictions"`
}

// HealthStatus is the outcome of a health probe
type HealthStatus struct {
	Healthy bool                   `json:"healthy"`
	URL     string                 `json:"url,omitempty"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

// Config configures a Client
type Config struct {
	BaseURL        string
	FallbackURL    string
	PredictTimeout time.Duration
	HealthTimeout  time.Duration
	Attempts       int           // per base URL
	Backoff        time.Duration // multiplied by the attempt number
	HTTPClient     *http.Client
}

// Client calls the classifier service
type Client struct {
	urls           []string
	predictTimeout time.Duration
	healthTimeout  time.Duration
	attempts       int
	backoff        time.Duration
	http           *http.Client
	cb             *gobreaker.CircuitBreaker[*Prediction]
	sleep          func(ctx context.Context, d time.Duration) error
}

// New creates a classifier client. Missing values fall back to a 45s
// predict timeout, 5s health timeout, 2 attempts and 500ms backoff.
func New(cfg Config) *Client {
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 45 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 2
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	c := &Client{
		urls:           baseURLs(cfg.BaseURL, cfg.FallbackURL),
		predictTimeout: cfg.PredictTimeout,
		healthTimeout:  cfg.HealthTimeout,
		attempts:       cfg.Attempts,
		backoff:        cfg.Backoff,
		http:           cfg.HTTPClient,
		sleep:          sleepContext,
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[*Prediction](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 4xx means the classifier is up and rejected this image
		IsSuccessful: func(err error) bool {
			var ue *UpstreamError
			if errors.As(err, &ue) {
				return ue.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return c
}

func baseURLs(primary, fallback string) []string {
	var urls []string
	for _, u := range []string{primary, fallback} {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" {
			continue
		}
		dup := false
		for _, existing := range urls {
			if existing == u {
				dup = true
			}
		}
		if !dup {
			urls = append(urls, u)
		}
	}
	return urls
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// URLs returns the base URLs in the order they are tried
func (c *Client) URLs() []string {
	return append([]string(nil), c.urls...)
}

// Predict uploads image and returns the classifier's prediction. After all
// endpoints fail the error is an *UpstreamError.
func (c *Client) Predict(ctx context.Context, image []byte, filename string) (*Prediction, error) {
	if filename == "" {
		filename = defaultFilename
	}
	if len(c.urls) == 0 {
		return nil, &UpstreamError{Status: http.StatusServiceUnavailable, Message: "no classifier URL configured", Endpoint: predictPath, Hint: DefaultHint}
	}

	start := time.Now()
	defer func() { metrics.ClassifierDuration.Observe(time.Since(start).Seconds()) }()

	pred, err := c.cb.Execute(func() (*Prediction, error) {
		return c.predict(ctx, image, filename)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordClassifierCall("predict", "rejected")
			return nil, &UpstreamError{
				Status:   http.StatusServiceUnavailable,
				Message:  "classifier temporarily disabled after repeated failures",
				Tried:    c.URLs(),
				Endpoint: predictPath,
				Hint:     DefaultHint,
			}
		}
		metrics.RecordClassifierCall("predict", "failure")
		return nil, err
	}
	metrics.RecordClassifierCall("predict", "success")
	return pred, nil
}

func (c *Client) predict(ctx context.Context, image []byte, filename string) (*Prediction, error) {
	body, contentType, err := multipartBody(image, filename)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, base := range c.urls {
		for attempt := 1; attempt <= c.attempts; attempt++ {
			pred, err := c.postOnce(ctx, base+predictPath, body, contentType)
			if err == nil {
				return pred, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, toUpstream(ctx.Err(), c.URLs(), predictPath)
			}
			if !isTransient(err) || attempt == c.attempts {
				break
			}

			metrics.RecordClassifierCall("predict", "retry")
			logging.Warn().Err(err).Str("url", base).Int("attempt", attempt).Msg("classifier request failed, retrying")
			if err := c.sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
				return nil, toUpstream(err, c.URLs(), predictPath)
			}
		}
	}
	return nil, toUpstream(lastErr, c.URLs(), predictPath)
}

func multipartBody(image []byte, filename string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *Client) postOnce(ctx context.Context, url string, body []byte, contentType string) (*Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readStatusError(resp)
	}

	var reply predictionReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	pred := &Prediction{
		Emotion:        reply.Emotion,
		Confidence:     reply.Confidence,
		AllPredictions: reply.AllPredictions,
	}
	if pred.AllPredictions == nil {
		pred.AllPredictions = reply.AllPredictionsSnake
	}
	return pred, nil
}

// predictionReply accepts both key styles the classifier has used
type predictionReply struct {
	Emotion             string             `json:"emotion"`
	Confidence          float64            `json:"confidence"`
	AllPredictions      map[string]float64 `json:"allPredictions"`
	AllPredictionsSnake map[string]float64 `json:"all_predictions"`
}

// readStatusError prefers the {"error": "..."} body the classifier sends
func readStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &statusError{status: resp.StatusCode, message: msg}
}

// Health probes {base}/health on each URL until one answers. A reply with
// a "healthy" field uses it; any other JSON object counts as healthy.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var lastErr error
	for _, base := range c.urls {
		detail, err := c.getHealth(ctx, base+healthPath)
		if err != nil {
			lastErr = err
			continue
		}
		metrics.RecordClassifierCall("health", "success")

		status := &HealthStatus{Healthy: true, URL: base, Detail: detail}
		if v, ok := detail["healthy"]; ok {
			healthy, _ := v.(bool)
			status.Healthy = healthy
		}
		return status, nil
	}
	metrics.RecordClassifierCall("health", "failure")
	return &HealthStatus{Healthy: false}, toUpstream(lastErr, c.URLs(), healthPath)
}

func (c *Client) getHealth(ctx context.Context, url string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readStatusError(resp)
	}

	var detail map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("health reply is not a JSON object: %w", err)
	}
	if detail == nil {
		return nil, errors.New("empty health reply")
	}
	return detail, nil
}
