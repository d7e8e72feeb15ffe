package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// DefaultHint tells operators how to recover from an unreachable classifier
const DefaultHint = "start the emotion classifier service (ml_service) on ML_SERVICE_URL and retry"

// UpstreamError is returned once every endpoint and retry has failed
type UpstreamError struct {
	Status   int      `json:"status"`
	Message  string   `json:"message"`
	Tried    []string `json:"tried"`
	Endpoint string   `json:"endpoint"`
	Hint     string   `json:"hint"`
}

func (e *UpstreamError) Error() string {
	if e.Endpoint == healthPath {
		return fmt.Sprintf("ML health check failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ML service error (%d): %s", e.Status, e.Message)
}

// statusError is a non-2xx reply from the classifier
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.message)
}

// isTransient reports whether a failed attempt is worth retrying on the
// same endpoint: connection resets and aborts, timeouts, temporary DNS
// failures and 500/502/503/504 replies.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// some platforms only expose resets through the message
	return strings.Contains(err.Error(), "connection reset")
}

// toUpstream converts the last attempt's error into the reported error
func toUpstream(err error, tried []string, endpoint string) *UpstreamError {
	ue := &UpstreamError{
		Status:   http.StatusServiceUnavailable,
		Tried:    tried,
		Endpoint: endpoint,
		Hint:     DefaultHint,
	}
	var se *statusError
	if errors.As(err, &se) {
		ue.Status = se.status
		ue.Message = se.message
	} else if err != nil {
		ue.Message = err.Error()
	} else {
		ue.Message = "Unknown error contacting ML service"
	}
	return ue
}
