package llmclient

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/openai/openai-go"
)

// RecoveryAction mirrors the MCP client's error-classification shape,
// generalized from MCP session failures to LLM API calls: the question is
// always "is this worth one more attempt", and the answer sorts into two
// buckets.
type RecoveryAction int

const (
	// NoRetry — the error is not recoverable (bad request, auth failure).
	NoRetry RecoveryAction = iota
	// RetryTransient — rate limit or server error, retry with backoff.
	RetryTransient
)

// ClassifyError determines whether an OpenAI API or transport error is
// worth retrying.
func ClassifyError(err error) RecoveryAction {
	if err == nil {
		return NoRetry
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NoRetry
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NoRetry
		}
		return RetryTransient
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return RetryTransient
		case apiErr.StatusCode >= 500:
			return RetryTransient
		default:
			return NoRetry
		}
	}

	if isConnectionError(err) {
		return RetryTransient
	}

	return NoRetry
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, e := range []string{"connection refused", "connection reset", "broken pipe", "eof", "no such host"} {
		if strings.Contains(msg, e) {
			return true
		}
	}
	return false
}
