package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Sentinel failure kinds shared by every provider. Callers match them with
// errors.Is; the wrapped error keeps the provider detail.
var (
	// ErrAuth means the API key was rejected (401/403).
	ErrAuth = errors.New("llm: authentication failed")

	// ErrRateLimited means the provider throttled the request (429).
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrUnsupportedModel means the requested model does not exist or is
	// not available to this key.
	ErrUnsupportedModel = errors.New("llm: unsupported model")

	// ErrTransient covers timeouts, connection resets and 5xx responses.
	// A later identical request may succeed.
	ErrTransient = errors.New("llm: transient network failure")
)

// ClassifyStatus maps an HTTP status from a provider API to the shared
// taxonomy. Returns nil for statuses that carry no known kind.
func ClassifyStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrAuth
	case status == 429:
		return ErrRateLimited
	case status == 404:
		return ErrUnsupportedModel
	case status == 408 || status >= 500:
		return ErrTransient
	default:
		return nil
	}
}

// Classify wraps err with the matching sentinel so callers can use
// errors.Is. Errors that already carry a sentinel pass through unchanged.
// Provider SDKs that do not expose typed errors (langchaingo embeds the
// HTTP status in the message) are classified from the error text.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnsupportedModel) || errors.Is(err, ErrTransient) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTransient, provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTransient, provider, err)
	}

	if kind := classifyText(err.Error()); kind != nil {
		return fmt.Errorf("%w: %s: %v", kind, provider, err)
	}
	return fmt.Errorf("llm: %s: %w", provider, err)
}

func classifyText(msg string) error {
	if status, ok := statusFromText(msg); ok {
		if kind := ClassifyStatus(status); kind != nil {
			return kind
		}
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "authentication"):
		return ErrAuth
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests") || strings.Contains(lower, "quota"):
		return ErrRateLimited
	case strings.Contains(lower, "model") && (strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist") || strings.Contains(lower, "unsupported")):
		return ErrUnsupportedModel
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") || strings.Contains(lower, "timeout") || strings.Contains(lower, "temporarily unavailable"):
		return ErrTransient
	default:
		return nil
	}
}

// statusFromText pulls a status code out of messages like
// "API returned unexpected status code: 429 ...".
func statusFromText(msg string) (int, bool) {
	for _, marker := range []string{"status code: ", "status code ", "status: ", "status "} {
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		rest := msg[idx+len(marker):]
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end != 3 {
			continue
		}
		status, err := strconv.Atoi(rest[:end])
		if err == nil {
			return status, true
		}
	}
	return 0, false
}
