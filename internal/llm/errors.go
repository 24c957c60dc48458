package llm

import (
	"errors"
	"strings"
)

var (
	// ErrQuotaExceeded marks a credential as exhausted for the moment.
	ErrQuotaExceeded = errors.New("llm: quota exceeded")
	// ErrOverloaded marks a transient upstream failure worth retrying.
	ErrOverloaded = errors.New("llm: model overloaded")
	// ErrSafetyBlocked means the model refused to answer the prompt.
	ErrSafetyBlocked = errors.New("llm: response blocked by safety filter")
	// ErrEmptyResponse means the model returned no usable text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

var quotaMarkers = []string{"429", "quota", "rate limit", "resource_exhausted"}

var transientMarkers = []string{"503", "overloaded", "unavailable"}

// IsQuota reports whether err indicates the current credential ran out of
// quota. SDK errors do not expose a stable type for this, so the message is
// scanned for known markers alongside the local sentinel.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	return containsAny(err.Error(), quotaMarkers)
}

// IsTransient reports whether err is worth retrying on the same credential.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOverloaded) {
		return true
	}
	return containsAny(err.Error(), transientMarkers)
}

func containsAny(msg string, markers []string) bool {
	lower := strings.ToLower(msg)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
