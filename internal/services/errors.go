// Package services holds the error taxonomy shared by the external service
// clients and the orchestrator.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRateLimited marks a remote-store throttle response. The orchestrator
	// handles it via the deferral/cooldown protocol; it is never fatal.
	ErrRateLimited = errors.New("rate limited")
	// ErrTransient marks a per-item failure that should not abort the run.
	ErrTransient = errors.New("transient failure")
	// ErrNotFound marks a missing remote resource.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks unusable configuration or credentials.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnavailable marks a collaborator that cannot be reached at all;
	// fatal for the run.
	ErrUnavailable = errors.New("service unavailable")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRateLimited reports whether err carries the rate-limit sentinel.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
