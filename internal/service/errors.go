package service

import (
	"errors"
	"strings"
)

var (
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	// ErrAuditUnavailable means the audit sink did not accept the entry.
	// An unaudited grant is never acceptable, so this error always rides
	// alongside a denied decision.
	ErrAuditUnavailable = errors.New("audit sink unavailable")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
