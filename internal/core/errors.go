package core

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when a message is rejected at ingress,
	// before the state machine starts.
	ErrInvalidInput = errors.New("invalid input: sender and message body are required")

	// ErrUpstreamUnavailable wraps generator/scorer call failures. It is
	// recovered locally as one consumed iteration.
	ErrUpstreamUnavailable = errors.New("upstream capability unavailable")

	// ErrMalformedEvaluation is returned when a scorer result is missing a
	// criterion or carries an out-of-range score.
	ErrMalformedEvaluation = errors.New("malformed evaluation")

	// ErrUnknownScenario is returned by the scenario runner for an
	// unrecognised scenario id.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrPendingNotFound is returned when a pending escalation id does not exist.
	ErrPendingNotFound = errors.New("pending escalation not found")
)
