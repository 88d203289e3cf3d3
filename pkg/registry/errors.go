package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry failures. Detailed errors below bridge to
// these via Is, so callers can use errors.Is for classification and errors.As
// for the specifics.
var (
	// ErrUnknownHostSystem is returned when no descriptors or loader exist for
	// a host system.
	ErrUnknownHostSystem = errors.New("unknown host system")

	// ErrUnknownFeature is returned when a host system has no feature with the
	// requested name.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrDuplicateFeature is returned when a feature name is registered twice
	// for the same host system.
	ErrDuplicateFeature = errors.New("duplicate feature")

	// ErrDuplicateLoader is returned when a loader is registered twice for the
	// same host system.
	ErrDuplicateLoader = errors.New("duplicate host system loader")
)

// UnknownHostSystemError reports a lookup against a host system the registry
// has never seen, along with the host systems it does know.
type UnknownHostSystemError struct {
	Requested string
	Known     []string
}

func (e *UnknownHostSystemError) Error() string {
	return fmt.Sprintf("unknown host system %q, known host systems: %s",
		e.Requested, strings.Join(e.Known, ", "))
}

// Is allows errors.Is(err, ErrUnknownHostSystem) checks.
func (e *UnknownHostSystemError) Is(target error) bool {
	return target == ErrUnknownHostSystem
}

// UnknownFeatureError reports a lookup of a feature name absent from a host
// system's partition, along with the names that are available.
type UnknownFeatureError struct {
	Requested  string
	HostSystem string
	Available  []string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q for host system %q, available: %s",
		e.Requested, e.HostSystem, strings.Join(e.Available, ", "))
}

// Is allows errors.Is(err, ErrUnknownFeature) checks.
func (e *UnknownFeatureError) Is(target error) bool {
	return target == ErrUnknownFeature
}

// DuplicateFeatureError reports a second registration of a feature name under
// the same host system.
type DuplicateFeatureError struct {
	Name       string
	HostSystem string
}

func (e *DuplicateFeatureError) Error() string {
	return fmt.Sprintf("feature %q already registered for host system %q", e.Name, e.HostSystem)
}

// Is allows errors.Is(err, ErrDuplicateFeature) checks.
func (e *DuplicateFeatureError) Is(target error) bool {
	return target == ErrDuplicateFeature
}
