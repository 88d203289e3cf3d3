package graft

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for engine failures. Registry and interception failures
// surface from their own packages (see pkg/registry and pkg/intercept) and
// remain matchable through the wrapping the engine adds.
var (
	// ErrAutoDecorate is returned when a feature must intercept a method the
	// target class does not have.
	ErrAutoDecorate = errors.New("cannot auto decorate method")

	// ErrFeatureNotInstalled is returned by namespace lookups of features that
	// are not installed on the class.
	ErrFeatureNotInstalled = errors.New("feature not installed")

	// ErrUninstall is returned when uninstalling a feature that is not
	// installed on the class.
	ErrUninstall = errors.New("feature uninstall failed")
)

// AutoDecorateError reports an install aborted because the target class lacks
// a method the feature declares for interception. Interceptions applied for
// methods earlier in the feature's list are not rolled back.
type AutoDecorateError struct {
	Feature string
	Method  string
	Class   string
	err     error
}

func (e *AutoDecorateError) Error() string {
	return fmt.Sprintf("feature %q cannot auto decorate method %q on class %q",
		e.Feature, e.Method, e.Class)
}

// Is allows errors.Is(err, ErrAutoDecorate) checks.
func (e *AutoDecorateError) Is(target error) bool {
	return target == ErrAutoDecorate
}

// Unwrap exposes the underlying interception error.
func (e *AutoDecorateError) Unwrap() error {
	return e.err
}

// NotInstalledError reports a namespace lookup of a feature that is not
// installed on the class.
type NotInstalledError struct {
	Feature string
	Class   string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("feature %q is not installed on class %q", e.Feature, e.Class)
}

// Is allows errors.Is(err, ErrFeatureNotInstalled) checks.
func (e *NotInstalledError) Is(target error) bool {
	return target == ErrFeatureNotInstalled
}

// UninstallError reports an uninstall of a feature that is not installed,
// listing the features that are.
type UninstallError struct {
	Feature   string
	Class     string
	Installed []string
}

func (e *UninstallError) Error() string {
	return fmt.Sprintf("cannot uninstall feature %q from class %q, installed features: %s",
		e.Feature, e.Class, strings.Join(e.Installed, ", "))
}

// Is allows errors.Is(err, ErrUninstall) checks.
func (e *UninstallError) Is(target error) bool {
	return target == ErrUninstall
}
