// Package intercept wraps and restores method slots on target classes. Every
// wrap is applied over the slot's pristine implementation, recorded the first
// time the slot is touched, so restoration is exact no matter how many times
// the slot was rewrapped.
package intercept

import (
	"errors"
	"fmt"

	"github.com/graftkit/graft/pkg/target"
)

// Sentinel errors for interception failures.
var (
	// ErrTargetMissing is returned when the class has no slot for the method
	// to intercept.
	ErrTargetMissing = errors.New("interception target missing")

	// ErrNotIntercepted is returned when restoring a slot that was never
	// intercepted.
	ErrNotIntercepted = errors.New("method not intercepted")

	// ErrNilWrapper is returned when a wrapper factory produces nil.
	ErrNilWrapper = errors.New("wrapper factory returned nil")
)

// TargetMissingError reports an interception attempt on a method the class
// neither defines nor inherits.
type TargetMissingError struct {
	Method string
	Class  string
}

func (e *TargetMissingError) Error() string {
	return fmt.Sprintf("cannot intercept %q: class %q has no such method", e.Method, e.Class)
}

// Is allows errors.Is(err, ErrTargetMissing) checks.
func (e *TargetMissingError) Is(target error) bool {
	return target == ErrTargetMissing
}

// NotInterceptedError reports a restore of a slot that carries no pristine
// baseline.
type NotInterceptedError struct {
	Method string
	Class  string
}

func (e *NotInterceptedError) Error() string {
	return fmt.Sprintf("cannot restore %q on class %q: method was never intercepted", e.Method, e.Class)
}

// Is allows errors.Is(err, ErrNotIntercepted) checks.
func (e *NotInterceptedError) Is(target error) bool {
	return target == ErrNotIntercepted
}

// Wrap replaces a method slot with factory(original) and records the pristine
// implementation if this is the slot's first interception. When the slot is
// already intercepted (including a slot inherited from a base class), the
// factory receives the pristine implementation, not the current wrapper: a
// second feature wrapping the same slot replaces the first feature's wrapper
// rather than composing with it. The write always lands on c itself, so
// wrapping an inherited slot shadows the base class without mutating it.
func Wrap(c *target.Class, method string, factory func(original target.Method) target.Method) error {
	s, ok := c.Slot(method)
	if !ok {
		return &TargetMissingError{Method: method, Class: c.Name()}
	}

	pristine := s.Pristine
	if pristine == nil {
		pristine = s.Method
	}

	wrapped := factory(pristine)
	if wrapped == nil {
		return fmt.Errorf("%w: method %q on class %q", ErrNilWrapper, method, c.Name())
	}
	c.SetSlot(method, target.Slot{Method: wrapped, Pristine: pristine})
	return nil
}

// Restore sets a slot back to its pristine implementation and clears the
// intercepted marking. Restoring a slot that was never intercepted fails with
// ErrNotIntercepted.
func Restore(c *target.Class, method string) error {
	s, ok := c.Slot(method)
	if !ok || !s.Intercepted() {
		return &NotInterceptedError{Method: method, Class: c.Name()}
	}
	c.SetSlot(method, target.Slot{Method: s.Pristine})
	return nil
}

// Intercepted returns the sorted names of every method slot visible on the
// class, own or inherited, that currently carries a wrapper.
func Intercepted(c *target.Class) []string {
	var names []string
	for _, name := range c.MethodNames() {
		if s, ok := c.Slot(name); ok && s.Intercepted() {
			names = append(names, name)
		}
	}
	return names
}
