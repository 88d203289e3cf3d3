package target

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Predefined errors for the target package.
var (
	// ErrUnknownMethod indicates that a class does not define or inherit the requested method.
	ErrUnknownMethod = errors.New("unknown method")
)

// UnknownMethodError reports a call to a method a class neither defines nor inherits.
type UnknownMethodError struct {
	Method string
	Class  string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("class %q has no method %q", e.Class, e.Method)
}

// Is allows errors.Is(err, ErrUnknownMethod) checks.
func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// Method is a callable bound to a class slot. The receiver is the host-system
// object the call is made on; it is opaque to this package.
type Method func(recv any, args ...any) (any, error)

// Slot is the state of a single method slot on a class. Pristine is nil until
// the slot is intercepted for the first time; once set it is never a wrapper.
type Slot struct {
	Method   Method
	Pristine Method
}

// Intercepted reports whether the slot currently carries a wrapper.
func (s Slot) Intercepted() bool {
	return s.Pristine != nil
}

// Class is an explicit side table standing in for an opaque host-system class:
// a named set of method slots, optionally chained to a base class. Slot reads
// walk the base chain; slot writes always land on the receiving class, so a
// derived class shadows its base without mutating it.
//
// Individual slot operations are safe for concurrent use. Compound sequences
// (read-modify-write across slots) must be serialized by the caller; the graft
// engine serializes them per class.
type Class struct {
	name string
	base *Class

	mu    sync.RWMutex
	slots map[string]Slot
}

// ClassOption configures a class during construction.
type ClassOption func(*Class)

// WithBase chains the class to a base class. Method lookups fall through to
// the base when the class itself has no slot for a name.
func WithBase(base *Class) ClassOption {
	return func(c *Class) {
		c.base = base
	}
}

// WithMethods defines an initial set of method slots.
func WithMethods(methods map[string]Method) ClassOption {
	return func(c *Class) {
		for name, m := range methods {
			c.slots[name] = Slot{Method: m}
		}
	}
}

// NewClass creates a class with the given name.
func NewClass(name string, opts ...ClassOption) *Class {
	c := &Class{
		name:  name,
		slots: make(map[string]Slot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the class name used in error messages.
func (c *Class) Name() string {
	return c.name
}

// Base returns the base class, or nil.
func (c *Class) Base() *Class {
	return c.base
}

// Define sets a plain (never intercepted) implementation for a method slot,
// replacing whatever the slot held, including any wrapper and its pristine
// baseline.
func (c *Class) Define(name string, m Method) {
	c.SetSlot(name, Slot{Method: m})
}

// Slot returns the slot bound to name, walking the base chain. The second
// result reports whether any class in the chain defines the slot.
func (c *Class) Slot(name string) (Slot, bool) {
	for cur := c; cur != nil; cur = cur.base {
		cur.mu.RLock()
		s, ok := cur.slots[name]
		cur.mu.RUnlock()
		if ok {
			return s, true
		}
	}
	return Slot{}, false
}

// SetSlot writes a slot on this class, shadowing any inherited slot of the
// same name.
func (c *Class) SetSlot(name string, s Slot) {
	c.mu.Lock()
	c.slots[name] = s
	c.mu.Unlock()
}

// MethodNames returns the names of all slots visible on the class, own and
// inherited, deduplicated and sorted.
func (c *Class) MethodNames() []string {
	seen := make(map[string]struct{})
	for cur := c; cur != nil; cur = cur.base {
		cur.mu.RLock()
		for name := range cur.slots {
			seen[name] = struct{}{}
		}
		cur.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the current implementation of a method with the given receiver.
// It dispatches through whatever the slot holds right now, wrapper included.
func (c *Class) Call(recv any, name string, args ...any) (any, error) {
	s, ok := c.Slot(name)
	if !ok {
		return nil, &UnknownMethodError{Method: name, Class: c.name}
	}
	return s.Method(recv, args...)
}

// Object is implemented by host-system objects that know their class. It is
// the bound-access entry point: the engine resolves the object's class and
// returns a per-call binding, never caching the object anywhere shared.
type Object interface {
	TargetClass() *Class
}
