package feature

import (
	"errors"
	"fmt"

	"github.com/graftkit/graft/pkg/target"
)

// Predefined errors for the feature package.
var (
	// ErrInvalidDescriptor indicates that a descriptor fails validation.
	ErrInvalidDescriptor = errors.New("invalid feature descriptor")
)

// WrapperFactory produces the wrapper for one intercepted method. It receives
// the method name and the pristine implementation and returns the replacement
// installed on the class.
type WrapperFactory func(method string, original target.Method) target.Method

// SetupHook runs once per class when the feature is installed, after its
// method interceptions are applied. Returning an error aborts the install of
// this feature; interceptions already applied for it are not rolled back.
type SetupHook func(c *target.Class) error

// Descriptor declares a feature: the methods it intercepts, the features it
// depends on, and how to wrap each intercepted method. Descriptors are
// registered by host-system adapters and never mutated afterwards.
type Descriptor struct {
	// Name identifies the feature within its host system.
	Name string

	// Intercepts lists the method names the feature wraps, in the order the
	// interceptions are applied.
	Intercepts []string

	// Dependencies lists feature names installed after this feature, in
	// declared order, whenever this feature is installed.
	Dependencies []string

	// Wrap produces the wrapper for each intercepted method. Required when
	// Intercepts is non-empty.
	Wrap WrapperFactory

	// Setup, if set, runs once per class at install time.
	Setup SetupHook
}

// Validate checks that the descriptor is usable for registration.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.Join(ErrInvalidDescriptor, errors.New("feature name cannot be empty"))
	}
	if len(d.Intercepts) > 0 && d.Wrap == nil {
		return errors.Join(ErrInvalidDescriptor,
			fmt.Errorf("feature %q intercepts methods but has no wrapper factory", d.Name))
	}
	return nil
}
