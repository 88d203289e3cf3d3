package graft

import (
	"github.com/graftkit/graft/pkg/feature"
	"github.com/graftkit/graft/pkg/registry"
	"github.com/graftkit/graft/pkg/target"
)

// The default engine and its registry back the package-level functions.
// Host-system adapters that register at load time (typically from init
// functions) use DefaultRegistry.
var (
	defaultRegistry = registry.New()
	defaultEngine   = New(defaultRegistry)
)

// DefaultRegistry returns the registry behind the package-level functions.
func DefaultRegistry() *registry.Registry {
	return defaultRegistry
}

// DefaultEngine returns the engine behind the package-level functions.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Install installs a feature on a class using the default engine.
func Install(c *target.Class, featureName, hostSystem string, opts feature.Options) error {
	return defaultEngine.Install(c, featureName, hostSystem, opts)
}

// Uninstall removes a feature from a class using the default engine.
func Uninstall(c *target.Class, featureName string) error {
	return defaultEngine.Uninstall(c, featureName)
}

// Get returns an installed feature instance from the default engine.
func Get(c *target.Class, featureName string) (*Instance, error) {
	return defaultEngine.Get(c, featureName)
}

// GetFor returns a feature instance bound to a host-system object, from the
// default engine.
func GetFor(obj target.Object, featureName string) (*Bound, error) {
	return defaultEngine.GetFor(obj, featureName)
}
