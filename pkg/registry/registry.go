package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/graftkit/graft/pkg/feature"
	"github.com/graftkit/graft/pkg/target"
)

// Loader produces a host system's feature descriptors on demand. It is
// invoked at most once per host system (effectively), the first time an
// unseen host system is looked up.
type Loader func() ([]feature.Descriptor, error)

// Preparer neutralizes host-system restrictions on a class before features
// attach to it. The engine invokes it once per (host system, class).
type Preparer func(c *target.Class) error

// Registry is the process-wide table of feature descriptors, partitioned by
// host system. Host-system adapters either register descriptors eagerly at
// load time or provide a Loader invoked on first lookup. Safe for concurrent
// use; concurrent first lookups of the same host system converge on a single
// loader invocation.
type Registry struct {
	log *slog.Logger

	mu        sync.RWMutex
	hosts     map[string]map[string]feature.Descriptor
	loaders   map[string]Loader
	preparers map[string]Preparer

	group singleflight.Group
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithLogger sets the logger used for load events. Defaults to a discarding
// logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:       slog.New(slog.DiscardHandler),
		hosts:     make(map[string]map[string]feature.Descriptor),
		loaders:   make(map[string]Loader),
		preparers: make(map[string]Preparer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a descriptor under a host system, creating the partition on
// first use. Registering a name twice for the same host system fails with
// ErrDuplicateFeature.
func (r *Registry) Register(hostSystem string, desc feature.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(hostSystem, desc)
}

func (r *Registry) registerLocked(hostSystem string, desc feature.Descriptor) error {
	part, ok := r.hosts[hostSystem]
	if !ok {
		part = make(map[string]feature.Descriptor)
		r.hosts[hostSystem] = part
	}
	if _, exists := part[desc.Name]; exists {
		return &DuplicateFeatureError{Name: desc.Name, HostSystem: hostSystem}
	}
	part[desc.Name] = desc
	return nil
}

// RegisterLoader installs a loader invoked the first time hostSystem is
// looked up. A second loader for the same host system fails with
// ErrDuplicateLoader.
func (r *Registry) RegisterLoader(hostSystem string, l Loader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[hostSystem]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLoader, hostSystem)
	}
	r.loaders[hostSystem] = l
	return nil
}

// RegisterPreparer installs the class-preparation hook for a host system,
// replacing any previous one.
func (r *Registry) RegisterPreparer(hostSystem string, p Preparer) {
	r.mu.Lock()
	r.preparers[hostSystem] = p
	r.mu.Unlock()
}

// PrepareClass runs the host system's class-preparation hook, if any.
func (r *Registry) PrepareClass(hostSystem string, c *target.Class) error {
	r.mu.RLock()
	p := r.preparers[hostSystem]
	r.mu.RUnlock()

	if p == nil {
		return nil
	}
	return p(c)
}

// Lookup returns the descriptor registered under (hostSystem, featureName),
// triggering the host system's loader if the partition has not been seen yet.
// An unseen host system without a loader fails with ErrUnknownHostSystem; a
// missing feature within a loaded partition fails with ErrUnknownFeature.
func (r *Registry) Lookup(hostSystem, featureName string) (feature.Descriptor, error) {
	if err := r.ensureLoaded(hostSystem); err != nil {
		return feature.Descriptor{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	part := r.hosts[hostSystem]
	desc, ok := part[featureName]
	if !ok {
		return feature.Descriptor{}, &UnknownFeatureError{
			Requested:  featureName,
			HostSystem: hostSystem,
			Available:  sortedKeys(part),
		}
	}
	return desc, nil
}

// HostSystems returns the names of every host system the registry knows,
// loaded or pending a loader, sorted.
func (r *Registry) HostSystems() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.knownLocked()
}

// Features returns the sorted feature names of a host system, loading it on
// demand like Lookup does.
func (r *Registry) Features(hostSystem string) ([]string, error) {
	if err := r.ensureLoaded(hostSystem); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.hosts[hostSystem]), nil
}

// ensureLoaded makes the host system's partition present, running its loader
// under singleflight so concurrent first lookups share one load. A failed
// load leaves the partition absent so a later lookup may retry.
func (r *Registry) ensureLoaded(hostSystem string) error {
	r.mu.RLock()
	_, loaded := r.hosts[hostSystem]
	l, hasLoader := r.loaders[hostSystem]
	r.mu.RUnlock()

	if loaded {
		return nil
	}
	if !hasLoader {
		r.mu.RLock()
		known := r.knownLocked()
		r.mu.RUnlock()
		return &UnknownHostSystemError{Requested: hostSystem, Known: known}
	}

	_, err, _ := r.group.Do(hostSystem, func() (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		// Another caller may have finished the load between our check and
		// this critical section.
		if _, ok := r.hosts[hostSystem]; ok {
			return nil, nil
		}

		descs, err := l()
		if err != nil {
			return nil, fmt.Errorf("load host system %q: %w", hostSystem, err)
		}
		staged := make(map[string]feature.Descriptor, len(descs))
		for _, desc := range descs {
			if err := desc.Validate(); err != nil {
				return nil, fmt.Errorf("load host system %q: %w", hostSystem, err)
			}
			if _, exists := staged[desc.Name]; exists {
				return nil, &DuplicateFeatureError{Name: desc.Name, HostSystem: hostSystem}
			}
			staged[desc.Name] = desc
		}
		r.hosts[hostSystem] = staged

		r.log.Debug("host system loaded",
			slog.String("host_system", hostSystem),
			slog.Int("features", len(staged)))
		return nil, nil
	})
	return err
}

func (r *Registry) knownLocked() []string {
	seen := make(map[string]struct{}, len(r.hosts)+len(r.loaders))
	for name := range r.hosts {
		seen[name] = struct{}{}
	}
	for name := range r.loaders {
		seen[name] = struct{}{}
	}
	known := make([]string, 0, len(seen))
	for name := range seen {
		known = append(known, name)
	}
	sort.Strings(known)
	return known
}

func sortedKeys(m map[string]feature.Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
