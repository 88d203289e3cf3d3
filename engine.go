package graft

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/graftkit/graft/pkg/feature"
	"github.com/graftkit/graft/pkg/intercept"
	"github.com/graftkit/graft/pkg/registry"
	"github.com/graftkit/graft/pkg/target"
)

// Engine installs features onto target classes and exposes them through
// per-class capability namespaces. Install and uninstall calls against the
// same engine are serialized; namespace reads after the first access are
// lock-free apart from the namespace's own read lock.
type Engine struct {
	reg        *registry.Registry
	log        *slog.Logger
	sharedKeys []string

	mu      sync.Mutex
	classes map[*target.Class]*classState
}

// classState is everything the engine tracks for one concrete class: the
// ordered install records and the lazily built namespace. prepared remembers
// which host systems already ran their class-preparation hook.
type classState struct {
	records  []*record
	index    map[string]*record
	ns       *Namespace
	prepared map[string]struct{}
}

// record is one installed feature on one class. The same record backs the
// namespace instance for the feature, keyed by feature name (upsert, never
// duplicated).
type record struct {
	desc feature.Descriptor
	opts feature.Options
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithLogger sets the logger for install and uninstall events. Defaults to a
// discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSharedOptionKeys designates the option keys propagated to dependencies
// installed along with a requested feature. The requested feature records the
// full option set; each dependency records only the shared subset. Default:
// no keys are shared.
func WithSharedOptionKeys(keys ...string) Option {
	return func(e *Engine) {
		e.sharedKeys = keys
	}
}

// New creates an engine resolving features through reg. A nil reg gets a
// fresh empty registry, reachable via Registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = registry.New()
	}
	e := &Engine{
		reg:     reg,
		log:     slog.New(slog.DiscardHandler),
		classes: make(map[*target.Class]*classState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine resolves features through.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Install installs a feature and, after it, its transitive dependencies onto
// a class. The requested feature records opts; dependencies record the subset
// selected by WithSharedOptionKeys. Resolution failures surface the registry
// errors unchanged; a missing intercepted method fails with ErrAutoDecorate
// before any later method of that feature is touched. Interceptions already
// applied by the failing call are not rolled back.
//
// Dependencies are installed after the feature that declares them, so on a
// method both declare, the dependency's wrapper ends up active (each wrap
// replaces the previous one, see pkg/intercept).
func (e *Engine) Install(c *target.Class, featureName, hostSystem string, opts feature.Options) error {
	if c == nil {
		return errors.New("graft: install: target class cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	shared := opts.Filter(e.sharedKeys...)
	visited := make(map[string]struct{})
	return e.install(c, featureName, hostSystem, opts.Clone(), shared, visited, true)
}

func (e *Engine) install(c *target.Class, name, hostSystem string, featureOpts, sharedOpts feature.Options, visited map[string]struct{}, requested bool) error {
	// Termination guard for cyclic dependency declarations; within one call a
	// feature is installed at most once.
	if _, seen := visited[name]; seen {
		return nil
	}
	visited[name] = struct{}{}

	desc, err := e.reg.Lookup(hostSystem, name)
	if err != nil {
		return fmt.Errorf("graft: install %q on class %q: %w", name, c.Name(), err)
	}

	st := e.stateFor(c)
	if _, ok := st.prepared[hostSystem]; !ok {
		if err := e.reg.PrepareClass(hostSystem, c); err != nil {
			return fmt.Errorf("graft: prepare class %q for host system %q: %w", c.Name(), hostSystem, err)
		}
		st.prepared[hostSystem] = struct{}{}
	}

	for _, method := range desc.Intercepts {
		err := intercept.Wrap(c, method, func(original target.Method) target.Method {
			return desc.Wrap(method, original)
		})
		if err != nil {
			if errors.Is(err, intercept.ErrTargetMissing) {
				return &AutoDecorateError{Feature: name, Method: method, Class: c.Name(), err: err}
			}
			return fmt.Errorf("graft: intercept %q for feature %q: %w", method, name, err)
		}
	}

	if desc.Setup != nil {
		if err := desc.Setup(c); err != nil {
			return fmt.Errorf("graft: setup feature %q on class %q: %w", name, c.Name(), err)
		}
	}

	opts := sharedOpts
	if requested {
		opts = featureOpts
	}
	st.upsert(desc, opts.Clone())
	if st.ns != nil {
		st.ns.put(newInstance(desc, c, opts.Clone()))
	}

	e.log.Debug("feature installed",
		slog.String("feature", name),
		slog.String("class", c.Name()),
		slog.String("host_system", hostSystem),
		slog.Bool("requested", requested))

	for _, dep := range desc.Dependencies {
		if err := e.install(c, dep, hostSystem, featureOpts, sharedOpts, visited, false); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall removes a feature from a class, restores every currently
// intercepted method slot on the class to its pristine implementation, and
// then uninstalls the feature's declared dependencies the same way. A name
// that is not installed fails with ErrUninstall before any state changes.
//
// Restoration covers all intercepted slots, not only this feature's, and
// dependency removal does not check whether another installed feature still
// depends on the dependency. Both behaviors match the composition model of a
// single feature per method slot; see the package documentation.
func (e *Engine) Uninstall(c *target.Class, featureName string) error {
	if c == nil {
		return errors.New("graft: uninstall: target class cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uninstall(c, featureName)
}

func (e *Engine) uninstall(c *target.Class, name string) error {
	ns := e.namespaceLocked(c)
	inst, err := ns.Get(name)
	if err != nil {
		return &UninstallError{Feature: name, Class: c.Name(), Installed: ns.Names()}
	}

	for _, method := range intercept.Intercepted(c) {
		if err := intercept.Restore(c, method); err != nil {
			return fmt.Errorf("graft: restore %q on class %q: %w", method, c.Name(), err)
		}
	}

	ns.remove(name)
	e.stateFor(c).delete(name)

	e.log.Debug("feature uninstalled",
		slog.String("feature", name),
		slog.String("class", c.Name()))

	for _, dep := range inst.Descriptor().Dependencies {
		if err := e.uninstall(c, dep); err != nil {
			return err
		}
	}
	return nil
}

// Namespace returns the class's capability namespace, building it on first
// access from the install records of the class and its base chain. Records on
// a derived class shadow base records of the same feature name; instances are
// constructed against the accessing class.
func (e *Engine) Namespace(c *target.Class) *Namespace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.namespaceLocked(c)
}

// Get returns the installed feature instance for a class. Lookups are
// idempotent: without an intervening install or uninstall, repeated calls
// return the same instance.
func (e *Engine) Get(c *target.Class, featureName string) (*Instance, error) {
	return e.Namespace(c).Get(featureName)
}

// GetFor returns the feature instance bound to one host-system object. The
// binding is created fresh per call.
func (e *Engine) GetFor(obj target.Object, featureName string) (*Bound, error) {
	if obj == nil {
		return nil, errors.New("graft: get: object cannot be nil")
	}
	inst, err := e.Get(obj.TargetClass(), featureName)
	if err != nil {
		return nil, err
	}
	return inst.Bind(obj), nil
}

func (e *Engine) namespaceLocked(c *target.Class) *Namespace {
	st := e.stateFor(c)
	if st.ns == nil {
		ns := newNamespace(c)
		for _, rec := range e.effectiveRecordsLocked(c) {
			ns.features[rec.desc.Name] = newInstance(rec.desc, c, rec.opts.Clone())
		}
		st.ns = ns
	}
	return st.ns
}

// effectiveRecordsLocked merges install records down the base chain, base
// first, so a derived class inherits base installs and its own records shadow
// them. Ancestors without any records contribute nothing and no state is
// created for them.
func (e *Engine) effectiveRecordsLocked(c *target.Class) []*record {
	var chain []*target.Class
	for cur := c; cur != nil; cur = cur.Base() {
		chain = append(chain, cur)
	}

	var out []*record
	pos := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		st, ok := e.classes[chain[i]]
		if !ok {
			continue
		}
		for _, rec := range st.records {
			if j, ok := pos[rec.desc.Name]; ok {
				out[j] = rec
				continue
			}
			pos[rec.desc.Name] = len(out)
			out = append(out, rec)
		}
	}
	return out
}

func (e *Engine) stateFor(c *target.Class) *classState {
	st, ok := e.classes[c]
	if !ok {
		st = &classState{
			index:    make(map[string]*record),
			prepared: make(map[string]struct{}),
		}
		e.classes[c] = st
	}
	return st
}

func (st *classState) upsert(desc feature.Descriptor, opts feature.Options) {
	if rec, ok := st.index[desc.Name]; ok {
		rec.desc = desc
		rec.opts = opts
		return
	}
	rec := &record{desc: desc, opts: opts}
	st.index[desc.Name] = rec
	st.records = append(st.records, rec)
}

func (st *classState) delete(name string) {
	rec, ok := st.index[name]
	if !ok {
		return
	}
	delete(st.index, name)
	for i, r := range st.records {
		if r == rec {
			st.records = append(st.records[:i], st.records[i+1:]...)
			break
		}
	}
}
