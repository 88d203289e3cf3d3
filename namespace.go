package graft

import (
	"sort"
	"sync"

	"github.com/graftkit/graft/pkg/target"
)

// Namespace is the capability namespace of one concrete class: the installed
// features exposed as named instances. It is built lazily on first access and
// cached per concrete class; installs and uninstalls after the build update
// the same entry in place, so instances handed out earlier stay valid.
// Derived classes get their own namespace even when a base class already has
// one.
type Namespace struct {
	class *target.Class

	mu       sync.RWMutex
	features map[string]*Instance
}

func newNamespace(class *target.Class) *Namespace {
	return &Namespace{
		class:    class,
		features: make(map[string]*Instance),
	}
}

// Class returns the concrete class the namespace belongs to.
func (n *Namespace) Class() *target.Class {
	return n.class
}

// Get returns the instance of an installed feature. A name that is not
// installed fails with ErrFeatureNotInstalled.
func (n *Namespace) Get(name string) (*Instance, error) {
	n.mu.RLock()
	inst, ok := n.features[name]
	n.mu.RUnlock()

	if !ok {
		return nil, &NotInstalledError{Feature: name, Class: n.class.Name()}
	}
	return inst, nil
}

// Has reports whether a feature is installed.
func (n *Namespace) Has(name string) bool {
	n.mu.RLock()
	_, ok := n.features[name]
	n.mu.RUnlock()
	return ok
}

// Names returns the installed feature names, sorted.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.features))
	for name := range n.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Namespace) put(inst *Instance) {
	n.mu.Lock()
	n.features[inst.Name()] = inst
	n.mu.Unlock()
}

func (n *Namespace) remove(name string) {
	n.mu.Lock()
	delete(n.features, name)
	n.mu.Unlock()
}
