package graft

import (
	"github.com/graftkit/graft/pkg/feature"
	"github.com/graftkit/graft/pkg/target"
)

// Instance is a feature installed on a concrete class: the descriptor plus
// the options recorded at install time. Instances are owned by the class's
// capability namespace and shared across every object of the class; they hold
// no per-object state. Object-scoped access goes through Bind, which returns
// a fresh value per call.
type Instance struct {
	desc  feature.Descriptor
	class *target.Class
	opts  feature.Options
}

func newInstance(desc feature.Descriptor, class *target.Class, opts feature.Options) *Instance {
	return &Instance{desc: desc, class: class, opts: opts}
}

// Name returns the feature name.
func (i *Instance) Name() string {
	return i.desc.Name
}

// Descriptor returns the descriptor the instance was built from.
func (i *Instance) Descriptor() feature.Descriptor {
	return i.desc
}

// Class returns the concrete class the instance belongs to. For a feature
// installed on a base class and accessed through a derived class's namespace,
// this is the derived class.
func (i *Instance) Class() *target.Class {
	return i.class
}

// Options returns a copy of the options recorded when the feature was
// installed.
func (i *Instance) Options() feature.Options {
	return i.opts.Clone()
}

// Bind scopes the instance to one host-system object. The binding is a fresh
// value on every call and is never stored on the shared instance, so
// concurrent bindings from different objects of the same class do not race.
func (i *Instance) Bind(obj any) *Bound {
	return &Bound{inst: i, obj: obj}
}

// Bound is a feature instance scoped to a single host-system object.
type Bound struct {
	inst *Instance
	obj  any
}

// Instance returns the shared feature instance.
func (b *Bound) Instance() *Instance {
	return b.inst
}

// Object returns the object the binding is scoped to.
func (b *Bound) Object() any {
	return b.obj
}

// Call invokes a method of the bound object's class with the object as
// receiver, dispatching through the current (possibly wrapped) slot.
func (b *Bound) Call(method string, args ...any) (any, error) {
	return b.inst.class.Call(b.obj, method, args...)
}
