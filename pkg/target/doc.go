// Package target models opaque host-system classes as explicit side tables of
// method slots. Host-system adapters build a Class per model they want to
// extend; the graft engine intercepts and restores its slots without ever
// touching the host system's own type hierarchy.
package target
