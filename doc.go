// Package graft attaches independently developed features to opaque
// host-system classes at runtime, without touching the host system's own type
// hierarchy and without static knowledge of which features a class will use.
//
// A feature declares a name, the methods it intercepts, the features it
// depends on, and a wrapper factory per intercepted method (see pkg/feature).
// Host-system adapters register descriptors in a registry partitioned by host
// system (see pkg/registry) and model each extendable class as an explicit
// side table of method slots (see pkg/target). The engine resolves a
// requested feature's dependency closure, wraps the declared methods with
// exact restoration (see pkg/intercept), and exposes everything installed on
// a class through its capability namespace.
//
// Basic Usage:
//
//	reg := registry.New()
//	_ = reg.Register("orm_x", feature.Descriptor{
//		Name:       "audit",
//		Intercepts: []string{"save"},
//		Wrap: func(method string, original target.Method) target.Method {
//			return func(recv any, args ...any) (any, error) {
//				recordAudit(recv)
//				return original(recv, args...)
//			}
//		},
//	})
//
//	engine := graft.New(reg)
//	model := target.NewClass("Order", target.WithMethods(map[string]target.Method{
//		"save": saveOrder,
//	}))
//
//	if err := engine.Install(model, "audit", "orm_x", nil); err != nil {
//		// handle error
//	}
//	audit, _ := engine.Get(model, "audit")
//
// Uninstalling a feature restores every intercepted method slot on the class
// to its pristine implementation and removes the feature's dependencies the
// same way.
//
// Composition model: one feature per method slot. Wrapping always starts from
// the slot's pristine implementation, so a second feature intercepting the
// same method replaces the first feature's wrapper instead of stacking on it,
// and uninstalling any feature restores all intercepted slots on the class.
// Features whose method sets do not overlap compose freely.
//
// All engine operations are synchronous and safe for concurrent use; install
// and uninstall calls on the same engine are serialized.
package graft
