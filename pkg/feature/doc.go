// Package feature defines the contract between the graft engine and feature
// implementations: a Descriptor declaring a feature's name, intercepted
// methods, dependencies, wrapper factory and optional setup hook, plus the
// Options value recorded per installed feature. The package carries data
// contracts only; installation and interception live in the root graft
// package.
package feature
