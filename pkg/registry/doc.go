// Package registry keeps the process-wide table of feature descriptors,
// partitioned by host system. Partitions are populated eagerly by adapters at
// load time or lazily through a Loader the first time a host system is looked
// up; lazy loads are idempotent and shared across concurrent callers.
package registry
