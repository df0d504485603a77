// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, and debug introspection layer for hioload-sync.
//
// Provides:
//   - Config with defaults, validation and environment overrides
//   - Prometheus collectors for contention, reclamation and epoch progress
//   - Debug probe registration and state export
//
// Nothing in this package sits on a primitive's fast path; metric children are
// resolved once per instance and touched only on retry or contention paths.
package control
