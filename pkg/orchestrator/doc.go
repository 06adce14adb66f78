// Package orchestrator wires the registration schema → form model → theme →
// renderer pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
