// Package model defines the typed form model consumed by renderers. A FormModel
// is an ordered list of fields; object fields carry their children in Nested
// and every field exposes the dotted Path used for value binding and for error
// lookup (for example "dob.day"). Validation rules are advertised with string
// parameters so renderers can map them onto HTML attributes (minlength,
// pattern, required) without sacrificing deterministic JSON snapshots. The
// authoritative validation lives in pkg/registration; rules here are hints.
package model
