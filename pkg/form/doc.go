// Package form binds registration fields to controls, tracks per-field and
// whole-form state, and fires the completion callback for accepted submits.
//
// A Controller belongs to one event source (a terminal session or a single
// HTTP request) and is not safe for concurrent use.
package form
