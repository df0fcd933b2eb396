// Package crdterr defines the sentinel errors shared by every CRDT in
// this module, so callers can use errors.Is regardless of which
// concrete type produced the error.
package crdterr

import "errors"

// ErrNotPresent is returned when an operation requires an element or
// field that is not present in the current value — ORSWOT.Remove,
// ORSWOT.RemoveAll, and Map.Remove all report it. Spec.md §7 calls
// this "precondition-not-present".
var ErrNotPresent = errors.New("crdt: precondition failed: not present")

// ErrInvalidBinary is returned by FromBinary when the first two bytes
// of a blob do not match a known (tag, version) pair.
var ErrInvalidBinary = errors.New("crdt: invalid binary encoding")
