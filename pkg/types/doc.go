// Package types defines the wire-level vocabulary shared by the registry
// engine, its text persister, and its command dispatcher: typed key
// handles (KeyID), the closed RegType/ErrKind enums, key flags,
// change-kind bits, and UTF-16LE encode/decode helpers for REG_SZ-family
// values.
//
// Design goals:
//   - Small, copyable handles (KeyID) instead of large object graphs.
//   - Typed errors with a stable, closed ErrKind set callers can branch on.
//   - No dependencies beyond the standard library — every other package in
//     this module depends on types, so types depends on nothing in it.
package types
