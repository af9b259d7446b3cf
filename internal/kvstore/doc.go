// Package kvstore provides the layered key/value storage used for edited
// recipe documents and editor state.
//
// Three backends implement one capability-uniform contract with no shared
// code: an ephemeral in-memory store, a durable file-per-key store, and a
// durable SQLite-backed store. Every stored value is wrapped in an envelope
// carrying its write time and an optional TTL; an expired value reads as
// absent and is deleted on read.
//
// The Facade selects the best available backend at startup by probing a fixed
// preference order and exposes get/set/remove keyed by an explicit storage
// class. Facade operations never propagate errors: failures are logged and
// degrade to a boolean or nil result, with a single write-fallback retry from
// the blob class to the local class.
package kvstore
