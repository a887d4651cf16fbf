// Package app provides the application service layer.
//
// Orchestrates the poll cycle: fan out to all sources, render, fingerprint,
// replace the cache entry, and broadcast when the view changed. Owns the
// single cache slot and the cycle sequence counter. Depends on domain
// interfaces, not concrete implementations.
package app
