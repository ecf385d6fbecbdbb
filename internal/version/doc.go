// Package version exposes build metadata for release-site and release-fetch.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
