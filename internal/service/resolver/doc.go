// Package resolver runs the release-asset resolution shared by the page, the
// gRPC API and the CLI: fetch the latest release, then pick its installer.
package resolver
