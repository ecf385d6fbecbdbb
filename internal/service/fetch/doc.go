// Package fetch implements release-fetch: resolve the latest release from a
// terminal, print or tabulate it, and optionally download the installer.
//
// Downloads stream into the target through go-update so an interrupted
// transfer never leaves a truncated installer behind.
package fetch
