// Package release contains the core types of the download page: a published
// Release with its Assets, the repository identifier, and the rule that picks
// the installer out of a release.
package release
