// Package config defines the settings shared by release-site and release-fetch
// and provides helpers to load, validate and save them.
//
// Settings are YAML by default; files with a .toml extension are read and
// written as TOML. GITHUB_TOKEN overrides the configured API token.
package config
