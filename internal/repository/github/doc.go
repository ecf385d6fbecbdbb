// Package github reads release metadata from the GitHub REST API.
//
// The Client fetches the "latest release" document of a repository, checks it
// against a JSON schema and converts it into the domain Release. Failures are
// reported as ErrNetwork or ErrParse.
package github
