// Package release implements the gRPC transport for the release resolver.
//
// The service is declared by hand over protobuf well-known types: the request
// is a StringValue carrying an optional owner/name override and the response is
// a Struct describing the latest release and its installer.
//
// Overrides are resolved with the server's own API token, so only the default
// repository and those passed to WithAllowedRepositories are served.
package release
