// Package site serves the download page.
//
// Every page load resolves the latest release once, then either redirects to
// the installer (download_latest) or renders the page. An optional gRPC
// listener exposes the same resolution as ReleaseService.
package site
