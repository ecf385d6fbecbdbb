// Package page turns a resolved release into the download page.
//
// Apply builds the View written into the page elements, Render executes the
// HTML template and RedirectTarget decides whether a request asking for
// download_latest is sent straight to the installer.
package page
