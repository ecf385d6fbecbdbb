package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
)

// DownloadLatestParam triggers a redirect to the installer when present.
const DownloadLatestParam = "download_latest"

//go:embed templates/*.html
var templatesFS embed.FS

//nolint:gochecknoglobals // Parsed once, read-only afterwards.
var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// View holds the values written into the page elements.
type View struct {
	// Title is the repository shown in the heading.
	Title string
	// VersionLabel is the text of the .version element.
	VersionLabel string
	// AssetName is the text of the .name element.
	AssetName string
	// DownloadURL is the href of the .download-button link; empty leaves it unset.
	DownloadURL string
	// ReleaseURL links to the release notes.
	ReleaseURL string
}

// Apply builds the page values from the release and the selected installer.
func Apply(repo release.Repository, r *release.Release, selected *release.Asset) View {
	v := View{
		Title:        repo.String(),
		VersionLabel: r.VersionLabel(),
		ReleaseURL:   r.HTMLURL,
	}

	if selected != nil {
		v.AssetName = selected.Name
		v.DownloadURL = selected.BrowserDownloadURL
	}

	return v
}

// HasDownload reports whether the link target is set.
func (v View) HasDownload() bool {
	return v.DownloadURL != ""
}

// Render writes the HTML page for v.
func Render(w io.Writer, v View) error {
	if err := pageTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// RedirectTarget returns the installer URL when the query asks for the latest
// download. The parameter counts as present whatever its value.
// The second result is false when no redirect should happen, including the
// case where the parameter is present but no installer was found.
func RedirectTarget(query url.Values, selected *release.Asset) (string, bool) {
	if !query.Has(DownloadLatestParam) {
		return "", false
	}

	if selected == nil || selected.BrowserDownloadURL == "" {
		return "", false
	}

	return selected.BrowserDownloadURL, true
}
