package page

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
)

var testRepo = release.Repository{Owner: "ollielynas", Name: "reanimator"}

// TestApply_WithInstaller fills every element.
func TestApply_WithInstaller(t *testing.T) {
	t.Parallel()

	r := &release.Release{
		TagName: "v0.4.1",
		Assets: []release.Asset{
			{Name: "x.msi.sha256", BrowserDownloadURL: "A"},
			{Name: "x.msi", BrowserDownloadURL: "B"},
		},
	}

	v := Apply(testRepo, r, release.SelectInstaller(r))
	require.Equal(t, "version: v0.4.1", v.VersionLabel)
	require.Equal(t, "x.msi", v.AssetName)
	require.Equal(t, "B", v.DownloadURL)
	require.True(t, v.HasDownload())
}

// TestApply_NoInstaller leaves the link unset.
func TestApply_NoInstaller(t *testing.T) {
	t.Parallel()

	r := &release.Release{
		TagName: "v0.4.1",
		Assets:  []release.Asset{{Name: "x.zip", BrowserDownloadURL: "Z"}},
	}

	v := Apply(testRepo, r, release.SelectInstaller(r))
	require.Empty(t, v.AssetName)
	require.Empty(t, v.DownloadURL)
	require.False(t, v.HasDownload())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v))
	require.Contains(t, buf.String(), `<a class="download-button">`)
	require.NotContains(t, buf.String(), "href=\"Z\"")
}

// TestRender writes the version label and link into the page elements.
func TestRender(t *testing.T) {
	t.Parallel()

	v := View{
		Title:        "ollielynas/reanimator",
		VersionLabel: "version: v1.0.0",
		AssetName:    "reanimator.msi",
		DownloadURL:  "https://example.com/reanimator.msi",
		ReleaseURL:   "https://example.com/releases/v1.0.0",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v))

	out := buf.String()
	require.Contains(t, out, `<p class="version">version: v1.0.0</p>`)
	require.Contains(t, out, `<p class="name">reanimator.msi</p>`)
	require.Contains(t, out, `<a class="download-button" href="https://example.com/reanimator.msi">`)
	require.Contains(t, out, `href="https://example.com/releases/v1.0.0"`)
}

// TestRender_EscapesContent keeps release data out of the markup.
func TestRender_EscapesContent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, View{VersionLabel: "version: <script>"}))
	require.NotContains(t, buf.String(), "<script>")
}

// TestRedirectTarget covers presence, absence and a missing installer.
func TestRedirectTarget(t *testing.T) {
	t.Parallel()

	selected := &release.Asset{Name: "x.msi", BrowserDownloadURL: "U"}

	for _, raw := range []string{"download_latest=true", "download_latest=", "download_latest", "a=1&download_latest=0"} {
		query, err := url.ParseQuery(raw)
		require.NoError(t, err)

		target, ok := RedirectTarget(query, selected)
		require.True(t, ok, raw)
		require.Equal(t, "U", target)
	}

	query, err := url.ParseQuery("other=1")
	require.NoError(t, err)

	_, ok := RedirectTarget(query, selected)
	require.False(t, ok)

	_, ok = RedirectTarget(url.Values{}, nil)
	require.False(t, ok)

	_, ok = RedirectTarget(url.Values{DownloadLatestParam: {"true"}}, nil)
	require.False(t, ok)
}
