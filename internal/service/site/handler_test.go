package site

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/repository/github"
)

// fakeResolver returns a canned resolution and counts calls.
type fakeResolver struct {
	release *release.Release
	err     error
	calls   int
}

// ResolveDefault returns the canned release with its installer.
func (f *fakeResolver) ResolveDefault(context.Context) (*release.Release, *release.Asset, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}

	return f.release, release.SelectInstaller(f.release), nil
}

// DefaultRepository returns the page repository.
func (f *fakeResolver) DefaultRepository() release.Repository {
	return release.Repository{Owner: "ollielynas", Name: "reanimator"}
}

func withInstaller() *release.Release {
	return &release.Release{
		TagName: "v0.4.1",
		Assets: []release.Asset{
			{Name: "x.msi.sha256", BrowserDownloadURL: "https://example.com/A"},
			{Name: "x.msi", BrowserDownloadURL: "https://example.com/B"},
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

// TestIndex_RendersPage writes the version label, name and link.
func TestIndex_RendersPage(t *testing.T) {
	t.Parallel()

	res := &fakeResolver{release: withInstaller()}
	rec := get(t, NewHandler(context.Background(), res), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, res.calls)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	body := rec.Body.String()
	require.Contains(t, body, `<p class="version">version: v0.4.1</p>`)
	require.Contains(t, body, `<p class="name">x.msi</p>`)
	require.Contains(t, body, `href="https://example.com/B"`)
	require.NotContains(t, body, "https://example.com/A")
}

// TestIndex_Redirects sends download_latest requests to the installer.
func TestIndex_Redirects(t *testing.T) {
	t.Parallel()

	h := NewHandler(context.Background(), &fakeResolver{release: withInstaller()})

	for _, target := range []string{"/?download_latest=true", "/?download_latest", "/?download_latest="} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusFound, rec.Code, target)
		require.Equal(t, "https://example.com/B", rec.Header().Get("Location"))
	}
}

// TestIndex_NoRedirectWithoutParam renders even when an installer exists.
func TestIndex_NoRedirectWithoutParam(t *testing.T) {
	t.Parallel()

	rec := get(t, NewHandler(context.Background(), &fakeResolver{release: withInstaller()}), "/?other=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
}

// TestIndex_NoInstaller renders the page without a link, even with download_latest.
func TestIndex_NoInstaller(t *testing.T) {
	t.Parallel()

	res := &fakeResolver{release: &release.Release{
		TagName: "v0.5.0",
		Assets:  []release.Asset{{Name: "x.zip", BrowserDownloadURL: "Z"}},
	}}

	rec := get(t, NewHandler(context.Background(), res), "/?download_latest=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
	require.Contains(t, rec.Body.String(), "version: v0.5.0")
	require.Contains(t, rec.Body.String(), `<a class="download-button">`)
}

// TestIndex_ResolveFailure answers with a bad gateway.
func TestIndex_ResolveFailure(t *testing.T) {
	t.Parallel()

	res := &fakeResolver{err: fmt.Errorf("fetch: %w", github.ErrNetwork)}

	rec := get(t, NewHandler(context.Background(), res), "/?download_latest=true")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
}

// TestHealth answers without resolving.
func TestHealth(t *testing.T) {
	t.Parallel()

	res := &fakeResolver{}
	rec := get(t, NewHandler(context.Background(), res), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Zero(t, res.calls)

	rec = get(t, NewHandler(context.Background(), res), "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
