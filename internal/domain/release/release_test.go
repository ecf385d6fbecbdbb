package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSelectInstaller_SkipsChecksum ensures the checksum file is never picked over the installer.
func TestSelectInstaller_SkipsChecksum(t *testing.T) {
	t.Parallel()

	r := &Release{
		TagName: "v1.0.0",
		Assets: []Asset{
			{Name: "app.msi.sha256", BrowserDownloadURL: "A"},
			{Name: "app.msi", BrowserDownloadURL: "B"},
		},
	}

	got := SelectInstaller(r)
	require.NotNil(t, got)
	require.Equal(t, "app.msi", got.Name)
	require.Equal(t, "B", got.BrowserDownloadURL)

	// Reversed order still yields the installer.
	r.Assets[0], r.Assets[1] = r.Assets[1], r.Assets[0]
	got = SelectInstaller(r)
	require.NotNil(t, got)
	require.Equal(t, "app.msi", got.Name)
}

// TestSelectInstaller_FirstMatchWins verifies iteration order decides between installers.
func TestSelectInstaller_FirstMatchWins(t *testing.T) {
	t.Parallel()

	r := &Release{
		Assets: []Asset{
			{Name: "reanimator.zip", BrowserDownloadURL: "zip"},
			{Name: "reanimator-x64.msi", BrowserDownloadURL: "first"},
			{Name: "reanimator-arm64.msi", BrowserDownloadURL: "second"},
		},
	}

	got := SelectInstaller(r)
	require.NotNil(t, got)
	require.Equal(t, "first", got.BrowserDownloadURL)
}

// TestSelectInstaller_Absent covers empty and non-matching asset lists.
func TestSelectInstaller_Absent(t *testing.T) {
	t.Parallel()

	require.Nil(t, SelectInstaller(nil))
	require.Nil(t, SelectInstaller(&Release{}))
	require.Nil(t, SelectInstaller(&Release{
		Assets: []Asset{
			{Name: "reanimator.tar.gz"},
			{Name: "reanimator.msi.sha512"},
		},
	}))
}

// TestSelect_ReturnsCopy makes sure callers cannot mutate the release through the selection.
func TestSelect_ReturnsCopy(t *testing.T) {
	t.Parallel()

	r := &Release{Assets: []Asset{{Name: "a.msi", BrowserDownloadURL: "u"}}}

	got := SelectInstaller(r)
	got.BrowserDownloadURL = "changed"

	require.Equal(t, "u", r.Assets[0].BrowserDownloadURL)
}

// TestMatcher_Custom checks configurable markers.
func TestMatcher_Custom(t *testing.T) {
	t.Parallel()

	m := Matcher{Installer: ".exe"}
	require.True(t, m.Matches("setup.exe"))
	require.True(t, m.Matches("setup.exe.sha256"))
	require.False(t, m.Matches("setup.msi"))
}

// TestVersionLabel checks the label is the prefix followed by the tag.
func TestVersionLabel(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"v0.4.1", "nightly", "1.0"} {
		r := &Release{TagName: tag}
		require.Equal(t, "version: "+tag, r.VersionLabel())
	}
}

// TestSemver covers prefixed, bare and non-semantic tags.
func TestSemver(t *testing.T) {
	t.Parallel()

	require.Equal(t, "v1.2.0", (&Release{TagName: "v1.2"}).Semver())
	require.Equal(t, "v0.4.1", (&Release{TagName: "0.4.1"}).Semver())
	require.Empty(t, (&Release{TagName: "nightly"}).Semver())
}

// TestParseRepository validates owner/name parsing.
func TestParseRepository(t *testing.T) {
	t.Parallel()

	repo, err := ParseRepository(" ollielynas/reanimator ")
	require.NoError(t, err)
	require.Equal(t, Repository{Owner: "ollielynas", Name: "reanimator"}, repo)
	require.Equal(t, "ollielynas/reanimator", repo.String())

	for _, bad := range []string{"", "reanimator", "/reanimator", "owner/", "a/b/c"} {
		_, err = ParseRepository(bad)
		require.Error(t, err, bad)
	}
}
