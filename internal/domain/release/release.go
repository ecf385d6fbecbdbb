package release

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// InstallerMarker identifies the Windows installer package.
	InstallerMarker = ".msi"
	// ChecksumMarker identifies checksum files published next to the installer.
	ChecksumMarker = ".msi.sha"
	// VersionLabelPrefix precedes the tag in the version element.
	VersionLabelPrefix = "version: "
)

// errInvalidRepository is returned when a repository identifier is not owner/name.
var errInvalidRepository = errors.New("repository must be in owner/name form")

// Repository identifies a project on the hosting platform.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" identifier.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("%q: %w", s, errInvalidRepository)
	}

	return Repository{Owner: owner, Name: name}, nil
}

// String returns the owner/name form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	// Name is the file name shown on the release page.
	Name string
	// BrowserDownloadURL is the direct download link.
	BrowserDownloadURL string
	// Size is the file size in bytes.
	Size int64
}

// Release is the metadata of one published version.
type Release struct {
	// TagName is the git tag of the release, e.g. "v0.4.1".
	TagName string
	// Name is the human readable release title.
	Name string
	// HTMLURL points at the release page.
	HTMLURL string
	// PublishedAt is when the release was published.
	PublishedAt time.Time
	// Assets are the attached files in the order the API returned them.
	Assets []Asset
}

// VersionLabel returns the text of the version element.
func (r *Release) VersionLabel() string {
	return VersionLabelPrefix + r.TagName
}

// Semver returns the canonical semantic version of the tag,
// or an empty string when the tag is not a semantic version.
func (r *Release) Semver() string {
	tag := r.TagName
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}

	return semver.Canonical(tag)
}

// Matcher decides which asset is the installer.
type Matcher struct {
	// Installer must be contained in the asset name.
	Installer string
	// Exclude must not be contained in the asset name.
	Exclude string
}

// DefaultMatcher selects Windows installers and skips their checksum files.
func DefaultMatcher() Matcher {
	return Matcher{
		Installer: InstallerMarker,
		Exclude:   ChecksumMarker,
	}
}

// Matches reports whether the asset name satisfies the matcher.
func (m Matcher) Matches(name string) bool {
	if !strings.Contains(name, m.Installer) {
		return false
	}

	return m.Exclude == "" || !strings.Contains(name, m.Exclude)
}

// Select returns the first asset accepted by the matcher, or nil.
func (m Matcher) Select(r *Release) *Asset {
	if r == nil {
		return nil
	}

	for i := range r.Assets {
		if m.Matches(r.Assets[i].Name) {
			selected := r.Assets[i]

			return &selected
		}
	}

	return nil
}

// SelectInstaller picks the installer with the default markers.
func SelectInstaller(r *Release) *Asset {
	return DefaultMatcher().Select(r)
}
