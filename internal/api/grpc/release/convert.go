package release

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/ollielynas/reanimator-site/internal/domain/release"
)

// Field names of the response Struct.
const (
	FieldTagName            = "tag_name"
	FieldVersionLabel       = "version_label"
	FieldSemver             = "semver"
	FieldPublishedAt        = "published_at"
	FieldHTMLURL            = "html_url"
	FieldInstaller          = "installer"
	FieldName               = "name"
	FieldBrowserDownloadURL = "browser_download_url"
	FieldSize               = "size"
)

// ToStruct converts a resolved release into the response message.
// A nil installer is encoded as a null value.
func ToStruct(r *domain.Release, selected *domain.Asset) (*structpb.Struct, error) {
	var publishedAt string
	if !r.PublishedAt.IsZero() {
		publishedAt = r.PublishedAt.UTC().Format(time.RFC3339)
	}

	var installer any
	if selected != nil {
		installer = map[string]any{
			FieldName:               selected.Name,
			FieldBrowserDownloadURL: selected.BrowserDownloadURL,
			FieldSize:               float64(selected.Size),
		}
	}

	return structpb.NewStruct(map[string]any{
		FieldTagName:      r.TagName,
		FieldVersionLabel: r.VersionLabel(),
		FieldSemver:       r.Semver(),
		FieldPublishedAt:  publishedAt,
		FieldHTMLURL:      r.HTMLURL,
		FieldInstaller:    installer,
	})
}

// FromStruct converts a response message back into domain values.
// The selected asset is nil when the response carries no installer.
func FromStruct(s *structpb.Struct) (*domain.Release, *domain.Asset) {
	fields := s.GetFields()

	r := &domain.Release{
		TagName: fields[FieldTagName].GetStringValue(),
		HTMLURL: fields[FieldHTMLURL].GetStringValue(),
	}

	if ts, err := time.Parse(time.RFC3339, fields[FieldPublishedAt].GetStringValue()); err == nil {
		r.PublishedAt = ts
	}

	installer := fields[FieldInstaller].GetStructValue()
	if installer == nil {
		return r, nil
	}

	asset := &domain.Asset{
		Name:               installer.GetFields()[FieldName].GetStringValue(),
		BrowserDownloadURL: installer.GetFields()[FieldBrowserDownloadURL].GetStringValue(),
		Size:               int64(installer.GetFields()[FieldSize].GetNumberValue()),
	}

	r.Assets = []domain.Asset{*asset}

	return r, asset
}
