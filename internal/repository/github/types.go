package github

import (
	"time"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
)

// releaseDocument mirrors the subset of the GitHub release JSON we read.
type releaseDocument struct {
	TagName     string          `json:"tag_name"`
	Name        string          `json:"name"`
	HTMLURL     string          `json:"html_url"`
	PublishedAt *time.Time      `json:"published_at"`
	Assets      []assetDocument `json:"assets"`
}

// assetDocument mirrors one entry of the assets array.
type assetDocument struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

func (d *releaseDocument) toDomain() *release.Release {
	r := &release.Release{
		TagName: d.TagName,
		Name:    d.Name,
		HTMLURL: d.HTMLURL,
		Assets:  make([]release.Asset, 0, len(d.Assets)),
	}

	if d.PublishedAt != nil {
		r.PublishedAt = d.PublishedAt.UTC()
	}

	for _, a := range d.Assets {
		r.Assets = append(r.Assets, release.Asset{
			Name:               a.Name,
			BrowserDownloadURL: a.BrowserDownloadURL,
			Size:               a.Size,
		})
	}

	return r
}
