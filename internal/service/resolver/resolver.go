package resolver

import (
	"context"
	"fmt"

	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/logger"
	"github.com/ollielynas/reanimator-site/internal/repository/github"
)

// Fetcher retrieves the latest release of a repository.
type Fetcher interface {
	FetchLatest(ctx context.Context, repo release.Repository) (*release.Release, error)
}

// Resolver fetches releases and selects installers.
type Resolver struct {
	// fetcher talks to the hosting API.
	fetcher Fetcher
	// matcher picks the installer asset.
	matcher release.Matcher
	// repo is used when callers do not name a repository.
	repo release.Repository
}

// New creates a Resolver.
func New(fetcher Fetcher, matcher release.Matcher, repo release.Repository) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		matcher: matcher,
		repo:    repo,
	}
}

// FromConfig builds a Resolver backed by the GitHub client described by cfg.
func FromConfig(cfg *config.Config) (*Resolver, error) {
	repo, err := cfg.Repo()
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(cfg.APIBaseURL,
		github.WithToken(cfg.Token),
		github.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}

	return New(client, cfg.Matcher(), repo), nil
}

// DefaultRepository returns the configured repository.
func (r *Resolver) DefaultRepository() release.Repository {
	return r.repo
}

// Resolve fetches the latest release of repo and selects its installer.
// A nil asset with a nil error means the release has no installer.
func (r *Resolver) Resolve(ctx context.Context, repo release.Repository) (*release.Release, *release.Asset, error) {
	latest, err := r.fetcher.FetchLatest(ctx, repo)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch latest release of %s: %w", repo, err)
	}

	selected := r.matcher.Select(latest)
	if selected == nil {
		logger.WarnKV(ctx, "No installer asset in release",
			"repository", repo.String(), "tag", latest.TagName, "assets", len(latest.Assets))

		return latest, nil, nil
	}

	logger.DebugKV(ctx, "Installer selected",
		"repository", repo.String(), "tag", latest.TagName, "asset", selected.Name)

	return latest, selected, nil
}

// ResolveDefault resolves the configured repository.
func (r *Resolver) ResolveDefault(ctx context.Context) (*release.Release, *release.Asset, error) {
	return r.Resolve(ctx, r.repo)
}
