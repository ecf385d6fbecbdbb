package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/logger"
)

// Config holds settings shared by the release binaries.
type Config struct {
	// Repository is the owner/name of the project whose releases are shown.
	Repository string `yaml:"repository" toml:"repository"`
	// APIBaseURL is the root of the GitHub REST API.
	APIBaseURL string `yaml:"api_base_url" toml:"api_base_url"`
	// Token is an optional API token sent as a bearer credential.
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`
	// HTTPAddress is where release-site serves the download page.
	HTTPAddress string `yaml:"http_addr" toml:"http_addr"`
	// GRPCAddress is where release-site serves ReleaseService; empty disables it.
	GRPCAddress string `yaml:"grpc_addr,omitempty" toml:"grpc_addr,omitempty"`
	// InstallerMarker must be contained in the installer asset name.
	InstallerMarker string `yaml:"installer_marker" toml:"installer_marker"`
	// ChecksumMarker excludes checksum files that also contain InstallerMarker.
	ChecksumMarker string `yaml:"checksum_marker" toml:"checksum_marker"`
	// Timeout bounds each outbound request.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// AllowedRepositories are owner/name overrides the gRPC API accepts besides
	// Repository; "*" accepts any.
	AllowedRepositories []string `yaml:"allowed_repositories,omitempty" toml:"allowed_repositories,omitempty"`
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "release-site-settings.yaml"

	// DefaultRepository is the project the download page points at.
	DefaultRepository = "ollielynas/reanimator"

	// DefaultAPIBaseURL is the public GitHub API.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultHTTPAddress is the download page listen address.
	DefaultHTTPAddress = ":8080"

	// DefaultTimeout is the default duration for outbound requests.
	DefaultTimeout = 10 * time.Second

	// DefaultFilePermissions is the permission for saved settings.
	DefaultFilePermissions = 0o600

	// TokenEnv overrides Token when set.
	TokenEnv = "GITHUB_TOKEN"

	// AllowAnyRepository in AllowedRepositories accepts every repository.
	AllowAnyRepository = "*"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns settings with every default applied.
func Default() *Config {
	return &Config{
		Repository:      DefaultRepository,
		APIBaseURL:      DefaultAPIBaseURL,
		HTTPAddress:     DefaultHTTPAddress,
		InstallerMarker: release.InstallerMarker,
		ChecksumMarker:  release.ChecksumMarker,
		Timeout:         DefaultTimeout,
		LogLevel:        "info",
	}
}

// Load reads settings from path. A missing default settings file yields the
// defaults; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = decode(path, contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Run with defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		cfg.Token = token
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to path in the format implied by its extension.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Settings may carry a token, so restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Repository == "" {
		cfg.Repository = DefaultRepository
	}

	if _, err := release.ParseRepository(cfg.Repository); err != nil {
		return fmt.Errorf("invalid repository: %w", err)
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = DefaultHTTPAddress
	}

	if _, _, err := net.SplitHostPort(cfg.HTTPAddress); err != nil {
		return fmt.Errorf("invalid HTTP address: %w", err)
	}

	if cfg.GRPCAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.GRPCAddress); err != nil {
			return fmt.Errorf("invalid gRPC address: %w", err)
		}
	}

	// Custom markers bring their own exclusion; an empty pair means the defaults.
	if cfg.InstallerMarker == "" {
		cfg.InstallerMarker = release.InstallerMarker
		cfg.ChecksumMarker = release.ChecksumMarker
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	for _, repo := range cfg.AllowedRepositories {
		if repo == AllowAnyRepository {
			continue
		}

		if _, err := release.ParseRepository(repo); err != nil {
			return fmt.Errorf("invalid allowed repository: %w", err)
		}
	}

	if _, ok := logger.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return nil
}

// Matcher returns the installer matcher described by the settings.
func (c *Config) Matcher() release.Matcher {
	return release.Matcher{
		Installer: c.InstallerMarker,
		Exclude:   c.ChecksumMarker,
	}
}

// Repo returns the parsed repository identifier.
func (c *Config) Repo() (release.Repository, error) {
	return release.ParseRepository(c.Repository)
}

// isTOML reports whether path should be handled as TOML.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, contents []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(contents, cfg)
	}

	return yaml.Unmarshal(contents, cfg)
}

func encode(path string, cfg *Config) ([]byte, error) {
	if !isTOML(path) {
		return yaml.Marshal(cfg)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
