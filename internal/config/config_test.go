package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings are filled with defaults.
	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultRepository, settings.Repository)
	require.Equal(t, DefaultAPIBaseURL, settings.APIBaseURL)
	require.Equal(t, DefaultHTTPAddress, settings.HTTPAddress)
	require.Equal(t, ".msi", settings.InstallerMarker)
	require.Equal(t, DefaultTimeout, settings.Timeout)

	// Bad repository.
	require.Error(t, Validate(&Config{Repository: "reanimator"}))

	// Bad listen address.
	require.Error(t, Validate(&Config{HTTPAddress: "8080"}))

	// Bad gRPC address.
	require.Error(t, Validate(&Config{GRPCAddress: "nowhere"}))

	// Allowed repositories must be owner/name or the wildcard.
	require.NoError(t, Validate(&Config{AllowedRepositories: []string{"octo/widget", AllowAnyRepository}}))
	require.Error(t, Validate(&Config{AllowedRepositories: []string{"widget"}}))

	// Bad log level.
	require.Error(t, Validate(&Config{LogLevel: "chatty"}))

	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures YAML settings are persisted and loaded back.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := &Config{
		Repository:  "octo/widget",
		APIBaseURL:  "http://127.0.0.1:9999",
		HTTPAddress: "127.0.0.1:8081",
		GRPCAddress: "127.0.0.1:50051",
		Timeout:     3 * time.Second,

		AllowedRepositories: []string{"octo/gadget"},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.Repository, loaded.Repository)
	require.Equal(t, settings.APIBaseURL, loaded.APIBaseURL)
	require.Equal(t, settings.GRPCAddress, loaded.GRPCAddress)
	require.Equal(t, 3*time.Second, loaded.Timeout)
	require.Equal(t, []string{"octo/gadget"}, loaded.AllowedRepositories)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoad_TOML reads a TOML settings file.
func TestLoad_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	contents := "repository = \"octo/widget\"\ninstaller_marker = \".exe\"\nchecksum_marker = \".exe.sha\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "octo/widget", loaded.Repository)
	require.True(t, loaded.Matcher().Matches("setup.exe"))
	require.False(t, loaded.Matcher().Matches("setup.exe.sha256"))
}

// TestLoad_MissingExplicitFile fails when the caller named a file that does not exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
