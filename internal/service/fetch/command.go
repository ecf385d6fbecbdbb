package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rodaine/table"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/ollielynas/reanimator-site/internal/api/grpc/release"
	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/logger"
	"github.com/ollielynas/reanimator-site/internal/service/client"
	"github.com/ollielynas/reanimator-site/internal/service/resolver"
)

// Options are inputs accepted by the release-fetch entry point.
type Options struct {
	// ConfigPath is the optional path to the settings file.
	ConfigPath string
	// Repository overrides the configured owner/name.
	Repository string
	// ServerAddress resolves through a release-site gRPC listener instead of GitHub.
	ServerAddress string
	// ShowAssets prints every asset of the release as a table.
	ShowAssets bool
	// JSON prints the resolution as JSON.
	JSON bool
	// OutputPath downloads the installer to this path when set.
	OutputPath string
	// Out receives the command output; defaults to stdout.
	Out io.Writer
}

var (
	errNoInstaller         = errors.New("release has no installer asset")
	errAssetsNeedDirectAPI = errors.New("asset listing is not available through the release server")
)

// resolution is what the command prints.
type resolution struct {
	release   *release.Release
	installer *release.Asset
	raw       *structpb.Struct
}

// Run resolves the latest release and reports it.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-fetch")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Load configuration first to get the repository and API settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	// The server answers with the installer only.
	if opts.ShowAssets && opts.ServerAddress != "" {
		return errAssetsNeedDirectAPI
	}

	var res *resolution
	if opts.ServerAddress != "" {
		res, err = resolveRemote(ctx, cfg, opts)
	} else {
		res, err = resolveDirect(ctx, cfg, opts)
	}

	if err != nil {
		return err
	}

	if err = report(out, res, opts); err != nil {
		return err
	}

	// Optionally save the installer.
	if opts.OutputPath == "" {
		return nil
	}

	if res.installer == nil {
		return errNoInstaller
	}

	d := newDownloader(cfg.Timeout)

	written, err := d.Download(ctx, res.installer.BrowserDownloadURL, opts.OutputPath)
	if err != nil {
		return fmt.Errorf("download %s: %w", res.installer.Name, err)
	}

	logger.InfoKV(ctx, "Installer saved", "path", opts.OutputPath, "bytes", written)

	// Keep JSON output parseable.
	if !opts.JSON {
		_, _ = fmt.Fprintf(out, "saved %s (%d bytes)\n", opts.OutputPath, written)
	}

	return nil
}

// resolveDirect queries the GitHub API.
func resolveDirect(ctx context.Context, cfg *config.Config, opts *Options) (*resolution, error) {
	res, err := resolver.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	repo := res.DefaultRepository()
	if opts.Repository != "" {
		if repo, err = release.ParseRepository(opts.Repository); err != nil {
			return nil, err
		}
	}

	latest, installer, err := res.Resolve(ctx, repo)
	if err != nil {
		return nil, err
	}

	raw, err := api.ToStruct(latest, installer)
	if err != nil {
		return nil, fmt.Errorf("encode release: %w", err)
	}

	return &resolution{release: latest, installer: installer, raw: raw}, nil
}

// resolveRemote asks a release-site gRPC listener.
func resolveRemote(ctx context.Context, cfg *config.Config, opts *Options) (*resolution, error) {
	c, err := client.Dial(ctx, opts.ServerAddress, client.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = c.Close()
	}()

	latest, err := c.GetLatestRelease(ctx, opts.Repository)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Resolved through release server", "server_address", opts.ServerAddress)

	return &resolution{release: latest.Release, installer: latest.Installer, raw: latest.Raw}, nil
}

// report prints the resolution in the requested format.
func report(out io.Writer, res *resolution, opts *Options) error {
	if opts.JSON {
		data, err := protojson.MarshalOptions{Multiline: true, EmitUnpopulated: true}.Marshal(res.raw)
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}

		_, err = fmt.Fprintln(out, string(data))

		return err
	}

	if _, err := fmt.Fprintln(out, res.release.VersionLabel()); err != nil {
		return err
	}

	if res.installer == nil {
		_, _ = fmt.Fprintln(out, "no installer asset found")
	} else {
		_, _ = fmt.Fprintf(out, "name: %s\nurl: %s\n", res.installer.Name, res.installer.BrowserDownloadURL)
	}

	if opts.ShowAssets {
		printAssets(out, res)
	}

	return nil
}

// printAssets tabulates every asset and marks the installer.
func printAssets(out io.Writer, res *resolution) {
	tbl := table.New("", "NAME", "SIZE", "URL").WithWriter(out)

	for _, a := range res.release.Assets {
		marker := ""
		if res.installer != nil && a.Name == res.installer.Name {
			marker = "*"
		}

		tbl.AddRow(marker, a.Name, strconv.FormatInt(a.Size, 10), a.BrowserDownloadURL)
	}

	tbl.Print()
}
