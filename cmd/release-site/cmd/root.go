package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/service/site"
	"github.com/ollielynas/reanimator-site/internal/version"
)

var (
	// configPath to the settings file.
	configPath string
	// grpcAddress overrides the configured gRPC listen address.
	grpcAddress string

	// rootCmd represents the base command for serving the download page.
	rootCmd = &cobra.Command{
		Use:   "release-site [listen-address]",
		Short: "Serve the download page for the latest release.",
		Long: `Serves a download page showing the latest release version and its Windows installer.

Every page load fetches the latest release from the GitHub API.
Requests with a download_latest query parameter are redirected to the installer.
The listen address can be provided as argument to override config (e.g. :9090).
With --grpc-addr (or grpc_addr in config) the same data is served over gRPC.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &site.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				GRPCAddress:   grpcAddress,
			}

			return site.Run(ctx, options)
		},
	}
)

// Execute runs the release-site CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVarP(&grpcAddress, "grpc-addr", "g", "", "listen address of the gRPC API")
}
