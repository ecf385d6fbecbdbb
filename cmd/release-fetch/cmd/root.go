package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ollielynas/reanimator-site/internal/config"
	"github.com/ollielynas/reanimator-site/internal/service/fetch"
	"github.com/ollielynas/reanimator-site/internal/version"
)

var (
	// options collects flag values.
	options = new(fetch.Options)

	// rootCmd represents the base command for resolving the latest installer.
	rootCmd = &cobra.Command{
		Use:   "release-fetch [owner/name]",
		Short: "Show or download the installer of the latest release.",
		Long: `Resolves the latest release of a repository and prints its version and Windows installer.

The repository defaults to the configured one. Use --server to resolve through a
running release-site gRPC API instead of calling GitHub directly, and --output to
download the installer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.Repository = args[0]
			}

			options.Out = cmd.OutOrStdout()

			return fetch.Run(ctx, options)
		},
	}
)

// Execute runs the release-fetch CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", "", "path to settings file (default "+config.DefaultConfigFilename+")")
	flags.StringVarP(&options.ServerAddress, "server", "s", "", "resolve through a release-site gRPC address")
	flags.StringVarP(&options.OutputPath, "output", "o", "", "download the installer to this path")
	flags.BoolVarP(&options.ShowAssets, "assets", "a", false, "list every asset of the release")
	flags.BoolVar(&options.JSON, "json", false, "print the result as JSON")
}
