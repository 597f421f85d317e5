package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"igfetch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configFile string
	logLevel   string
	outputDir  string
	timeout    time.Duration
	noColor    bool
}

// flags returns only the values the user set on the command line, keyed the
// way config.MergeCommandLineFlags expects
func (o *globalOptions) flags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("output") {
		flags["output"] = o.outputDir
	}
	if cmd.Flags().Changed("timeout") {
		flags["timeout"] = o.timeout
	}
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = o.logLevel
	}
	return flags
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "igfetch [url]",
		Short: "Download a single Instagram post, reel, story or IG TV video",
		Long: `igfetch downloads the image or video behind one Instagram URL.

The URL is taken from the first argument, or read from standard input when no
argument is given. The media is saved as <shortcode>.jpg or <shortcode>.mp4 in
the output directory and one status line is printed:

  Downloaded: <filename>
  Error downloading media: <detail>
  Invalid Instagram URL`,
		Example: `  # Download a post
  igfetch https://www.instagram.com/p/XYZ/

  # Read the URL from standard input
  echo "https://www.instagram.com/reel/ABC123/" | igfetch

  # Save into another directory
  igfetch fetch -o ./media https://www.instagram.com/tv/DEF456/`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Output = cmd.OutOrStdout()
			if opts.noColor {
				ui.SetColorEnabled(false)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./.igfetch.yaml or $HOME/.config/igfetch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&opts.outputDir, "output", "o", "", "output directory for downloads (default: current directory)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for each network request")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`igfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// Execute runs the root command. Only command-line and configuration
// failures exit non-zero.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
