package main

import (
	"github.com/spf13/cobra"
	"igfetch/pkg/config"
	"igfetch/pkg/logger"
	"igfetch/pkg/scraper"
	"igfetch/pkg/ui"
)

func newFetchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [url]",
		Short: "Download the media behind one Instagram URL",
		Long: `Download the image or video of a post, reel, story or IG TV URL.

Supported URL shapes:
  https://www.instagram.com/p/<shortcode>/
  https://www.instagram.com/reel/<shortcode>/
  https://www.instagram.com/tv/<shortcode>/
  https://www.instagram.com/stories/<username>/<story id>/

When no URL argument is given, one line is read from standard input. A prompt
is shown only when standard input is a terminal.`,
		Example: `  igfetch fetch https://www.instagram.com/p/XYZ/
  igfetch fetch --timeout 10s https://www.instagram.com/stories/someuser/1234567890/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, args)
		},
	}
}

func runFetch(cmd *cobra.Command, opts *globalOptions, args []string) error {
	cfg, err := config.Load(opts.configFile, opts.flags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	defer logger.Close()
	logger.WithField("version", version).Debug("igfetch starting")

	var rawURL string
	if len(args) > 0 {
		rawURL = ui.ExtractURL(args[0])
	} else {
		rawURL, err = ui.ReadURL(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	fetcher, err := scraper.New(cfg)
	if err != nil {
		return err
	}

	// The outcome is reported on stdout and never changes the exit code
	if err := fetcher.Run(cmd.Context(), rawURL, cmd.OutOrStdout()); err != nil {
		logger.WithError(err).WithField("url", rawURL).Debug("fetch finished with error")
	}

	return nil
}
