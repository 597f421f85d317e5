package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"igfetch/pkg/config"
	"igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/storage"
)

// Status lines printed by Run
const (
	MsgDownloaded    = "Downloaded: %s"
	MsgDownloadError = "Error downloading media: %v"
	MsgInvalidURL    = "Invalid Instagram URL"
)

// MediaFetcher downloads one media item per call
type MediaFetcher struct {
	client InstagramClient
	config *config.Config
	logger logger.Logger
}

// Result describes a completed fetch
type Result struct {
	// Path is the written file, relative to the working directory when the
	// output directory is relative.
	Path  string
	Media *instagram.Media
}

// Option customizes a MediaFetcher
type Option func(*options)

type options struct {
	client    InstagramClient
	transport http.RoundTripper
	logger    logger.Logger
}

// WithClient replaces the Instagram client entirely
func WithClient(c InstagramClient) Option {
	return func(o *options) { o.client = c }
}

// WithTransport sets the HTTP transport of the default client
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger sets the logger used by the fetcher and its client
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a new MediaFetcher
func New(cfg *config.Config, opts ...Option) (*MediaFetcher, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.GetLogger()
	}

	client := o.client
	if client == nil {
		igClient := instagram.NewClient(cfg.Download.Timeout, o.logger)
		if cfg.Instagram.UserAgent != "" {
			igClient.SetHeader("User-Agent", cfg.Instagram.UserAgent)
		}
		if o.transport != nil {
			igClient.SetTransport(o.transport)
		}
		client = igClient
	}

	return &MediaFetcher{
		client: client,
		config: cfg,
		logger: o.logger,
	}, nil
}

// Fetch classifies rawURL, looks it up, downloads the media and writes it to
// the output directory. Errors are typed; see errors.IsInvalidURL.
func (f *MediaFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	m, err := instagram.ParseURL(rawURL)
	if err != nil {
		f.logger.WithError(err).WithField("url", rawURL).Debug("URL not recognized")
		return nil, err
	}

	log := f.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"category": m.Category.String(),
		"id":       m.ID,
	})
	log.WithField("page", instagram.GetMediaPageURL(m.Category, m.ID)).Debug("classified URL")

	payload, err := f.client.Lookup(ctx, m)
	if err != nil {
		log.WithError(err).Warn("lookup failed")
		return nil, err
	}

	media, err := instagram.ExtractMedia(payload)
	if err != nil {
		log.WithError(err).Warn("no media in lookup response")
		return nil, err
	}

	log = log.WithFields(map[string]interface{}{
		"shortcode": media.Shortcode,
		"kind":      string(media.Kind),
	})
	log.Debug("extracted media URL")

	data, err := f.client.Download(ctx, media.URL)
	if err != nil {
		log.WithError(err).Warn("media download failed")
		return nil, err
	}

	path, err := f.save(bytes.NewReader(data), media.Filename())
	if err != nil {
		log.WithError(err).Error("failed to save media")
		return nil, err
	}

	fields := map[string]interface{}{
		"path": path,
		"size": len(data),
	}
	if media.Owner != "" {
		fields["owner"] = media.Owner
	}
	if !media.TakenAt.IsZero() {
		fields["taken_at"] = media.TakenAt.Format(time.RFC3339)
	}
	log.InfoWithFields("media saved", fields)

	return &Result{Path: path, Media: media}, nil
}

func (f *MediaFetcher) save(r io.Reader, filename string) (string, error) {
	store, err := storage.NewManager(f.config.Output.BaseDirectory)
	if err != nil {
		return "", err
	}
	return store.Save(r, filename)
}

// Run performs Fetch and writes exactly one status line to w. The returned
// error is the one Fetch produced; it has already been reported on w.
func (f *MediaFetcher) Run(ctx context.Context, rawURL string, w io.Writer) error {
	result, err := f.Fetch(ctx, rawURL)
	fmt.Fprintln(w, StatusLine(result, err))
	return err
}

// StatusLine formats the outcome of a fetch
func StatusLine(result *Result, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(MsgDownloaded, result.Path)
	case errors.IsInvalidURL(err):
		return MsgInvalidURL
	default:
		return fmt.Sprintf(MsgDownloadError, err)
	}
}
