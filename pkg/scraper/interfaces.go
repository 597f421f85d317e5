package scraper

import (
	"context"

	"igfetch/pkg/instagram"
)

// InstagramClient defines the two requests a fetch makes
type InstagramClient interface {
	Lookup(ctx context.Context, m *instagram.MediaURL) (map[string]interface{}, error)
	Download(ctx context.Context, mediaURL string) ([]byte, error)
}
