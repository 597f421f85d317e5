package instagram

import (
	"fmt"
	"time"

	"igfetch/pkg/errors"
)

// MediaKind distinguishes images from videos
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Extension returns the file extension used when saving media of this kind
func (k MediaKind) Extension() string {
	if k == MediaKindVideo {
		return "mp4"
	}
	return "jpg"
}

// Media is the downloadable item described by a lookup response
type Media struct {
	Shortcode string
	URL       string
	Kind      MediaKind

	// Best effort metadata, empty when the response omits it
	Owner   string
	TakenAt time.Time
}

// Filename returns <shortcode>.<ext>
func (m *Media) Filename() string {
	return fmt.Sprintf("%s.%s", m.Shortcode, m.Kind.Extension())
}

// ExtractMedia finds the media URL in a decoded lookup response. The path
// graphql.shortcode_media must exist; display_url is preferred over video_url
// when both are present.
func ExtractMedia(payload map[string]interface{}) (*Media, error) {
	graphql, ok := payload["graphql"].(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrorTypeMissingMediaFields, "response has no graphql object")
	}

	item, ok := graphql["shortcode_media"].(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrorTypeMissingMediaFields, "response has no graphql.shortcode_media object")
	}

	media := &Media{}
	switch {
	case hasKey(item, "display_url"):
		media.Kind = MediaKindImage
		url, err := stringField(item, "display_url")
		if err != nil {
			return nil, err
		}
		media.URL = url
	case hasKey(item, "video_url"):
		media.Kind = MediaKindVideo
		url, err := stringField(item, "video_url")
		if err != nil {
			return nil, err
		}
		media.URL = url
	default:
		return nil, errors.New(errors.ErrorTypeMissingMediaFields, "shortcode_media has neither display_url nor video_url")
	}

	shortcode, err := stringField(item, "shortcode")
	if err != nil {
		return nil, err
	}
	media.Shortcode = shortcode

	if owner, ok := item["owner"].(map[string]interface{}); ok {
		media.Owner, _ = owner["username"].(string)
	}
	if ts, ok := item["taken_at_timestamp"].(float64); ok && ts > 0 {
		media.TakenAt = time.Unix(int64(ts), 0).UTC()
	}

	return media, nil
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

// stringField returns a required, non-empty string field of m
func stringField(m map[string]interface{}, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", errors.New(errors.ErrorTypeMalformedResponse, fmt.Sprintf("shortcode_media has no %s", key))
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New(errors.ErrorTypeMalformedResponse, fmt.Sprintf("shortcode_media.%s is not a non-empty string", key))
	}
	return s, nil
}
