package instagram

import (
	"regexp"
	"strings"

	"igfetch/pkg/errors"
)

// Category is the kind of Instagram URL a media item was linked by
type Category int

const (
	CategoryUnrecognized Category = iota
	CategoryReel
	CategoryStory
	CategoryTVPost
	CategoryPost
)

// String returns the human readable category name
func (c Category) String() string {
	switch c {
	case CategoryReel:
		return "reel"
	case CategoryStory:
		return "story"
	case CategoryTVPost:
		return "tv"
	case CategoryPost:
		return "post"
	default:
		return "unrecognized"
	}
}

// PathSegment returns the URL path segment Instagram uses for the category
func (c Category) PathSegment() string {
	switch c {
	case CategoryReel:
		return "reel"
	case CategoryStory:
		return "stories"
	case CategoryTVPost:
		return "tv"
	case CategoryPost:
		return "p"
	default:
		return ""
	}
}

// MediaURL is a classified Instagram media link
type MediaURL struct {
	Category Category
	// ID is the shortcode for reels, posts and IG TV, and the numeric story
	// id for stories.
	ID string
	// Username is only set for stories.
	Username string
	Raw      string
}

// LookupURL returns the ?__a=1 JSON lookup URL for the media item
func (m *MediaURL) LookupURL() string {
	return LookupURL(m.Category, m.ID)
}

const (
	hostPattern = `^(?i:(?:https?://)?(?:www\.|m\.)?instagram\.com/)`
	// A match must end at a path, query or fragment boundary.
	endPattern = `(?:/|[?#]|$)`
)

type urlPattern struct {
	category Category
	re       *regexp.Regexp
}

// Checked in order; the first match wins.
var urlPatterns = []urlPattern{
	{CategoryReel, regexp.MustCompile(hostPattern + `reels?/([A-Za-z0-9_-]+)` + endPattern)},
	{CategoryStory, regexp.MustCompile(hostPattern + `stories/([^/?#]+)/([0-9]+)` + endPattern)},
	{CategoryTVPost, regexp.MustCompile(hostPattern + `tv/([A-Za-z0-9_-]+)` + endPattern)},
	{CategoryPost, regexp.MustCompile(hostPattern + `p/([A-Za-z0-9_-]+)` + endPattern)},
}

// Classify returns the category of raw, or CategoryUnrecognized
func Classify(raw string) Category {
	m, err := ParseURL(raw)
	if err != nil {
		return CategoryUnrecognized
	}
	return m.Category
}

// ParseURL classifies raw and extracts the media id from its path. It returns
// an unrecognized_url error when raw is not a reel, story, IG TV or post link.
func ParseURL(raw string) (*MediaURL, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(strings.ToLower(trimmed), "instagram.com") {
		return nil, errors.New(errors.ErrorTypeUnrecognizedURL, "not an instagram.com url")
	}

	for _, p := range urlPatterns {
		match := p.re.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}

		m := &MediaURL{Category: p.category, Raw: trimmed}
		if p.category == CategoryStory {
			m.Username = match[1]
			m.ID = match[2]
		} else {
			m.ID = match[1]
		}
		return m, nil
	}

	return nil, errors.New(errors.ErrorTypeUnrecognizedURL, "no reel, story, tv or post path in url")
}
