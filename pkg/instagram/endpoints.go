package instagram

import (
	"fmt"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// LookupQuery asks Instagram for the JSON description of a page
	LookupQuery = "__a=1"
)

// LookupURL constructs the JSON lookup URL for a media item. The id is
// interpolated verbatim. It returns "" for CategoryUnrecognized.
func LookupURL(category Category, id string) string {
	segment := category.PathSegment()
	if segment == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/?%s", BaseURL, segment, id, LookupQuery)
}

// GetMediaPageURL returns the public page URL of a media item
func GetMediaPageURL(category Category, id string) string {
	segment := category.PathSegment()
	if segment == "" || id == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/", BaseURL, segment, id)
}
