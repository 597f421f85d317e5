// Package instagram classifies Instagram media links and talks to the
// ?__a=1 lookup endpoint.
//
// This package includes:
//   - ParseURL and Classify, which recognize reel, story, IG TV and post links
//   - LookupURL, which rebuilds the JSON lookup URL for a classified link
//   - ExtractMedia, which pulls the direct media URL out of a lookup response
//   - Client, a small HTTP client for the lookup and media requests
//
// Example usage:
//
//	m, err := instagram.ParseURL("https://www.instagram.com/reel/ABC123/")
//	if err != nil {
//	    // not a media link
//	}
//
//	client := instagram.NewClient(30*time.Second, nil)
//	payload, err := client.Lookup(ctx, m)
//	if err != nil {
//	    return err
//	}
//
//	media, err := instagram.ExtractMedia(payload)
//	if err != nil {
//	    return err
//	}
//	data, err := client.Download(ctx, media.URL)
package instagram
