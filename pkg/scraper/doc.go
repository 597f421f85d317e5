// Package scraper fetches a single Instagram media item and saves it to disk.
//
// MediaFetcher runs the whole pipeline for one URL:
//
//	classify URL -> build lookup URL -> GET + decode JSON ->
//	extract media URL -> GET media -> write <shortcode>.<ext>
//
// There is no retry and no state between runs; a repeated fetch overwrites the
// previous file.
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	fetcher, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Prints exactly one status line to os.Stdout
//	fetcher.Run(ctx, "https://www.instagram.com/p/XYZ/", os.Stdout)
//
// Status lines:
//
//	Downloaded: <filename>
//	Error downloading media: <detail>
//	Invalid Instagram URL
//
// Use Fetch instead of Run to get the typed error and the saved path.
package scraper
