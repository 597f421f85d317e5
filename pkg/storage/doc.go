// Package storage saves downloaded media to the output directory.
//
// Writes go to a uniquely named temporary file that is renamed over the
// target, so an interrupted download never leaves a truncated <shortcode>.jpg
// behind. A repeat download of the same item silently replaces the file.
//
// Usage:
//
//	manager, err := storage.NewManager(".")
//	if err != nil {
//	    return err
//	}
//	path, err := manager.Save(bytes.NewReader(data), "XYZ.jpg")
package storage
