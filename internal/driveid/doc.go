// Package driveid extracts Google Drive file identifiers from sharing URLs.
//
// A Drive sharing link names its file in a /d/<id> path segment. The
// identifier is the stable handle the rest of the pipeline keys on: download
// strategies, metadata entries and output filenames all derive from it.
// Extraction is a pure string operation with no network access.
package driveid
