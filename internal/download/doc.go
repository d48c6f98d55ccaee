// Package download materializes view-only Drive recordings as local files.
//
// Drive blocks direct downloads of view-only media, and no single workaround
// holds up across all observed cases. The Resolver therefore runs an ordered
// cascade of independent strategies, stopping at the first that produces a
// non-empty file:
//
//  1. yt-dlp, the general-purpose media extractor (defeats client-side
//     JS blocking through its own page inspection)
//  2. a direct uc?export=download fetch over a cookie-preserving session,
//     handling the confirmation-token interstitial and scanning viewer pages
//     for embedded googleusercontent media URLs
//  3. the Drive v3 API's files.get media endpoint with fuzzy identifier
//     resolution
//
// A strategy failure is always soft: it is logged and the next strategy runs.
// Only exhausting the cascade yields ErrDownloadFailed.
package download
