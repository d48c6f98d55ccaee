package driveid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when a sharing URL does not contain a file
// identifier in the expected /d/<id> form.
var ErrInvalidURL = errors.New("could not extract a file ID from the URL")

// filePattern matches the /d/<id> path segment used by Drive sharing links,
// e.g. https://drive.google.com/file/d/1ABCdef23/view
var filePattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// idPattern matches a bare file identifier.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ExtractFileID extracts the Drive file identifier from a sharing URL.
// It returns the first /d/<id> path segment match, or ErrInvalidURL when
// the URL carries no identifier.
func ExtractFileID(url string) (string, error) {
	m := filePattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return m[1], nil
}

// ResolveFileID accepts either a sharing URL or a bare file identifier and
// returns the identifier. URLs take precedence so that an ID-shaped URL
// fragment is never mistaken for an identifier.
func ResolveFileID(s string) (string, error) {
	if id, err := ExtractFileID(s); err == nil {
		return id, nil
	}
	if !strings.Contains(s, "/") && idPattern.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidURL, s)
}

// DirectDownloadURL builds the uc?export=download URL for a file identifier.
// Drive serves file bytes from this endpoint once any confirmation
// interstitial has been satisfied.
func DirectDownloadURL(fileID string) string {
	return "https://drive.google.com/uc?id=" + fileID + "&export=download"
}
