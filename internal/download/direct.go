package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"regexp"
	"strings"

	"github.com/imdouglasoliveira/DownMeets/internal/driveid"
	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

const (
	// copyChunkSize is the buffer size used when streaming response bodies
	// to disk.
	copyChunkSize = 32 * 1024

	// maxScanBytes bounds how much of an HTML interstitial is read when
	// scanning for confirmation tokens and embedded media URLs. Viewer
	// pages are small; the limit guards against streaming a whole video
	// into memory if content-type sniffing goes wrong.
	maxScanBytes = 4 * 1024 * 1024
)

var (
	confirmPattern = regexp.MustCompile(`confirm=([0-9A-Za-z_-]+)`)
	mediaPattern   = regexp.MustCompile(`https://[^"'\s\\]*?googleusercontent\.com/[^"'&?\s\\]+`)
)

// browserHeaders emulates a browser so Drive serves the same responses a
// user would see.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Referer":         "https://drive.google.com/",
}

// DirectLinkStrategy downloads through Drive's uc?export=download endpoint
// over a cookie-preserving session. It handles the confirmation interstitial
// Drive raises for large or restricted files, and falls back to scanning a
// returned viewer page for embedded googleusercontent media URLs.
type DirectLinkStrategy struct {
	client  *http.Client
	logger  *slog.Logger
	baseURL string // overridable for tests
}

// NewDirectLinkStrategy builds the strategy with a fresh cookie jar.
func NewDirectLinkStrategy(logger *slog.Logger) *DirectLinkStrategy {
	jar, _ := cookiejar.New(nil)
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectLinkStrategy{
		client: &http.Client{Jar: jar},
		logger: logger,
	}
}

// Name implements Strategy.
func (s *DirectLinkStrategy) Name() string { return "direct-link" }

// Fetch implements Strategy.
func (s *DirectLinkStrategy) Fetch(ctx context.Context, url, dest string) error {
	fileID, err := driveid.ExtractFileID(url)
	if err != nil {
		return err
	}

	directURL := s.downloadURL(fileID)
	resp, err := s.get(ctx, directURL)
	if err != nil {
		return err
	}

	if !isHTML(resp) {
		defer resp.Body.Close()
		return s.stream(resp, dest)
	}

	// Drive answered with a page instead of bytes: either a confirmation
	// interstitial or the view-only player.
	body, err := readBounded(resp.Body, maxScanBytes)
	finalURL := resp.Request.URL.String()
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read interstitial page: %w", err)
	}

	if token := confirmToken(finalURL, body); token != "" {
		s.logger.Debug("confirmation token found", "token_len", len(token))
		resp, err = s.get(ctx, directURL+"&confirm="+token)
		if err != nil {
			return err
		}
		if !isHTML(resp) {
			defer resp.Body.Close()
			return s.stream(resp, dest)
		}
		body, err = readBounded(resp.Body, maxScanBytes)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read post-confirmation page: %w", err)
		}
	}

	mediaURL := findMediaURL(body)
	if mediaURL == "" {
		return fmt.Errorf("no direct media URL found in viewer page for file %s", fileID)
	}
	s.logger.Info("media URL found in viewer page", logging.KeyURL, mediaURL)

	resp, err = s.get(ctx, mediaURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return s.stream(resp, dest)
}

func (s *DirectLinkStrategy) downloadURL(fileID string) string {
	if s.baseURL != "" {
		return s.baseURL + "/uc?id=" + fileID + "&export=download"
	}
	return driveid.DirectDownloadURL(fileID)
}

func (s *DirectLinkStrategy) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp, nil
}

// stream copies the response body to dest in fixed-size chunks, logging
// progress against the declared content length when present.
func (s *DirectLinkStrategy) stream(resp *http.Response, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	total := resp.ContentLength
	var reportStep int64
	if total > 0 {
		reportStep = total / 10
	}
	var written int64
	var lastReport int64
	buf := make([]byte, copyChunkSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("write %s: %w", dest, writeErr)
			}
			written += int64(n)
			if reportStep > 0 && written-lastReport >= reportStep {
				lastReport = written
				s.logger.Info("download progress",
					"bytes", written,
					"total", total,
					"percent", written*100/total,
				)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read response body: %w", readErr)
		}
	}

	s.logger.Debug("download stream complete", "bytes", written, logging.Path(dest))
	return nil
}

func isHTML(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "text/html")
}

// confirmToken extracts Drive's one-time confirmation token, checking the
// final response URL first and the page body second.
func confirmToken(finalURL, body string) string {
	if m := confirmPattern.FindStringSubmatch(finalURL); m != nil {
		return m[1]
	}
	if m := confirmPattern.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

// findMediaURL scans a viewer page for embedded googleusercontent URLs and
// returns the first one that looks like media playback.
func findMediaURL(body string) string {
	for _, u := range mediaPattern.FindAllString(body, -1) {
		if strings.Contains(u, "videoplayback") || strings.Contains(u, "media") {
			return u
		}
	}
	return ""
}

func readBounded(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
