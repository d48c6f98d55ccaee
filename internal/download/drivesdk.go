package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/imdouglasoliveira/DownMeets/internal/driveid"
	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// DriveAPIStrategy downloads through the Drive v3 API's files.get media
// endpoint. Identifier resolution is fuzzy: it accepts either a bare file ID
// or any sharing URL. Access is anonymous; an optional API key only lifts
// unauthenticated quota limits.
type DriveAPIStrategy struct {
	apiKey string
	logger *slog.Logger

	// newService is swappable for tests.
	newService func(ctx context.Context) (*drive.Service, error)
}

// NewDriveAPIStrategy builds the strategy. apiKey may be empty.
func NewDriveAPIStrategy(apiKey string, logger *slog.Logger) *DriveAPIStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DriveAPIStrategy{
		apiKey: apiKey,
		logger: logger,
	}
	s.newService = s.defaultService
	return s
}

// Name implements Strategy.
func (s *DriveAPIStrategy) Name() string { return "drive-api" }

// Fetch implements Strategy.
func (s *DriveAPIStrategy) Fetch(ctx context.Context, url, dest string) error {
	fileID, err := driveid.ResolveFileID(url)
	if err != nil {
		return err
	}

	svc, err := s.newService(ctx)
	if err != nil {
		return fmt.Errorf("create Drive service: %w", err)
	}

	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download file %s via Drive API: %w", fileID, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	s.logger.Debug("Drive API download complete", "bytes", written, logging.FileID(fileID))
	return nil
}

func (s *DriveAPIStrategy) defaultService(ctx context.Context) (*drive.Service, error) {
	var opts []option.ClientOption
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}
	return drive.NewService(ctx, opts...)
}
