package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/imdouglasoliveira/DownMeets/internal/config"
	"github.com/imdouglasoliveira/DownMeets/internal/download"
	"github.com/imdouglasoliveira/DownMeets/internal/logging"
	"github.com/imdouglasoliveira/DownMeets/internal/media"
	"github.com/imdouglasoliveira/DownMeets/internal/openai"
	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
	"github.com/imdouglasoliveira/DownMeets/internal/transcribe"
)

// app bundles the wired pipeline and its collaborators for the CLI commands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *pipeline.Store
	pipeline *pipeline.Pipeline
}

// loadAppConfig loads the configuration from the environment and installs
// the configured logger. Commands apply flag overrides to the returned
// config before wiring the pipeline with newApp.
func loadAppConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// newApp wires the full pipeline from a loaded configuration. The recorders
// may be nil when no telemetry is configured.
func newApp(cfg config.Config, recorder pipeline.StageRecorder, attempts download.AttemptRecorder) (*app, error) {
	logger := slog.Default()

	if err := cfg.EnsureOutputDirs(); err != nil {
		return nil, err
	}

	store, err := pipeline.OpenStore(cfg.MetadataPath, logger)
	if err != nil {
		return nil, err
	}

	resolver := download.NewResolver(logger, attempts,
		download.NewYTDLPStrategy(cfg.YTDLPPath, logger),
		download.NewDirectLinkStrategy(logger),
		download.NewDriveAPIStrategy(cfg.DriveAPIKey, logger),
	)

	processor := media.NewProcessor(cfg.FFmpegPath, cfg.FFprobePath, logger)
	api := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TranscribeModel, cfg.SummaryModel)
	transcriber := transcribe.NewTranscriber(processor, api, cfg.MaxChunkMB, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		pipeline: pipeline.New(cfg, resolver, transcriber, api, store, logger, recorder),
	}, nil
}

// urlFileHeader seeds a newly created URL file so users know its format.
const urlFileHeader = "# One Google Drive sharing URL per line.\n" +
	"# Lines starting with '#' are ignored.\n"

// readURLs reads sharing URLs from a file, one per line. Blank lines and
// lines starting with '#' are skipped. A missing file is created with a
// header comment so the next run has something to fill in.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte(urlFileHeader), 0o644); werr != nil {
			return nil, fmt.Errorf("create URL file: %w", werr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}

// collectURLs resolves the inputs for a command: explicit arguments win,
// otherwise URLs come from the configured file.
func collectURLs(args []string, urlFile string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	urls, err := readURLs(urlFile)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs found in %s", urlFile)
	}
	return urls, nil
}
