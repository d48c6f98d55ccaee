package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	var (
		urlFile string
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [url...]",
		Short: "Run the full pipeline: download, transcribe and summarize",
		Long: `Process meeting recordings end to end. For every URL the recording is
downloaded, its audio transcribed and a structured summary generated.
Outputs that already exist are skipped, so interrupted runs can be resumed.

URLs are taken from the command line, or from the URL file when no
arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			if urlFile != "" {
				cfg.URLFile = urlFile
			}
			if cmd.Flags().Changed("delay") {
				cfg.ItemDelay = delay
			}

			a, err := newApp(cfg, nil, nil)
			if err != nil {
				return err
			}

			urls, err := collectURLs(args, cfg.URLFile)
			if err != nil {
				return err
			}
			return a.pipeline.Run(ctx, urls, pipeline.ModeAll)
		},
	}

	cmd.Flags().StringVar(&urlFile, "urls", "", "File containing sharing URLs, one per line (default from DOWNMEETS_URL_FILE)")
	cmd.Flags().DurationVar(&delay, "delay", 5*time.Minute, "Pause between items in a batch")
	return cmd
}
