package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
)

func newDownloadCmd() *cobra.Command {
	var (
		urlFile   string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "download [url...]",
		Short: "Download recordings without transcribing or summarizing them",
		Long: `Fetch view-only recordings to the local video directory. Each URL is tried
with yt-dlp first, then the direct download link with confirm-token
negotiation, then the Drive API. Already-downloaded recordings are skipped.`,
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
			if outputDir != "" {
				cfg.VideoDir = outputDir
			}

			a, err := newApp(cfg, nil, nil)
			if err != nil {
				return err
			}

			urls, err := collectURLs(args, cfg.URLFile)
			if err != nil {
				return err
			}
			return a.pipeline.Run(ctx, urls, pipeline.ModeDownload)
		},
	}

	cmd.Flags().StringVar(&urlFile, "urls", "", "File containing sharing URLs, one per line (default from DOWNMEETS_URL_FILE)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for downloaded videos (default from DOWNMEETS_VIDEO_DIR)")
	return cmd
}
