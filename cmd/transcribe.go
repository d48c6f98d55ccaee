package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
)

func newTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe [url-or-path...]",
		Short: "Transcribe downloaded recordings",
		Long: `Transcribe recordings that are already on disk. Arguments may be sharing
URLs of recordings downloaded earlier, or paths to local video files.
Without arguments every known video that still lacks a transcript is
processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, nil, nil)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				videos := a.store.Videos()
				if len(videos) == 0 {
					return fmt.Errorf("no downloaded videos found in metadata")
				}
				var failed int
				for _, video := range videos {
					if err := a.pipeline.ProcessVideo(ctx, video, pipeline.ModeTranscribe); err != nil {
						failed++
						a.logger.Error("transcription failed", "path", video, "error", err)
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d videos failed", failed, len(videos))
				}
				return nil
			}

			for _, arg := range args {
				// A local file is transcribed directly, anything else is
				// treated as a sharing URL.
				if _, statErr := os.Stat(arg); statErr == nil {
					err = a.pipeline.ProcessVideo(ctx, arg, pipeline.ModeTranscribe)
				} else {
					err = a.pipeline.ProcessURL(ctx, arg, pipeline.ModeTranscribe)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
