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

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [url-or-path...]",
		Short: "Generate structured summaries from existing transcripts",
		Long: `Summarize transcripts that are already on disk. Arguments may be sharing
URLs of recordings transcribed earlier, or paths to local transcript files.
Without arguments every known transcript that still lacks a summary is
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
				transcripts := a.store.Transcripts()
				if len(transcripts) == 0 {
					return fmt.Errorf("no transcripts found in metadata")
				}
				var failed int
				for _, transcript := range transcripts {
					if err := a.pipeline.ProcessTranscript(ctx, transcript); err != nil {
						failed++
						a.logger.Error("summary failed", "path", transcript, "error", err)
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d transcripts failed", failed, len(transcripts))
				}
				return nil
			}

			for _, arg := range args {
				if _, statErr := os.Stat(arg); statErr == nil {
					err = a.pipeline.ProcessTranscript(ctx, arg)
				} else {
					err = a.pipeline.ProcessURL(ctx, arg, pipeline.ModeSummarize)
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
