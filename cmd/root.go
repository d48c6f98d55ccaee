package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the downmeets application
var rootCmd = &cobra.Command{
	Use:   "downmeets",
	Short: "Download, transcribe and summarize Google Meet recordings",
	Long: `downmeets fetches view-only Google Meet recordings shared via Google Drive,
extracts and transcribes their audio with the OpenAI API and generates a
structured meeting summary.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "downmeets version %s\n" .Version}}`)

	// If no subcommand is provided, run the full pipeline by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
