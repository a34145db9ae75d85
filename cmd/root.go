// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"dcytdl/internal/config"
	"dcytdl/internal/discogs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig     string
	flagNoDownload bool
	flagJSON       bool
	flagOutput     string
	flagFormat     string
	flagAudio      string
	flagRenderer   string
	flagPick       bool
	flagDebug      bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dcytdl <release-url>",
	Short: "Download the YouTube videos linked from a Discogs release",
	Long: `dcytdl renders a Discogs release page, extracts the videos linked from it
and downloads them with yt-dlp.`,
	Version:           Version,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              releaseRun,
	SilenceUsage:      true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// The root pre-run loads config, which version does not need.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "C", "", "Path to config file (default: ./config.toml, ./config.yml, ~/.config/dcytdl/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.Flags().BoolVarP(&flagNoDownload, "no-download", "n", false, "Only list the videos, don't download them")
	rootCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the video list as JSON")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Download directory")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "yt-dlp format selector")
	rootCmd.Flags().StringVarP(&flagAudio, "audio", "a", "", "Extract audio in this format (mp3 | flac | m4a | opus | wav)")
	rootCmd.Flags().StringVarP(&flagRenderer, "renderer", "r", "", "Page renderer: browser | http")
	rootCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Choose which videos to download with fzf")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagFormat != "" {
		cfg.YtDlp.Format = flagFormat
	}
	if flagAudio != "" {
		cfg.YtDlp.ExtractAudio = true
		cfg.YtDlp.AudioFormat = flagAudio
	}
	if flagRenderer != "" {
		cfg.Renderer = flagRenderer
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[dcytdl] ")
		discogs.SetLogOutput(os.Stderr)
	} else {
		log.SetFlags(0)
	}

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}
