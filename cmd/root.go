package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/witanlabs/xlsxwriter/config"
	"github.com/witanlabs/xlsxwriter/xlsx"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	author  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "xlsxwriter",
	Short:         "Write xlsx workbooks from tabular data",
	Version:       Version,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&author, "author", "", "Document author (env: XLSXWRITER_AUTHOR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

// resolveAuthor picks the author from the flag, the environment, the config
// file, then the library default.
func resolveAuthor(cfg config.Config) string {
	if author != "" {
		return author
	}
	if v := os.Getenv("XLSXWRITER_AUTHOR"); v != "" {
		return v
	}
	if cfg.Author != "" {
		return cfg.Author
	}
	return xlsx.DefaultAuthor
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Execute() error {
	return rootCmd.Execute()
}
