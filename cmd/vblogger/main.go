package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vblogger/vblogger/internal/config"
	"github.com/vblogger/vblogger/internal/logging"
	"github.com/vblogger/vblogger/internal/media"
	"github.com/vblogger/vblogger/internal/pipeline"
)

var (
	cfgFile string
	verbose bool
	watch   bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vblogger",
	Short: "vblogger - video blog creator",
	Long:  "Curates a folder of photos and videos into chronological segments and composes them into a video blog.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./vblogger.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	buildCmd.Flags().BoolVar(&watch, "watch", false, "rebuild when the input folder changes")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [input folder]",
	Short: "Curate media and compose the video blog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if len(args) == 1 {
			cfg.InputFolder = args[0]
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		out, err := pipe.Build(cmd.Context())
		if err != nil {
			return err
		}

		log.Info().Str("output", out).Msg("video created")

		if watch {
			return watchAndRebuild(cmd.Context(), cfg, pipe)
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [input folder]",
	Short: "Curate media and print the segments without rendering",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if len(args) == 1 {
			cfg.InputFolder = args[0]
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		segments, err := pipe.Curate(cmd.Context())
		if err != nil {
			return err
		}

		printSegments(segments)
		return nil
	},
}

func printSegments(segments []media.Segment) {
	total := 0
	for i, segment := range segments {
		fmt.Printf("--- Segment %d ---\n", i+1)
		for _, item := range segment {
			fmt.Printf("%s | %s | %s\n",
				item.Timestamp.Format("2006-01-02 15:04:05"),
				strings.ToUpper(string(item.Kind)),
				item.SourcePath)
			total++
		}
	}
	fmt.Printf("--- %d items in %d segments ---\n", total, len(segments))
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = "vblogger.yaml"
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		cfg := config.FromContext(cmd.Context())
		if err := cfg.Save(path); err != nil {
			return err
		}

		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// watchAndRebuild re-runs the build whenever the input folder changes.
func watchAndRebuild(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline) error {
	logger := logging.WithComponent("watcher")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(cfg.InputFolder); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.InputFolder, err)
	}

	entries, err := os.ReadDir(cfg.InputFolder)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
				_ = w.Add(filepath.Join(cfg.InputFolder, entry.Name()))
			}
		}
	}

	logger.Info().Str("folder", cfg.InputFolder).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Info().Str("event", event.String()).Msg("input changed, rebuilding")
				out, err := pipe.Build(ctx)
				if err != nil {
					logger.Error().Err(err).Msg("rebuild failed")
					continue
				}
				logger.Info().Str("output", out).Msg("video recreated")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch error")
		}
	}
}
