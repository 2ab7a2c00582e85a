package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-learner/internal"
	"github.com/rocketscienceinc/tictactoe-learner/internal/config"
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
)

type rootFlags struct {
	configPath string
	rows       int
	cols       int
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "N-in-a-row bot that learns by playing",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "./config.yml", "path to config file")
	rootCmd.PersistentFlags().IntVar(&flags.rows, "rows", 0, "board rows (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flags.cols, "cols", 0, "board columns (overrides config)")

	rootCmd.AddCommand(newTrainCommand(flags))
	rootCmd.AddCommand(newPlayCommand(flags))

	return rootCmd
}

func newTrainCommand(flags *rootFlags) *cobra.Command {
	var games int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train both bots against each other and save their memories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := initConfig(flags)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("games") {
				conf.Training.Games = games
			}

			if err = conf.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.RunTrain(ctx, initLogger(conf), conf)
		},
	}

	cmd.Flags().IntVar(&games, "games", 0, "number of games to play (overrides config)")

	return cmd
}

func newPlayCommand(flags *rootFlags) *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game against the trained bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			human, err := entity.ParsePlayer(side)
			if err != nil {
				return fmt.Errorf("invalid --as value %q: %w", side, err)
			}

			conf, err := initConfig(flags)
			if err != nil {
				return err
			}

			if err = conf.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.RunPlay(ctx, initLogger(conf), conf, human, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&side, "as", "x", "side the human plays: x or o")

	return cmd
}

// initialize config.
func initConfig(flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}

		path = filepath.Join(baseDir, path)
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.rows > 0 {
		conf.Board.Rows = flags.rows
	}

	if flags.cols > 0 {
		conf.Board.Cols = flags.cols
	}

	return conf, nil
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
