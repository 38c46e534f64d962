package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/taskflow/internal/api"
	"github.com/tgienger/taskflow/internal/config"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/logger"
	"github.com/tgienger/taskflow/internal/server"
	"github.com/tgienger/taskflow/internal/setup"
	"github.com/tgienger/taskflow/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	loadConfig := func() (*config.Config, error) {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return config.Default()
			}
			path = p
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:          "taskflow",
		Short:        "taskflow - team task tracker",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/taskflow/config.yaml)")

	var seed bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Server.Seed = seed
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, cmd.OutOrStdout())
		},
	}
	serveCmd.Flags().BoolVar(&seed, "seed", false, "insert demo data into an empty database")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			return runInit(path, force, cmd.OutOrStdout())
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	setupCmd := &cobra.Command{
		Use:   "setup-paths [settings.json]",
		Short: "Rewrite relative hook commands in an agent settings file to absolute paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath := ".claude/settings.json"
			if len(args) == 1 {
				settingsPath = args[0]
			}
			res, err := setup.RewritePaths(settingsPath, logger.New("taskflow", "warn", cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated %s\n", settingsPath)
			fmt.Fprintf(out, "  CLAUDE_PROJECT_ROOT: %s\n", res.ProjectRoot)
			fmt.Fprintf(out, "  Hook commands rewritten: %d\n", res.Rewritten)
			fmt.Fprintf(out, "  Hook scripts made executable: %d\n", res.MadeExecutable)
			return nil
		},
	}

	root.AddCommand(serveCmd, initCmd, setupCmd)
	return root
}

func runTUI(cfg *config.Config) error {
	log, closer, err := logger.NewFile("taskflow", cfg.LogLevel, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	app := ui.NewApp(client, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	log.WithField("api", cfg.API.BaseURL).Info("starting tui")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.New("taskflow-api", cfg.LogLevel, out)

	database, err := db.New(ctx, cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.Server.Seed {
		seeded, err := database.Seed(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		log.WithField("seeded", seeded).Info("seed checked")
	}

	log.WithField("db_path", cfg.Server.DBPath).Info("database ready")
	return server.New(database, log).ListenAndServe(ctx, cfg.Server.Address)
}

func runInit(path string, force bool, out io.Writer) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config already exists: %s\n", path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg, err := config.Default()
	if err != nil {
		return err
	}
	if err := config.Write(path, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(out, "Created config: %s\n", path)
	return nil
}
