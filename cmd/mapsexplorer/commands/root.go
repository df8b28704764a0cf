package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mapsexplorer/internal/config"
	"mapsexplorer/internal/eventbus"
	"mapsexplorer/internal/logging"
	"mapsexplorer/internal/search"
	"mapsexplorer/internal/ui/app"
)

var (
	configPath string
	endpoint   string
	logFile    string
	logLevel   string

	configSvc config.ConfigService
	cfg       *config.Config
)

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mapsexplorer",
		Short:        "Search for places and fly a map to them",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
		RunE: runExplorer,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "", "geocoding service base URL")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "log file for the interactive explorer")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")

	root.AddCommand(searchCmd(), configCmd())
	return root
}

func serviceFor() config.ConfigService {
	if configPath != "" {
		return config.NewConfigServiceAt(configPath)
	}
	return config.NewConfigService()
}

// loadConfig resolves the settings: defaults, then the file, then
// MAPSEXPLORER_* variables (a .env file in the working directory may
// supply them), then flags
func loadConfig() error {
	_ = godotenv.Load()

	configSvc = serviceFor()

	loaded, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if endpoint != "" {
		loaded.Search.BaseURL = endpoint
	}
	if logFile != "" {
		loaded.Log.File = logFile
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

func runExplorer(cmd *cobra.Command, args []string) error {
	fileLog, f, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer f.Close()
	log := fileLog.With().Str("session", uuid.NewString()).Logger()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := eventbus.New(log)
	defer bus.Close()
	stopLog := app.LogActivity(bus, log)
	defer stopLog()

	client := search.NewNominatimClient(cfg.Search, log)
	model := app.NewModel(app.Options{
		Context: ctx,
		Config:  cfg,
		Client:  client,
		Bus:     bus,
		Logger:  log,
	})

	log.Info().
		Str("endpoint", cfg.Search.BaseURL).
		Str("config", configSvc.Path()).
		Msg("starting explorer")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error().Err(err).Msg("program failed")
		return fmt.Errorf("run explorer: %w", err)
	}

	log.Info().Msg("explorer stopped")
	return nil
}
