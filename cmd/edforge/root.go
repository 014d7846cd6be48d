package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/CommanderRoot/ed-forge/internal/catalog"
	"github.com/CommanderRoot/ed-forge/internal/codec"
	"github.com/CommanderRoot/ed-forge/internal/config"
	"github.com/CommanderRoot/ed-forge/internal/logging"
	"github.com/CommanderRoot/ed-forge/internal/service"
)

var (
	// configFlag is the CLI --config flag value
	configFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string

	app *appContext
)

// appContext holds everything a command needs once configuration is loaded
type appContext struct {
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	catalog    *catalog.Catalog
	builds     *service.BuildService
	events     chan service.Event
}

var rootCmd = &cobra.Command{
	Use:   "edforge",
	Short: "ed-forge - Elite Dangerous ship loadout tool",
	Long: `ed-forge reads, edits and writes Elite Dangerous ship builds.

Builds are exchanged as compact build codes, JSON or YAML documents, or
journal Loadout events.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: drainEvents,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Config file (default: $EDFORGE_CONFIG, ./edforge.yaml or ~/.config/edforge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn or error (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configFlag != "" {
		cfg, path, err = config.LoadFromPath(configFlag)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Log.Prefix == "" {
		cfg.Log.Prefix = "edforge"
	}

	logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	if err := codec.SetCompressionLevel(cfg.Codec.CompressionLevel); err != nil {
		return err
	}

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		if cat, err = catalog.Load(cfg.Catalog.Path); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		logger.Debug("catalog override loaded", "path", cfg.Catalog.Path)
	}

	bus := service.NewEventBus()
	events := make(chan service.Event, 32)
	bus.Subscribe(events)

	builds := service.NewBuildService(codec.NewRegistry(), cat, logger, bus)
	builds.SetDistributor(cfg.Distributor.Sys, cfg.Distributor.Eng, cfg.Distributor.Wep)

	app = &appContext{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		catalog:    cat,
		builds:     builds,
		events:     events,
	}
	logger.Debug("configuration loaded", "path", path, "command", cmd.Name())
	return nil
}

// drainEvents logs the events published while the command ran
func drainEvents(cmd *cobra.Command, args []string) {
	if app == nil {
		return
	}
	for {
		select {
		case e := <-app.events:
			app.logger.Debug("event", "type", e.Type, "payload", e.Payload)
		default:
			return
		}
	}
}
