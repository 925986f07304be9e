// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fiado/internal/config"
	"fiado/internal/conversation"
	"fiado/internal/events"
	"fiado/internal/export"
	"fiado/internal/store"
	filestore "fiado/internal/store/file"
	"fiado/internal/store/memory"
	"fiado/internal/store/postgres"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Ledger is the configured store, opened before any command runs
	Ledger store.LedgerStore

	// Publisher emits transaction events when events are enabled
	Publisher events.Publisher = events.Noop{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fiado",
		Short: "A CLI tool to track informal loans and payments through conversation.",
		Long: `fiado tracks the money you lend to friends and family.
Transactions are entered in plain Portuguese through the chat command and
extracted into structured records by a generative AI backend.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fiado!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			var err error
			Cfg, err = config.InitializeConfig()
			if err != nil {
				return err
			}
			Log = config.ConfigureLoggingFromConfig(Cfg)

			// Propagate the configured logger to all packages
			filestore.SetLogger(Log)
			export.SetLogger(Log)
			conversation.SetLogger(Log)

			if Ledger, err = openStore(Cfg); err != nil {
				return err
			}
			if Cfg.Events.Enabled {
				Publisher = events.NewKafkaPublisher(Cfg.Events.Brokers, Cfg.Events.Topic)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closer, ok := Ledger.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					Log.Warnf("Failed to close store: %v", err)
				}
			}
			if err := Publisher.Close(); err != nil {
				Log.Warnf("Failed to close event publisher: %v", err)
			}
		},
	}
)

// openStore creates the LedgerStore named by store.backend.
func openStore(cfg *config.Config) (store.LedgerStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		Log.Debug("Using in-memory store; data will not persist")
		return memory.New(), nil
	case config.BackendPostgres:
		return postgres.Open(cfg.Store.DSN)
	default:
		return filestore.Open(cfg.Store.Path)
	}
}

// FindPersonByName resolves a person by exact name.
func FindPersonByName(cmd *cobra.Command, name string) (string, error) {
	people, err := Ledger.ListPeople(cmd.Context())
	if err != nil {
		return "", err
	}
	for _, p := range people {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("nenhuma pessoa chamada %q cadastrada", name)
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().String("store", "", "Store backend: memory, file or postgres")
	Cmd.PersistentFlags().String("ledger-file", "", "Path of the YAML ledger (file backend)")
	cobra.OnInitialize(func() {
		if v, _ := Cmd.PersistentFlags().GetString("store"); v != "" {
			os.Setenv("FIADO_STORE_BACKEND", v)
		}
		if v, _ := Cmd.PersistentFlags().GetString("ledger-file"); v != "" {
			os.Setenv("FIADO_STORE_PATH", v)
		}
	})
}
