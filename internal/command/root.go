package command

import (
	"fmt"
	"os"

	"github.com/bornholm/effortcalc/internal/logging"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/bornholm/effortcalc/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "effortcalc",
	Short: "An effort estimation calculator for data platform delivery projects",
	Long: `Effortcalc estimates the delivery effort of data platform projects.

It allows you to:
- Start an estimation from the default multipliers of a technology and project type
- Size every process input with a count of work items and a S/M/L split
- Tune the hours per unit of each effort key
- View most likely, optimistic, pessimistic and PERT estimates per process
- Allocate the estimates across lifecycle phases
- Import and export estimations as JSON documents

Use "effortcalc [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file path (default: "+store.DefaultConfigFile+" in the current or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (console, json)")
}

// getStore creates a new YAML store with the configured file
func getStore() *store.YAMLStore {
	return store.NewYAMLStore(configFile)
}

// getLogger creates the logger from the configuration and the command line overrides
func getLogger(config *model.Config) (*zap.Logger, error) {
	logger, err := logging.New(config.Logging, logLevel, logFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// openSession loads the configuration and the document at file into a new session
func openSession(file string) (*session.Session, *model.Config, error) {
	config, err := getStore().LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := getLogger(config)
	if err != nil {
		return nil, nil, err
	}

	sess, err := loadSession(file, config, logger)
	if err != nil {
		return nil, nil, err
	}

	return sess, config, nil
}

// loadSession merges the document at file onto a state started from config
func loadSession(file string, config *model.Config, logger *zap.Logger) (*session.Session, error) {
	base, err := config.NewEstimationState("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize estimation: %w", err)
	}

	state, err := getStore().LoadState(file, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load estimation: %w", err)
	}

	sess := session.New(state, logger)
	logger.Debug("estimation loaded",
		zap.String("op", "command.loadSession"),
		zap.String("session", sess.ID()),
		zap.String("file", file),
	)

	return sess, nil
}

// saveSession writes the session state back to file
func saveSession(file string, sess *session.Session) error {
	if err := getStore().SaveState(file, sess.State()); err != nil {
		return fmt.Errorf("failed to save estimation: %w", err)
	}
	sess.MarkSaved()
	return nil
}
