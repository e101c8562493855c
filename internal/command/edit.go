package command

import (
	"fmt"
	"os"

	"github.com/bornholm/effortcalc/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit an estimation interactively",
	Long:  `Open an interactive terminal UI to edit an estimation file. The file is created if it does not exist.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if _, err := os.Stat(file); os.IsNotExist(err) {
			state, err := config.NewEstimationState("", "")
			if err != nil {
				return fmt.Errorf("failed to create estimation: %w", err)
			}
			if err := s.SaveState(file, state); err != nil {
				return fmt.Errorf("failed to create estimation: %w", err)
			}
			fmt.Printf("Created new estimation file: %s\n", file)
		}

		// The terminal UI owns the screen, logs are discarded
		sess, err := loadSession(file, config, zap.NewNop())
		if err != nil {
			return err
		}

		app := ui.NewApp(s, sess, config, file)
		if err := app.Run(); err != nil {
			return fmt.Errorf("failed to run UI: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
