package command

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Manage the effortcalc configuration file.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a default configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := getStore()

		configPath := configFile
		if configPath == "" {
			configPath = store.DefaultConfigFile
		}
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("configuration file already exists at %s, use --force to overwrite", configPath)
			}
		}

		if err := s.SaveConfig(model.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Configuration file created at %s\n", configPath)
		return nil
	},
}

// configViewCmd represents the config view command
var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View current configuration",
	Long:  `Display the current configuration settings, including environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getStore().LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")

		switch format {
		case "json":
			data, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config to JSON: %w", err)
			}
			fmt.Println(string(data))
		case "yaml":
			data, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("failed to marshal config to YAML: %w", err)
			}
			fmt.Print(string(data))
		default:
			fmt.Printf("Default Technology: %s\n", config.DefaultTechnology)
			fmt.Printf("Default Project Type: %s\n", config.DefaultProjectType)
			fmt.Println("Phase Breakdown:")
			breakdown := config.GetPhaseBreakdown()
			for _, phase := range model.Phases() {
				fmt.Printf("  %s: %d%%\n", phase, breakdown[phase])
			}
			if warning := breakdown.Check(); warning != nil {
				fmt.Printf("  Warning: %v\n", warning)
			}
			fmt.Printf("\nTime Unit: %s (%s)\n", config.TimeUnit.Label, config.TimeUnit.Acronym)
			fmt.Printf("Round Up Estimations: %v\n", config.RoundUpEstimations)
			fmt.Printf("Logging: %s (%s)\n", config.Logging.Level, config.Logging.Format)
		}

		return nil
	},
}

// configPhasesCmd represents the config phases command
var configPhasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Phase breakdown commands",
	Long:  `Manage the percentage of effort allocated to each lifecycle phase.`,
}

// configPhasesSetCmd represents the config phases set command
var configPhasesSetCmd = &cobra.Command{
	Use:   "set <phase> <percent>",
	Short: "Set the percentage of a phase",
	Long: `Set the percentage of a lifecycle phase (Discovery, Design, Develop, Test, Deploy).

The percentages should add up to 100. An imbalanced breakdown is saved with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, err := model.ParsePhase(args[0])
		if err != nil {
			return err
		}
		percent, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid percentage: %w", err)
		}

		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		breakdown := config.GetPhaseBreakdown()
		if err := breakdown.Set(phase, percent); err != nil {
			return err
		}
		config.PhaseBreakdown = breakdown

		if err := s.SaveConfig(config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Phase %s set to %d%%\n", phase, percent)
		if warning := breakdown.Check(); warning != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v. Please ensure it adds up to 100%%.\n", warning)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPhasesCmd)
	configPhasesCmd.AddCommand(configPhasesSetCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Force overwrite existing configuration")
	configViewCmd.Flags().StringP("format", "f", "text", "Output format (text, yaml, json)")
}
