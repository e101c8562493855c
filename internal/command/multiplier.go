package command

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/spf13/cobra"
)

// multiplierCmd represents the multiplier command
var multiplierCmd = &cobra.Command{
	Use:   "multiplier",
	Short: "Effort multiplier commands",
	Long:  `Manage the hours per unit of each effort key and size.`,
}

// multiplierListCmd represents the multiplier list command
var multiplierListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List effort multipliers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatType, _ := cmd.Flags().GetString("format")

		sess, config, err := openSession(args[0])
		if err != nil {
			return err
		}

		state := sess.State()

		switch formatType {
		case "json":
			data, err := json.MarshalIndent(state.Multipliers, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal multipliers to JSON: %w", err)
			}
			fmt.Println(string(data))
		default:
			fmt.Printf("Effort multipliers (%s per unit) for %s project on %s:\n", config.TimeUnit.Label, state.ProjectType, state.Technology)
			for _, key := range model.EffortKeys() {
				m := state.Multipliers.Get(key)
				fmt.Printf("  %-22s S: %6.2f  M: %6.2f  L: %6.2f\n", key, m.Small, m.Medium, m.Large)
			}
		}

		return nil
	},
}

// multiplierSetCmd represents the multiplier set command
var multiplierSetCmd = &cobra.Command{
	Use:   "set <file> <effort-key> <size> <hours>",
	Short: "Set an effort multiplier",
	Long:  `Set the hours per unit of an effort key for one size (S, M or L).`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		key, err := model.ParseEffortKey(args[1])
		if err != nil {
			return err
		}
		size, err := model.ParseSize(args[2])
		if err != nil {
			return err
		}
		hours, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid hours: %w", err)
		}

		sess, _, err := openSession(file)
		if err != nil {
			return err
		}

		if err := sess.SetMultiplier(key, size, hours); err != nil {
			return err
		}

		if err := saveSession(file, sess); err != nil {
			return err
		}

		fmt.Printf("Multiplier %s/%s set to %.2f\n", key, size, hours)
		return nil
	},
}

// multiplierDefaultsCmd represents the multiplier defaults command
var multiplierDefaultsCmd = &cobra.Command{
	Use:   "defaults <file>",
	Short: "Apply a default profile",
	Long: `Switch the estimation to a technology and project type and overlay their default multipliers.

Keys the profile does not define keep their current values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		sess, _, err := openSession(file)
		if err != nil {
			return err
		}

		state := sess.State()
		projectType, technology := state.ProjectType, state.Technology

		if value, _ := cmd.Flags().GetString("project-type"); value != "" {
			if projectType, err = model.ParseProjectType(value); err != nil {
				return err
			}
		}
		if value, _ := cmd.Flags().GetString("technology"); value != "" {
			if technology, err = model.ParseTechnology(value); err != nil {
				return err
			}
		}

		if err := sess.SelectProfile(projectType, technology); err != nil {
			return err
		}

		if err := saveSession(file, sess); err != nil {
			return err
		}

		fmt.Printf("Applied %s/%s defaults to %s\n", projectType, technology, file)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(multiplierCmd)
	multiplierCmd.AddCommand(multiplierListCmd)
	multiplierCmd.AddCommand(multiplierSetCmd)
	multiplierCmd.AddCommand(multiplierDefaultsCmd)

	multiplierListCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	multiplierDefaultsCmd.Flags().StringP("technology", "t", "", "Target technology (default: current)")
	multiplierDefaultsCmd.Flags().StringP("project-type", "p", "", "Project type (default: current)")
}
