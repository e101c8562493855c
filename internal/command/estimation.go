package command

import (
	"fmt"
	"os"

	"github.com/bornholm/effortcalc/internal/format"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Start a new estimation",
	Long:  `Create a new estimation document using the default multipliers of a technology and project type.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		if _, err := os.Stat(file); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("file '%s' already exists, use --force to overwrite", file)
			}
		}

		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		projectType, technology, err := profileFlags(cmd, config)
		if err != nil {
			return err
		}

		state, err := config.NewEstimationState(projectType, technology)
		if err != nil {
			return fmt.Errorf("failed to create estimation: %w", err)
		}

		if err := s.SaveState(file, state); err != nil {
			return fmt.Errorf("failed to create estimation: %w", err)
		}

		fmt.Printf("Created %s estimation on %s at %s\n", state.ProjectType, state.Technology, file)
		return nil
	},
}

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View an estimation",
	Long:  `View an estimation report in various formats (markdown, json, yaml).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		formatType, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		sess, config, err := openSession(file)
		if err != nil {
			return err
		}

		var result string

		switch formatType {
		case "json":
			result, err = format.NewJSONFormatter(config).Format(sess.State())
			if err != nil {
				return fmt.Errorf("failed to format estimation as JSON: %w", err)
			}
		case "yaml", "yml":
			result, err = format.NewYAMLFormatter(config).Format(sess.State())
			if err != nil {
				return fmt.Errorf("failed to format estimation as YAML: %w", err)
			}
		default:
			result = format.NewMarkdownFormatter(config).Format(sess.State())
		}

		return writeOutput(output, result)
	},
}

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Show estimation summary",
	Long:  `Show a quick summary of the estimation with PERT estimates and phase allocation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		sess, config, err := openSession(file)
		if err != nil {
			return err
		}

		state := sess.State()
		summary := sess.Summary()
		unit := config.TimeUnit.Acronym

		fmt.Printf("Technology: %s\n", state.Technology)
		fmt.Printf("Project type: %s\n", state.ProjectType)
		fmt.Println()

		fmt.Println("Estimated effort by process (M / O / P => PERT):")
		for _, row := range summary.Rows() {
			fmt.Printf("  %-20s %10.2f / %10.2f / %10.2f => %10.2f %s\n",
				row.Process, row.MostLikely, row.Optimistic, row.Pessimistic, row.PERT, unit)
		}
		fmt.Println()

		report, err := sess.PhaseReport()
		if err != nil {
			fmt.Printf("Phase allocation unavailable: %v\n", err)
		} else {
			fmt.Println("Phase allocation (total):")
			for _, phase := range model.Phases() {
				fmt.Printf("  %-10s %3d%% %10.2f %s\n", phase, state.Breakdown[phase], report.Total.Hours[phase], unit)
			}
			fmt.Printf("  %-10s      %10.2f %s\n", "Total", report.Total.TotalEffort, unit)
			if report.Warning != nil {
				fmt.Printf("\nWarning: %v\n", report.Warning)
			}
		}

		if len(summary.Invalid) > 0 {
			fmt.Println()
			fmt.Println("Excluded inputs:")
			for _, in := range summary.Invalid {
				fmt.Printf("  %s / %s: %v\n", in.Process, in.Input, in.Err)
			}
		}

		return nil
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <source> <target>",
	Short: "Import a document into an estimation",
	Long: `Merge the JSON document at <source> into the estimation at <target>.

Keys missing from the source document keep the values of the target.
The target is left untouched if the source cannot be imported.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target := args[0], args[1]

		sess, _, err := openSession(target)
		if err != nil {
			return err
		}

		data, err := getStore().ReadDocument(source)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		if err := sess.Import(data); err != nil {
			return fmt.Errorf("failed to import %s: %w", source, err)
		}

		if err := saveSession(target, sess); err != nil {
			return err
		}

		fmt.Printf("Imported %s into %s\n", source, target)
		return nil
	},
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export an estimation document",
	Long:  `Write the estimation as a JSON configuration document with recomputed efforts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		sess, _, err := openSession(args[0])
		if err != nil {
			return err
		}

		data, err := sess.Export()
		if err != nil {
			return fmt.Errorf("failed to export estimation: %w", err)
		}

		return writeOutput(output, string(data))
	},
}

// profileFlags reads the --project-type and --technology flags, falling back to the configuration
func profileFlags(cmd *cobra.Command, config *model.Config) (model.ProjectType, model.Technology, error) {
	projectType := config.DefaultProjectType
	technology := config.DefaultTechnology

	if value, _ := cmd.Flags().GetString("project-type"); value != "" {
		pt, err := model.ParseProjectType(value)
		if err != nil {
			return "", "", err
		}
		projectType = pt
	}

	if value, _ := cmd.Flags().GetString("technology"); value != "" {
		tech, err := model.ParseTechnology(value)
		if err != nil {
			return "", "", err
		}
		technology = tech
	}

	return projectType, technology, nil
}

func writeOutput(output string, result string) error {
	if output == "" {
		fmt.Print(result)
		return nil
	}
	if err := os.WriteFile(output, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Output written to %s\n", output)
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	// new command flags
	newCmd.Flags().StringP("technology", "t", "", "Target technology (Snowflake, Databricks, MDP, Powered By Excel(EV2))")
	newCmd.Flags().StringP("project-type", "p", "", "Project type (New, Upgrade)")
	newCmd.Flags().BoolP("force", "f", false, "Force overwrite existing file")

	// view command flags
	viewCmd.Flags().StringP("format", "f", "markdown", "Output format (markdown, json, yaml)")
	viewCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	// export command flags
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}
