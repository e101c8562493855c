package command

import (
	"encoding/json"
	"fmt"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/spf13/cobra"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Process input estimate commands",
	Long:  `Manage the work item counts and size splits of process inputs.`,
}

// estimateSetCmd represents the estimate set command
var estimateSetCmd = &cobra.Command{
	Use:   "set <file> <process> <input>",
	Short: "Set the estimate of a process input",
	Long: `Set the total count of work items and their S/M/L split for a process input.

Flags that are not given keep the current values of the input.
The split must add up to 100.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		process, err := model.ParseProcess(args[1])
		if err != nil {
			return err
		}
		input := args[2]

		sess, config, err := openSession(file)
		if err != nil {
			return err
		}

		record := sess.Record(process, input)

		if cmd.Flags().Changed("total") {
			record.TotalCount, _ = cmd.Flags().GetInt("total")
		}
		if cmd.Flags().Changed("small") {
			record.SPercent, _ = cmd.Flags().GetInt("small")
		}
		if cmd.Flags().Changed("medium") {
			record.MPercent, _ = cmd.Flags().GetInt("medium")
		}
		if cmd.Flags().Changed("large") {
			record.LPercent, _ = cmd.Flags().GetInt("large")
		}
		if cmd.Flags().Changed("comments") {
			record.Comments, _ = cmd.Flags().GetString("comments")
		}

		updated, err := sess.SetEstimate(process, input, record.TotalCount, record.SPercent, record.MPercent, record.LPercent, record.Comments)
		if err != nil {
			return err
		}

		if err := saveSession(file, sess); err != nil {
			return err
		}

		fmt.Printf("Estimated effort for %s / %s: %.2f %s\n", process, input, updated.Effort, config.TimeUnit.Acronym)
		return nil
	},
}

// estimateListCmd represents the estimate list command
var estimateListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List process input estimates",
	Long:  `List every process input with its counts, split and computed effort.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatType, _ := cmd.Flags().GetString("format")

		sess, config, err := openSession(args[0])
		if err != nil {
			return err
		}

		summary := sess.Summary()

		switch formatType {
		case "json":
			data, err := json.MarshalIndent(sess.State().Estimates, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal estimates to JSON: %w", err)
			}
			fmt.Println(string(data))
		default:
			for _, estimate := range summary.Estimates {
				fmt.Printf("%s:\n", estimate.Process)
				for _, in := range estimate.Inputs {
					fmt.Printf("  %-24s Total: %4d  S/M/L: %3d/%3d/%3d%%", in.Input, in.Record.TotalCount, in.Record.SPercent, in.Record.MPercent, in.Record.LPercent)
					if in.Err != nil {
						fmt.Printf("  => error: %v\n", in.Err)
						continue
					}
					fmt.Printf("  => %.2f %s\n", in.Effort, config.TimeUnit.Acronym)
				}
				fmt.Printf("  Total: %.2f %s\n", estimate.MostLikely, config.TimeUnit.Acronym)
			}
		}

		return nil
	},
}

// estimateCommentCmd represents the estimate comment command
var estimateCommentCmd = &cobra.Command{
	Use:   "comment <file> <process> <input> <comments>",
	Short: "Comment a process input",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		process, err := model.ParseProcess(args[1])
		if err != nil {
			return err
		}

		sess, _, err := openSession(file)
		if err != nil {
			return err
		}

		if err := sess.SetComments(process, args[2], args[3]); err != nil {
			return err
		}

		if err := saveSession(file, sess); err != nil {
			return err
		}

		fmt.Printf("Comments of %s / %s updated\n", process, args[2])
		return nil
	},
}

// processesCmd represents the processes command
var processesCmd = &cobra.Command{
	Use:   "processes",
	Short: "List processes and their inputs",
	Long:  `List the delivery processes, their inputs and the effort key each input draws from.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, process := range model.Processes() {
			fmt.Printf("%s:\n", process)
			for _, in := range process.Inputs() {
				fmt.Printf("  %-24s -> %s\n", in.Name, in.Key)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(processesCmd)
	estimateCmd.AddCommand(estimateSetCmd)
	estimateCmd.AddCommand(estimateListCmd)
	estimateCmd.AddCommand(estimateCommentCmd)

	// estimate set flags
	estimateSetCmd.Flags().IntP("total", "n", 0, "Total count of work items")
	estimateSetCmd.Flags().IntP("small", "s", model.DefaultSPercent, "Percentage of small items")
	estimateSetCmd.Flags().IntP("medium", "m", model.DefaultMPercent, "Percentage of medium items")
	estimateSetCmd.Flags().IntP("large", "l", model.DefaultLPercent, "Percentage of large items")
	estimateSetCmd.Flags().String("comments", "", "Comments")

	// estimate list flags
	estimateListCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
}
