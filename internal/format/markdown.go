package format

import (
	"fmt"
	"strings"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/stats"
)

// MarkdownFormatter formats estimations as a markdown report
type MarkdownFormatter struct {
	config *model.Config
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(config *model.Config) *MarkdownFormatter {
	return &MarkdownFormatter{config: config}
}

// Format formats an estimation as markdown
func (f *MarkdownFormatter) Format(state *model.EstimationState) string {
	var sb strings.Builder

	summary := stats.Summarize(state)
	unit := f.config.TimeUnit.Acronym

	sb.WriteString("# Effort Estimation\n\n")
	sb.WriteString(fmt.Sprintf("- Technology: %s\n", state.Technology))
	sb.WriteString(fmt.Sprintf("- Project type: %s\n\n", state.ProjectType))

	sb.WriteString("## Estimates\n\n")
	for _, estimate := range summary.Estimates {
		sb.WriteString(fmt.Sprintf("### %s\n\n", estimate.Process))
		sb.WriteString("| Input | Effort key | Total | S% | M% | L% | Effort | Comments |\n")
		sb.WriteString("|---|---|---:|---:|---:|---:|---:|---|\n")
		for _, in := range estimate.Inputs {
			effort := f.formatFloat(in.Effort) + " " + unit
			if in.Err != nil {
				effort = "**" + in.Err.Error() + "**"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %s | %s |\n",
				in.Input, in.Key,
				in.Record.TotalCount, in.Record.SPercent, in.Record.MPercent, in.Record.LPercent,
				effort, escapeCell(in.Record.Comments)))
		}
		sb.WriteString(fmt.Sprintf("\nTotal estimated effort for %s: %s %s\n\n", estimate.Process, f.formatFloat(estimate.MostLikely), unit))
	}

	sb.WriteString("## Summary of Estimated Efforts by Process\n\n")
	sb.WriteString("| Process | Most Likely | Optimistic | Pessimistic | PERT |\n")
	sb.WriteString("|---|---:|---:|---:|---:|\n")
	for _, row := range summary.Rows() {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			row.Process,
			f.formatFloat(row.MostLikely),
			f.formatFloat(row.Optimistic),
			f.formatFloat(row.Pessimistic),
			f.formatFloat(row.PERT)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Phase Allocation\n\n")
	report, err := stats.AllocatePhases(summary, state.Breakdown)
	if err != nil {
		sb.WriteString(fmt.Sprintf("> Error: %v\n", err))
	} else {
		if report.Warning != nil {
			sb.WriteString(fmt.Sprintf("> Warning: %v\n\n", report.Warning))
		}

		sb.WriteString("| Process | PERT |")
		for _, phase := range model.Phases() {
			sb.WriteString(fmt.Sprintf(" %s (%d%%) |", phase, state.Breakdown[phase]))
		}
		sb.WriteString(" Total Effort |\n|---|---:|")
		sb.WriteString(strings.Repeat("---:|", len(model.Phases())+1))
		sb.WriteString("\n")

		for _, row := range append(report.Rows, report.Total) {
			sb.WriteString(fmt.Sprintf("| %s | %s |", row.Process, f.formatFloat(row.PERT)))
			for _, phase := range model.Phases() {
				sb.WriteString(fmt.Sprintf(" %s |", f.formatFloat(row.Hours[phase])))
			}
			sb.WriteString(fmt.Sprintf(" %s |\n", f.formatFloat(row.TotalEffort)))
		}
	}

	if len(summary.Invalid) > 0 {
		sb.WriteString("\n## Excluded Inputs\n\n")
		for _, in := range summary.Invalid {
			sb.WriteString(fmt.Sprintf("- %s / %s: %v\n", in.Process, in.Input, in.Err))
		}
	}

	return sb.String()
}

func (f *MarkdownFormatter) formatFloat(value float64) string {
	if f.config.RoundUpEstimations {
		return fmt.Sprintf("%.0f", roundFloat(value, true))
	}
	return fmt.Sprintf("%.2f", value)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
