package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/graphqubo/pkg/pipeline"
	"github.com/dd0wney/graphqubo/pkg/verify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(22)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// row renders one label/value line of a stats box
func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func renderCommunity(w io.Writer, res *pipeline.CommunityResult) {
	rows := []string{
		row("run", res.RunID),
		row("vertices / edges", fmt.Sprintf("%d / %d", res.Stats.Vertices, res.Stats.Edges)),
		row("communities", res.Communities),
		row("variables", res.Stats.Variables),
		row("solver", fmt.Sprintf("%s (%d reads, %d samples)", res.Stats.Solver, res.Stats.NumReads, res.Stats.Samples)),
		row("lowest energy", formatFloat(res.Best.Energy)),
		row("sample modularity", formatFloat(res.Report.SampleModularity)),
		row(string(res.Report.Reference)+" modularity", formatFloat(res.Report.ReferenceModularity)),
		row("solve time", fmt.Sprintf("%.1f ms", res.Stats.SolveTimeMs)),
	}

	verdict := successStyle.Render("gap " + res.Success)
	if res.Success != "0.000" {
		verdict = errorStyle.Render("gap " + res.Success)
	}
	if !res.Report.Feasible {
		verdict += " " + errorStyle.Render("(sample breaks the one-hot constraint)")
	}

	fmt.Fprintln(w, titleStyle.Render("Community detection"))
	fmt.Fprintln(w, statsBoxStyle.Render(strings.Join(rows, "\n")))
	fmt.Fprintln(w, verdict)
	fmt.Fprintln(w, helpStyle.Render("assignment: "+formatInts(res.Report.Assignment)))
}

func renderIsomorphism(w io.Writer, res *pipeline.IsomorphismResult) {
	rows := []string{
		row("run", res.RunID),
		row("vertices / edges", fmt.Sprintf("%d / %d", res.Stats.Vertices, res.Stats.Edges)),
		row("variables", res.Stats.Variables),
		row("solver", fmt.Sprintf("%s (%d reads, %d samples)", res.Stats.Solver, res.Stats.NumReads, res.Stats.Samples)),
		row("lowest energy", formatFloat(res.Best.Energy)),
		row("expected energy", formatFloat(res.ExpectedEnergy)),
		row("solve time", fmt.Sprintf("%.1f ms", res.Stats.SolveTimeMs)),
	}

	style := errorStyle
	if res.Verdict == verify.Isomorphic {
		style = successStyle
	}

	fmt.Fprintln(w, titleStyle.Render("Graph isomorphism"))
	fmt.Fprintln(w, statsBoxStyle.Render(strings.Join(rows, "\n")))
	fmt.Fprintln(w, style.Render(res.Verdict.String())+" "+helpStyle.Render("off by "+formatFloat(res.Success)))
	if len(res.Mapping) > 0 {
		fmt.Fprintln(w, helpStyle.Render("mapping: "+formatInts(res.Mapping)))
	}
}

func renderSolvers(w io.Writer, names []string, defaultSolver string) {
	fmt.Fprintln(w, titleStyle.Render("Solvers"))
	for _, name := range names {
		if name == defaultSolver {
			fmt.Fprintln(w, successStyle.Render("* "+name))
			continue
		}
		fmt.Fprintln(w, "  "+name)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
