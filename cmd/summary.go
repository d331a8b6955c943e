package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rios0rios0/fleetpatch/application"
)

// renderSummary prints the per-repository outcome table at the end of a run.
func renderSummary(results []application.RepositoryResult) {
	if len(results) == 0 {
		fmt.Println("No repositories found; nothing to do.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Patch Run Summary")
	t.AppendHeader(table.Row{"Repository", "Outcome", "Changes", "Detail"})

	for _, result := range results {
		t.AppendRow(table.Row{
			result.Repository.FullName(),
			result.Outcome,
			formatChanges(result),
			formatDetail(result),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatChanges(result application.RepositoryResult) string {
	if len(result.Changes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(result.Changes))
	for _, change := range result.Changes {
		parts = append(parts, fmt.Sprintf("%s %s->%s", change.Name, change.From, change.To))
	}
	return strings.Join(parts, "\n")
}

func formatDetail(result application.RepositoryResult) string {
	switch {
	case result.PullRequest != nil:
		return result.PullRequest.URL
	case result.Reason != "":
		return result.Reason
	default:
		return "-"
	}
}
