// Package confirm provides the approval adapters consulted before a change
// set is committed: an always-true auto-approve adapter and a terminal
// prompt for interactive runs.
package confirm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"

	"github.com/rios0rios0/fleetpatch/domain"
)

// AutoApprove approves every change without interaction.
type AutoApprove struct{}

// NewAutoApprove creates the auto-approve confirmer.
func NewAutoApprove() domain.Confirmer {
	return &AutoApprove{}
}

// Confirm always approves.
func (a *AutoApprove) Confirm(_ string) (bool, error) {
	return true, nil
}

// Interactive shows the diff on the terminal and asks the operator to
// approve or reject the change.
type Interactive struct {
	// runForm is swappable in tests to avoid a real terminal.
	runForm func(form *huh.Form) error
}

// NewInteractive creates the terminal confirmer.
func NewInteractive() domain.Confirmer {
	return &Interactive{
		runForm: func(form *huh.Form) error { return form.Run() },
	}
}

// Confirm prints the colorized diff and prompts for approval. Aborting the
// prompt counts as a rejection, not an error.
func (i *Interactive) Confirm(diff string) (bool, error) {
	printDiff(diff)

	approved := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Apply and publish this change?").
				Value(&approved),
		),
	)

	if err := i.runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

func printDiff(diff string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			header.Println(line)
		case strings.HasPrefix(line, "+"):
			added.Println(line)
		case strings.HasPrefix(line, "-"):
			removed.Println(line)
		default:
			fmt.Println(line)
		}
	}
}
