package main

import (
	"fmt"
	"io"

	"github.com/ytget/convertudo/internal/model"
	"github.com/ytget/convertudo/internal/workflow"
)

// consoleView prints the parts of the workflow a terminal user needs.
type consoleView struct {
	out     io.Writer
	verbose bool
}

func (v *consoleView) ShowStep(step model.WorkflowStep) {
	if v.verbose {
		fmt.Fprintf(v.out, "step: %s\n", step)
	}
}

func (v *consoleView) ShowFile(file *model.SelectedFile, icon, size string) {
	fmt.Fprintf(v.out, "%s %s (%s)\n", icon, file.Name, size)
}

func (v *consoleView) ShowFormatChoices(choices workflow.FormatChoices) {
	if !v.verbose || choices.Blocked {
		return
	}
	for _, group := range choices.Groups {
		fmt.Fprintf(v.out, "  %s:", group.Label)
		for _, option := range group.Options {
			fmt.Fprintf(v.out, " %s", option.Label)
		}
		fmt.Fprintln(v.out)
	}
}

func (v *consoleView) SetConvertState(state workflow.ConvertState) {
	if v.verbose && state.Busy {
		fmt.Fprintln(v.out, "working...")
	}
}

func (v *consoleView) ShowResult(_ *model.ConversionResult, summary string) {
	fmt.Fprintln(v.out, summary)
}

func (v *consoleView) ShowError(message string) {
	fmt.Fprintf(v.out, "Error: %s\n", message)
}

func (v *consoleView) HideError() {}
