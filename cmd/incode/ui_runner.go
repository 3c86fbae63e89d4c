package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"incode/internal/driver"
	"incode/internal/ui"
)

type runOutcome struct {
	result *driver.RunResult
	err    error
}

// runWithUI runs the driver in the background and renders its progress
// events until the run finishes.
func runWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.RunResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, files, opts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early; keep the driver from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
