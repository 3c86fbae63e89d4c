package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of `run --ui`: whether per-file progress is drawn as
// a live view instead of the plain summary.
type uiMode string

const (
	uiModeAuto uiMode = "auto" // live view only when stdout is a terminal
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("run: invalid --ui %q (expected auto|on|off)", value)
}

// live reports whether run should draw the progress view on out. The view
// is never drawn with --quiet or when there is nothing to process.
func (m uiMode) live(out *os.File, quiet bool, files int) bool {
	if quiet || files == 0 {
		return false
	}
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(out)
}
