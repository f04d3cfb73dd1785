package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atomicstack/marking-menu/internal/app"
	"github.com/atomicstack/marking-menu/internal/config"
	"github.com/atomicstack/marking-menu/internal/layout"
	"github.com/atomicstack/marking-menu/internal/logging"
	"github.com/atomicstack/marking-menu/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(runtimeCfg))
	}

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload records what the overlay starts with: where its
// panels come from, what it opens first and the terminal it draws on.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	payload := map[string]interface{}{
		"argv":          cfg.Args,
		"flags":         cfg.Flags,
		"configFile":    cfg.File,
		"layout":        summarizeLayout(cfg.App.LayoutPath),
		"open":          cfg.App.Open,
		"hotkey":        cfg.App.Hotkey,
		"threshold":     cfg.App.Threshold,
		"doubleClickMs": cfg.App.DoubleClick.Milliseconds(),
		"telemetry":     cfg.App.Telemetry.Endpoint != "",
	}
	if t := detectTerminal(); t != nil {
		payload["terminal"] = *t
	}
	return payload
}

type layoutSummary struct {
	Source   string   `json:"source"`
	Panels   []string `json:"panels,omitempty"`
	Elements int      `json:"elements"`
	Error    string   `json:"error,omitempty"`
}

// summarizeLayout loads the panel layout the way the app will and reports
// what it found. Load errors are recorded rather than returned; app.Run
// reports them properly.
func summarizeLayout(path string) layoutSummary {
	summary := layoutSummary{Source: path}
	if strings.TrimSpace(path) == "" {
		summary.Source = "built-in"
	}
	set, err := layout.Load(path)
	if err != nil {
		summary.Error = err.Error()
		return summary
	}
	summary.Panels = set.PanelNames()
	summary.Elements = len(set.Elements())
	return summary
}

type terminalInfo struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// detectTerminal returns the size of the first standard descriptor attached
// to a terminal, or nil when none is.
func detectTerminal() *terminalInfo {
	candidates := []struct {
		name string
		file *os.File
	}{
		{"stdout", os.Stdout},
		{"stdin", os.Stdin},
		{"stderr", os.Stderr},
	}
	for _, c := range candidates {
		fd := int(c.file.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		if width, height, err := term.GetSize(fd); err == nil {
			return &terminalInfo{Source: c.name, Width: width, Height: height}
		}
	}
	return nil
}
