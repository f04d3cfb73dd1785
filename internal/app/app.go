package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/marking-menu/internal/layout"
	"github.com/atomicstack/marking-menu/internal/logging"
	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/menu"
	"github.com/atomicstack/marking-menu/internal/nav"
	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/telemetry"
	"github.com/atomicstack/marking-menu/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const shutdownTimeout = 2 * time.Second

// Config describes user-provided application options.
type Config struct {
	LayoutPath  string
	Threshold   int
	DoubleClick time.Duration
	Hotkey      string
	Open        string
	CursorShape string
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	Telemetry   telemetry.Config
}

// NewModel loads the panel layout and wires the registry, controller and UI
// model together.
func NewModel(cfg Config) (*ui.Model, error) {
	set, err := layout.Load(cfg.LayoutPath)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	reg := registry.New(menu.NewProvider(set))

	navCfg := nav.DefaultConfig()
	navCfg.Threshold = cfg.Threshold
	if cfg.CursorShape != "" {
		navCfg.CursorShape = cfg.CursorShape
	}
	pointer := &nav.SoftPointer{}
	ctrl := nav.NewController(nav.NewContext(reg, pointer, navCfg))

	return ui.NewModel(ctrl, pointer, ui.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Verbose:     cfg.Verbose,
		DoubleClick: cfg.DoubleClick,
		Hotkey:      cfg.Hotkey,
		Open:        cfg.Open,
	}), nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logging.Error(fmt.Errorf("telemetry shutdown: %w", err))
		}
	}()

	model, err := NewModel(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err == nil {
		events.App.Stop("quit")
	}
	return err
}
