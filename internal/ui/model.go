package ui

import (
	"image"
	"reflect"
	"time"

	"github.com/atomicstack/marking-menu/internal/nav"
	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/theme"
	"github.com/atomicstack/marking-menu/internal/ui/command"
	uistate "github.com/atomicstack/marking-menu/internal/ui/state"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultDoubleClick = 400 * time.Millisecond
	defaultHotkey      = "`"
	infoTimeout        = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	DoubleClick time.Duration
	Hotkey      string
	// Open names a standalone panel shown as soon as the program starts.
	Open string
}

// openPanelMsg asks the model to show a standalone panel.
type openPanelMsg struct {
	query string
}

// pressRecord is the last press that could start a double click. Presses
// that arm an element are not recorded.
type pressRecord struct {
	button nav.Button
	at     time.Time
	pos    image.Point
}

// Model implements the Bubble Tea model hosting the marking menu overlay.
type Model struct {
	ctrl    *nav.Controller
	pointer *nav.SoftPointer
	bus     *command.Bus
	focus   *uistate.Focus
	keys    keyMap

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	doubleClick time.Duration
	lastPress   pressRecord
	pressed     nav.Button
	pendingOpen string
	now         func() time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel wraps ctrl in a Bubble Tea model. pointer must be the pointer the
// controller's context was built with.
func NewModel(ctrl *nav.Controller, pointer *nav.SoftPointer, opts Options) *Model {
	hotkey := opts.Hotkey
	if hotkey == "" {
		hotkey = defaultHotkey
	}
	interval := opts.DoubleClick
	if interval <= 0 {
		interval = defaultDoubleClick
	}
	m := &Model{
		ctrl:        ctrl,
		pointer:     pointer,
		bus:         command.New(),
		focus:       uistate.NewFocus(),
		keys:        newKeyMap(hotkey),
		showFooter:  opts.ShowFooter,
		verbose:     opts.Verbose,
		doubleClick: interval,
		pendingOpen: opts.Open,
		now:         time.Now,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.syncScreen()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.pendingOpen == "" {
		return nil
	}
	query := m.pendingOpen
	m.pendingOpen = ""
	return func() tea.Msg { return openPanelMsg{query: query} }
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):            m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):          m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):     m.handleWindowSizeMsg,
		reflect.TypeOf(registry.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(openPanelMsg{}):          m.handleOpenPanelMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.syncFocus()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Controller exposes the navigation controller driven by the model.
func (m *Model) Controller() *nav.Controller {
	return m.ctrl
}

// dispatch routes a command produced by the controller through the bus.
func (m *Model) dispatch(label string, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return m.bus.Execute(command.Request{
		ID:    m.ctrl.GestureID().String(),
		Label: label,
		Cmd:   cmd,
	})
}

// screenCenter is where panels open when no pointer position is known.
func (m *Model) screenCenter() image.Point {
	screen := m.ctrl.Context().Overlay.Screen
	if screen.Empty() {
		return image.Point{}
	}
	return widget.Center(screen)
}
