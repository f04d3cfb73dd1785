package registry

import (
	"strings"
	"sync"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// Level is the hierarchy depth of a panel.
type Level int

const (
	LevelIdle     Level = iota // root
	LevelCategory              // top-level category chosen by mouse button
	LevelSub                   // sub-panel reached through an element
	LevelMain                  // standalone panel opened directly
)

// LevelFromName derives a panel's level from its name suffix.
func LevelFromName(name string) Level {
	switch {
	case name == "root" || strings.HasSuffix(name, "_root"):
		return LevelIdle
	case strings.HasSuffix(name, "_submenu"):
		return LevelSub
	case strings.HasSuffix(name, "_menu"):
		return LevelCategory
	case strings.HasSuffix(name, "_window"), strings.HasSuffix(name, "_main"):
		return LevelMain
	default:
		return LevelSub
	}
}

// Invocation describes the element a handler was triggered from.
type Invocation struct {
	Panel   string
	Element string
	Source  widget.Element
}

// Action is a panel handler. It may return a command for the host loop.
type Action func(Invocation) tea.Cmd

// Handler is one named entry of a panel's handler table.
type Handler struct {
	Doc    string
	Action Action
}

// Handlers maps element display names onto handlers for one panel.
type Handlers map[string]Handler

// ActionResult communicates the outcome of executing a handler.
type ActionResult struct {
	Info string
	Err  error
}

// Provider supplies constructed panel views and their handler tables.
type Provider interface {
	Panel(name string) (*widget.Panel, bool)
	Handlers(name string) Handlers
	PanelNames() []string
}

// PanelEntry is the registry record of one named panel. Entries are created
// on first reference and reused for the lifetime of the registry.
type PanelEntry struct {
	Name     string
	View     *widget.Panel
	Level    Level
	handlers Handlers
	bindings map[widget.Element]*BindingInfo
	order    []widget.Element
}

// Bindings returns the panel bindings in bind order.
func (e *PanelEntry) Bindings() []*BindingInfo {
	out := make([]*BindingInfo, 0, len(e.order))
	for _, el := range e.order {
		out = append(out, e.bindings[el])
	}
	return out
}

// Binding returns the binding recorded for el.
func (e *PanelEntry) Binding(el widget.Element) (*BindingInfo, bool) {
	b, ok := e.bindings[el]
	return b, ok
}

// Registry resolves elements to handlers, owns the single active connection
// set and keeps the view, command and secondary-action histories.
type Registry struct {
	mu        sync.Mutex
	provider  Provider
	panels    map[string]*PanelEntry
	active    string
	secondary map[string]bool

	views            *HistoryLog[string]
	commands         *HistoryLog[Record]
	secondaryActions *HistoryLog[Record]

	protected map[any]int
}

// New constructs a registry backed by provider.
func New(provider Provider) *Registry {
	return &Registry{
		provider:         provider,
		panels:           make(map[string]*PanelEntry),
		secondary:        make(map[string]bool),
		views:            NewHistoryLog(viewHistoryLimit, func(s string) string { return s }),
		commands:         NewHistoryLog(commandHistoryLimit, Record.key),
		secondaryActions: NewHistoryLog(secondaryHistoryLimit, Record.key),
		protected:        make(map[any]int),
	}
}

// MarkSecondary routes handler invocations from panel into the
// secondary-action history instead of the command history.
func (r *Registry) MarkSecondary(panel string) {
	r.mu.Lock()
	r.secondary[panel] = true
	r.mu.Unlock()
}

// RegisterPanel returns the entry for name, creating it on first reference.
// It reports false when the provider has no such panel.
func (r *Registry) RegisterPanel(name string) (*PanelEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(name)
}

func (r *Registry) registerLocked(name string) (*PanelEntry, bool) {
	if entry, ok := r.panels[name]; ok {
		return entry, true
	}
	if r.provider == nil || name == "" {
		events.Registry.PanelMiss(name)
		return nil, false
	}
	view, ok := r.provider.Panel(name)
	if !ok || view == nil {
		events.Registry.PanelMiss(name)
		return nil, false
	}
	level := LevelFromName(name)
	if view.Level >= 0 {
		level = Level(view.Level)
	}
	entry := &PanelEntry{
		Name:     name,
		View:     view,
		Level:    level,
		handlers: r.provider.Handlers(name),
		bindings: make(map[widget.Element]*BindingInfo),
	}
	r.panels[name] = entry
	for _, el := range view.Elements() {
		if el.ClonedFrom() != nil || !widget.Interactive(el) {
			continue
		}
		r.bindLocked(entry, el)
	}
	events.Registry.Register(name, int(level), len(entry.order))
	return entry, true
}

// Lookup returns an already registered entry without consulting the provider.
func (r *Registry) Lookup(name string) (*PanelEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.panels[name]
	return entry, ok
}

// LevelOf returns the level of a registered panel.
func (r *Registry) LevelOf(name string) (Level, bool) {
	entry, ok := r.Lookup(name)
	if !ok {
		return LevelIdle, false
	}
	return entry.Level, true
}

// BindElement resolves el against the handler table of panel. Elements
// without a display name are skipped; elements without a matching handler
// are recorded but stay inert.
func (r *Registry) BindElement(panel string, el widget.Element) (*BindingInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.registerLocked(panel)
	if !ok {
		return nil, false
	}
	return r.bindLocked(entry, el)
}

func (r *Registry) bindLocked(entry *PanelEntry, el widget.Element) (*BindingInfo, bool) {
	if el == nil || strings.TrimSpace(el.Name()) == "" {
		events.Registry.ResolutionMiss(entry.Name, "", "no display name")
		return nil, false
	}
	info, exists := entry.bindings[el]
	if !exists {
		info = &BindingInfo{}
		entry.bindings[el] = info
		entry.order = append(entry.order, el)
	}
	wasConnected := info.connected
	if wasConnected {
		r.disconnect(info)
	}
	info.resolve(el, entry.handlers)
	if info.Inert() {
		events.Registry.ResolutionMiss(entry.Name, info.DisplayName, "no handler")
	}
	if r.active == entry.Name && !info.Inert() {
		r.connect(entry.Name, info)
	}
	events.Registry.Bind(entry.Name, info.DisplayName, string(info.SignalKind), !info.Inert())
	return info, true
}

// ActivatePanel makes name the only panel with connected handlers and records
// it in the view history. Unknown panels leave the current state untouched.
func (r *Registry) ActivatePanel(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.registerLocked(name)
	if !ok {
		return false
	}
	previous := r.active
	if prev, ok := r.panels[previous]; ok {
		for _, info := range prev.bindings {
			r.disconnect(info)
		}
	}
	connected := 0
	for _, el := range entry.order {
		info := entry.bindings[el]
		if info.Inert() {
			continue
		}
		r.connect(entry.Name, info)
		connected++
	}
	r.active = name
	r.views.Push(name)
	events.Registry.Activate(previous, name, connected)
	return true
}

// Deactivate disconnects the active panel without activating another.
func (r *Registry) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.panels[r.active]; ok {
		for _, info := range prev.bindings {
			r.disconnect(info)
		}
	}
	r.active = ""
}

// ActivePanel returns the panel whose handlers are connected.
func (r *Registry) ActivePanel() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// ConnectedPanels lists every registered panel that has at least one element
// with a live connection.
func (r *Registry) ConnectedPanels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for name, entry := range r.panels {
		for _, el := range entry.order {
			if el.Connections() > 0 {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func (r *Registry) connect(panel string, info *BindingInfo) {
	if info.connected {
		return
	}
	info.conn = info.Element.Connect(info.SignalKind, r.slot(panel, info))
	info.connected = true
}

func (r *Registry) disconnect(info *BindingInfo) {
	if !info.connected {
		return
	}
	info.Element.Disconnect(info.conn)
	info.connected = false
	info.conn = 0
}

// slot wraps a binding's handler so every invocation lands in history.
func (r *Registry) slot(panel string, info *BindingInfo) widget.Slot {
	handler := info.Handler
	rec := Record{
		Panel:   panel,
		Element: info.DisplayName,
		Doc:     info.DocSummary,
		Tooltip: info.Tooltip,
		Action:  handler.Action,
	}
	return func(src widget.Element) tea.Cmd {
		r.record(rec)
		events.Registry.Invoke(panel, rec.Element)
		return handler.Action(Invocation{Panel: panel, Element: rec.Element, Source: src})
	}
}
