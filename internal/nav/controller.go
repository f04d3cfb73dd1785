// Package nav is the navigation state machine behind the overlay. Every
// input event is handled synchronously: the controller asks the registry
// which panel and handler apply and asks the path tracker to extend,
// truncate, or replay the gesture path.
package nav

import (
	"context"
	"image"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/path"
	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/atomicstack/marking-menu/internal/nav")

// Controller owns the visible state of the overlay.
type Controller struct {
	ctx *Context

	state        State
	current      string
	gestureStart image.Point
	cursor       image.Point
	button       Button
	dragging     bool
	armed        widget.Element
	hover        widget.Element
	overridden   bool

	gesture uuid.UUID
	span    trace.Span
}

// NewController constructs a hidden controller. The camera panel records
// into the secondary-action history.
func NewController(ctx *Context) *Controller {
	if ctx.Registry != nil {
		ctx.Registry.MarkSecondary(CameraPanel)
	}
	return &Controller{ctx: ctx, state: Hidden}
}

func (c *Controller) State() State                 { return c.state }
func (c *Controller) Current() string              { return c.current }
func (c *Controller) Cursor() image.Point          { return c.cursor }
func (c *Controller) Hover() widget.Element        { return c.hover }
func (c *Controller) Dragging() bool               { return c.dragging }
func (c *Controller) Context() *Context            { return c.ctx }
func (c *Controller) GestureID() uuid.UUID         { return c.gesture }
func (c *Controller) Armed() widget.Element        { return c.armed }
func (c *Controller) Overlay() image.Point         { return c.ctx.Overlay.Position }
func (c *Controller) Path() *path.Tracker          { return c.ctx.Path }
func (c *Controller) Registry() *registry.Registry { return c.ctx.Registry }

// View returns the visible panel, or nil while hidden.
func (c *Controller) View() *widget.Panel {
	if c.state == Hidden || c.current == "" {
		return nil
	}
	entry, ok := c.ctx.Registry.Lookup(c.current)
	if !ok {
		return nil
	}
	return entry.View
}

// Press handles a pointer press. Over an element of a visible panel outside
// a drag it arms that element; anywhere else it starts a new gesture.
func (c *Controller) Press(btn Button, pos image.Point, mods Modifiers) tea.Cmd {
	c.cursor = pos
	if c.state != Hidden && !c.dragging {
		if el := c.elementAt(pos); el != nil && widget.Interactive(el) {
			c.armed = el
			return nil
		}
	}
	c.beginGesture(btn, pos)
	return nil
}

func (c *Controller) beginGesture(btn Button, pos image.Point) {
	name := categoryPanel(btn)
	c.startSpan("gesture", attribute.String("gesture.button", btn.String()))
	c.ctx.Path.Reset(pos)
	c.ctx.Registry.ReleaseProtected()
	c.armed = nil
	if !c.show(name, pos) {
		c.Hide()
		return
	}
	c.ctx.Path.SetOriginTarget(name)
	if p := c.ctx.Pointer; p != nil {
		if p.Captured() {
			events.Nav.CaptureConflict()
			p.Release()
		}
		p.Capture()
	}
	c.button = btn
	c.gestureStart = pos
	c.dragging = true
	c.setState(Level1)
}

// Move handles pointer motion. A real element of the visible panel always
// wins; otherwise entering the return zone collapses the path back to the
// gesture origin and entering a clone jumps back to the hop it mirrors.
func (c *Controller) Move(pos image.Point) tea.Cmd {
	c.cursor = pos
	if c.state == Hidden {
		return nil
	}
	if el := c.elementAt(pos); el != nil && el.ClonedFrom() == nil {
		c.hover = el
		return nil
	}
	if c.ctx.Path.InReturnZone(pos) {
		c.ctx.Path.Return()
		return nil
	}
	if clone, ok := c.ctx.Path.CloneAt(pos); ok {
		c.jumpBack(clone)
		return nil
	}
	c.hover = c.elementAt(pos)
	return nil
}

// Release handles a pointer release. A drag shorter than the threshold
// leaves the overlay idle at its origin; a longer one activates the element
// under the pointer or hides the overlay when there is none.
func (c *Controller) Release(btn Button, pos image.Point) tea.Cmd {
	c.cursor = pos
	if c.armed != nil {
		armed := c.armed
		c.armed = nil
		if c.elementAt(pos) == armed {
			return c.activate(armed)
		}
		return nil
	}
	if !c.dragging {
		return nil
	}
	c.dragging = false
	c.releaseCapture()
	if c.state != Level1 && c.state != Level2 {
		return nil
	}
	if !c.beyondThreshold(pos) {
		if c.state == Level2 {
			c.returnToOrigin()
		}
		c.ctx.Path.ClearToOrigin()
		c.setState(Level0)
		return nil
	}
	el := c.elementAt(pos)
	if el == nil {
		c.Hide()
		return nil
	}
	return c.activate(el)
}

// Activate runs el as if it had been clicked.
func (c *Controller) Activate(el widget.Element) tea.Cmd {
	if c.state == Hidden || el == nil || el.Panel() == nil {
		return nil
	}
	if anchor, ok := el.Panel().Anchor(el); ok {
		c.cursor = anchor
	}
	return c.activate(el)
}

func (c *Controller) activate(el widget.Element) tea.Cmd {
	if el.ClonedFrom() != nil {
		for _, clone := range c.ctx.Path.Clones() {
			if clone.Element == el {
				c.jumpBack(clone)
				break
			}
		}
		return nil
	}
	if sub := el.SubPanel(); sub != "" && c.hop(el, sub) {
		return nil
	}
	cmd := el.Emit(registry.SignalFor(el.Kind()))
	if c.state != Level3 {
		c.Hide()
	}
	return cmd
}

// hop switches to the child panel sub keeping the activating element's
// anchor fixed on screen.
func (c *Controller) hop(el widget.Element, sub string) bool {
	from := c.current
	p1, ok := el.Panel().Anchor(el)
	if !ok {
		events.Nav.GeometryMiss(from, el.Name())
		p1 = c.cursor
	}
	entry, ok := c.ctx.Registry.RegisterPanel(sub)
	if !ok {
		return false
	}
	c.ctx.Path.Add(sub, el, c.cursor)
	events.Nav.Hop(c.gesture.String(), from, sub, el.Name())
	if c.span != nil {
		c.span.AddEvent("hop", trace.WithAttributes(
			attribute.String("hop.from", from),
			attribute.String("hop.to", sub),
			attribute.String("hop.element", el.Name()),
		))
	}
	c.enter(entry, p1, el.Name())
	return true
}

// enter activates entry and moves the overlay so that the element named
// name, or the first interactive element, lands on anchor.
func (c *Controller) enter(entry *registry.PanelEntry, anchor image.Point, name string) {
	c.ctx.Path.ClearClones()
	c.ctx.Registry.ActivatePanel(entry.Name)
	view := entry.View
	overlay := c.ctx.Overlay
	view.SetOrigin(overlay.Position)
	target := view.Find(name)
	if target == nil || !target.IsVisible() {
		target = nil
		if interactive := view.Interactive(); len(interactive) > 0 {
			target = interactive[0]
		}
	}
	if p2, ok := view.Anchor(target); ok {
		overlay.Position = overlay.Position.Add(anchor.Sub(p2))
	} else {
		events.Nav.GeometryMiss(entry.Name, name)
		c.ctx.Path.Reset(c.cursor)
		c.ctx.Path.SetOriginTarget(entry.Name)
		overlay.Position = widget.CenteredRect(c.cursor, view.Size()).Min
	}
	view.SetOrigin(overlay.Position)
	overlay.Visible = true
	c.current = entry.Name
	c.hover = nil
	c.setState(stateForLevel(entry.Level))
	if c.ctx.Path.Len() >= 2 {
		c.ctx.Path.CloneAlongPath(view, c.cursor, c.returnToOrigin)
	}
}

func (c *Controller) jumpBack(clone path.Clone) {
	entries := c.ctx.Path.Entries()
	if clone.Index <= 0 || clone.Index >= len(entries) {
		return
	}
	hop := entries[clone.Index]
	entry, ok := c.ctx.Registry.RegisterPanel(hop.Target)
	if !ok {
		return
	}
	c.ctx.Path.ClearClones()
	c.ctx.Path.Truncate(clone.Index)
	c.enter(entry, hop.Anchor, hop.Element.Name())
}

// returnToOrigin reopens the gesture's first panel centred on the origin.
func (c *Controller) returnToOrigin() {
	origin, ok := c.ctx.Path.Origin()
	name := c.ctx.Path.OriginTarget()
	if !ok || name == "" {
		c.Hide()
		return
	}
	entry, ok := c.ctx.Registry.RegisterPanel(name)
	if !ok || !c.show(name, origin) {
		c.Hide()
		return
	}
	c.ctx.Path.ClearToOrigin()
	c.setState(stateForLevel(entry.Level))
}

// DoubleClick replays history: the middle button reopens the most recent
// standalone panel, a held modifier repeats the most recent secondary
// action, anything else repeats the most recent command.
func (c *Controller) DoubleClick(btn Button, pos image.Point, mods Modifiers) tea.Cmd {
	c.Hide()
	c.cursor = pos
	reg := c.ctx.Registry
	switch {
	case btn == ButtonMiddle:
		name, ok := reg.MostRecentView(registry.LevelIdle, registry.LevelCategory, registry.LevelSub)
		events.Nav.DoubleClick(btn.String(), "view", ok)
		if ok {
			c.open(name, pos)
		}
		return nil
	case mods.Any():
		rec, ok := reg.MostRecentSecondaryAction()
		events.Nav.DoubleClick(btn.String(), "secondary", ok)
		if !ok {
			return nil
		}
		return reg.Repeat(rec)
	default:
		rec, ok := reg.MostRecentCommand()
		events.Nav.DoubleClick(btn.String(), "command", ok)
		if !ok {
			return nil
		}
		return reg.Repeat(rec)
	}
}

// HotkeyPress shows the most recent category panel, or the command panel,
// under pos. The first show of a session is centred on the screen.
func (c *Controller) HotkeyPress(pos image.Point) tea.Cmd {
	if c.state != Hidden {
		return nil
	}
	name, ok := c.ctx.Registry.LastView(registry.LevelIdle, registry.LevelSub, registry.LevelMain)
	if !ok {
		name = CommandPanel
	}
	overlay := c.ctx.Overlay
	at := pos
	if !overlay.centered && !overlay.Screen.Empty() {
		at = widget.Center(overlay.Screen)
		overlay.centered = true
	}
	c.startSpan("hotkey", attribute.String("hotkey.panel", name))
	c.ctx.Path.Reset(at)
	if !c.show(name, at) {
		c.Hide()
		return nil
	}
	c.ctx.Path.SetOriginTarget(name)
	if p := c.ctx.Pointer; p != nil {
		p.SetOverride(c.ctx.Config.CursorShape)
		c.overridden = true
	}
	c.cursor = pos
	c.setState(Level1)
	events.Nav.Hotkey(true, name)
	return nil
}

// HotkeyRelease hides the overlay.
func (c *Controller) HotkeyRelease() tea.Cmd {
	events.Nav.Hotkey(false, c.current)
	c.Hide()
	return nil
}

// OpenStandalone resolves query to a panel and shows it centred on pos.
func (c *Controller) OpenStandalone(query string, pos image.Point) bool {
	name, ok := c.ctx.Registry.FindPanel(query)
	if !ok {
		return false
	}
	c.Hide()
	return c.open(name, pos)
}

func (c *Controller) open(name string, pos image.Point) bool {
	entry, ok := c.ctx.Registry.RegisterPanel(name)
	if !ok {
		return false
	}
	c.startSpan("open", attribute.String("open.panel", name))
	c.ctx.Path.Reset(pos)
	if !c.show(name, pos) {
		c.Hide()
		return false
	}
	c.ctx.Path.SetOriginTarget(name)
	c.cursor = pos
	c.setState(stateForLevel(entry.Level))
	return true
}

// Hide returns to Hidden from any state. Calling it again is a no-op.
func (c *Controller) Hide() {
	from := c.state
	c.ctx.Path.Clear()
	c.ctx.Registry.ReleaseProtected()
	c.ctx.Registry.Deactivate()
	c.releaseCapture()
	if c.overridden {
		if c.ctx.Pointer != nil {
			c.ctx.Pointer.RestoreOverride()
		}
		c.overridden = false
	}
	c.ctx.Overlay.Visible = false
	c.current = ""
	c.hover = nil
	c.armed = nil
	c.dragging = false
	if from != Hidden {
		c.setState(Hidden)
		events.Nav.Hide(from.String())
	}
	c.endSpan()
}

// show activates name and centres its view on pt, clamped to the screen.
func (c *Controller) show(name string, pt image.Point) bool {
	if !c.ctx.Registry.ActivatePanel(name) {
		return false
	}
	entry, ok := c.ctx.Registry.Lookup(name)
	if !ok {
		return false
	}
	view := entry.View
	bounds := widget.CenteredRect(pt, view.Size())
	if screen := c.ctx.Overlay.Screen; !screen.Empty() {
		bounds = clamp(bounds, screen)
	}
	c.ctx.Overlay.Position = bounds.Min
	c.ctx.Overlay.Visible = true
	view.SetOrigin(bounds.Min)
	c.current = name
	c.hover = nil
	return true
}

func clamp(r, screen image.Rectangle) image.Rectangle {
	var d image.Point
	if r.Max.X > screen.Max.X {
		d.X = screen.Max.X - r.Max.X
	}
	if r.Max.Y > screen.Max.Y {
		d.Y = screen.Max.Y - r.Max.Y
	}
	r = r.Add(d)
	d = image.Point{}
	if r.Min.X < screen.Min.X {
		d.X = screen.Min.X - r.Min.X
	}
	if r.Min.Y < screen.Min.Y {
		d.Y = screen.Min.Y - r.Min.Y
	}
	return r.Add(d)
}

func (c *Controller) elementAt(pos image.Point) widget.Element {
	view := c.View()
	if view == nil {
		return nil
	}
	return view.ElementAt(pos)
}

func (c *Controller) beyondThreshold(pos image.Point) bool {
	d := pos.Sub(c.gestureStart)
	t := c.ctx.Config.Threshold
	return d.X*d.X+d.Y*d.Y >= t*t
}

func (c *Controller) releaseCapture() {
	if p := c.ctx.Pointer; p != nil && p.Captured() {
		p.Release()
	}
}

func (c *Controller) setState(to State) {
	from := c.state
	c.state = to
	if from == to {
		return
	}
	events.Nav.Transition(c.gesture.String(), from.String(), to.String(), c.current)
	if c.span != nil {
		c.span.AddEvent("transition", trace.WithAttributes(
			attribute.String("state.from", from.String()),
			attribute.String("state.to", to.String()),
			attribute.String("panel", c.current),
		))
	}
}

func (c *Controller) startSpan(name string, attrs ...attribute.KeyValue) {
	c.endSpan()
	c.gesture = uuid.New()
	attrs = append(attrs, attribute.String("gesture.id", c.gesture.String()))
	_, c.span = tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
}

func (c *Controller) endSpan() {
	if c.span != nil {
		c.span.End()
		c.span = nil
	}
}
