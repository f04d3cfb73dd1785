package widget

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"
)

// Kind is the capability tag an element variant carries from construction.
// Custom element types inherit it by embedding one of the built-in variants.
type Kind int

const (
	KindContainer Kind = iota
	KindClickable
	KindToggleable
	KindChoice
	KindEditable
	KindSlider
)

func (k Kind) String() string {
	switch k {
	case KindClickable:
		return "clickable"
	case KindToggleable:
		return "toggleable"
	case KindChoice:
		return "choice"
	case KindEditable:
		return "editable"
	case KindSlider:
		return "slider"
	default:
		return "container"
	}
}

// ParseKind maps a layout keyword onto a Kind. Unknown keywords report false.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "button", "clickable":
		return KindClickable, true
	case "toggle", "checkbox", "toggleable":
		return KindToggleable, true
	case "choice", "combo", "list":
		return KindChoice, true
	case "text", "field", "editable":
		return KindEditable, true
	case "slider", "spin":
		return KindSlider, true
	case "label", "container", "group":
		return KindContainer, true
	}
	return KindContainer, false
}

// Direction is the layout direction attribute copied onto clones.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Attrs is the attribute set shared by every element and copied verbatim
// when an element is cloned along a gesture path.
type Attrs struct {
	Text        string
	Tooltip     string
	Font        string
	Enabled     bool
	Visible     bool
	MinSize     image.Point
	MaxSize     image.Point
	Direction   Direction
	Cursor      string
	WindowIcon  string
	WindowTitle string
}

// Slot receives a signal emission and may hand back a command for the host.
type Slot func(Element) tea.Cmd

// ConnID identifies a single signal connection on an element.
type ConnID uint64

// Element is one interactive control inside a Panel.
type Element interface {
	Name() string
	Kind() Kind
	// SubPanel names the child panel this element opens, if any.
	SubPanel() string
	Attrs() *Attrs
	Rect() image.Rectangle
	SetRect(image.Rectangle)
	IsVisible() bool
	Panel() *Panel
	ClonedFrom() Element

	Connect(SignalKind, Slot) ConnID
	Disconnect(ConnID) bool
	Connections() int
	Emit(SignalKind) tea.Cmd

	base() *Base
}

type connection struct {
	id   ConnID
	kind SignalKind
	slot Slot
}

// Base carries the state common to every element variant.
type Base struct {
	name     string
	sub      string
	attrs    Attrs
	rect     image.Rectangle
	panel    *Panel
	cloneOf  Element
	self     Element
	conns    []connection
	nextConn ConnID
}

func newBase(name string) Base {
	return Base{name: name, attrs: Attrs{Enabled: true, Visible: true}}
}

func (b *Base) Name() string          { return b.name }
func (b *Base) SubPanel() string      { return b.sub }
func (b *Base) Attrs() *Attrs         { return &b.attrs }
func (b *Base) Rect() image.Rectangle { return b.rect }
func (b *Base) Panel() *Panel         { return b.panel }
func (b *Base) ClonedFrom() Element   { return b.cloneOf }
func (b *Base) base() *Base           { return b }

// SetSubPanel records the child panel this element opens.
func (b *Base) SetSubPanel(name string) { b.sub = name }

func (b *Base) SetRect(r image.Rectangle) {
	b.rect = r.Canon()
	if b.panel != nil {
		b.panel.invalidateSize()
	}
}

// IsVisible reports whether the element can currently be hit or measured.
func (b *Base) IsVisible() bool {
	return b.attrs.Visible && !b.rect.Empty()
}

func (b *Base) Connect(kind SignalKind, slot Slot) ConnID {
	b.nextConn++
	b.conns = append(b.conns, connection{id: b.nextConn, kind: kind, slot: slot})
	return b.nextConn
}

func (b *Base) Disconnect(id ConnID) bool {
	for i, c := range b.conns {
		if c.id == id {
			b.conns = append(b.conns[:i], b.conns[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Base) Connections() int { return len(b.conns) }

// Emit invokes every slot connected to kind in connection order. Disabled
// elements swallow emissions.
func (b *Base) Emit(kind SignalKind) tea.Cmd {
	if !b.attrs.Enabled || kind == SignalNone {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(b.conns))
	for _, c := range append([]connection(nil), b.conns...) {
		if c.kind != kind {
			continue
		}
		if cmd := c.slot(b.self); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Button is the clickable variant.
type Button struct{ Base }

func (*Button) Kind() Kind { return KindClickable }

// Toggle is the two-state variant.
type Toggle struct {
	Base
	Checked bool
}

func (*Toggle) Kind() Kind { return KindToggleable }

// Choice selects one entry out of Options.
type Choice struct {
	Base
	Options []string
	Index   int
}

func (*Choice) Kind() Kind { return KindChoice }

// TextField is the editable-text variant.
type TextField struct {
	Base
	Value string
}

func (*TextField) Kind() Kind { return KindEditable }

// Slider holds a bounded numeric value.
type Slider struct {
	Base
	Min, Max, Value float64
}

func (*Slider) Kind() Kind { return KindSlider }

// Label is a non-interactive container/caption.
type Label struct{ Base }

func (*Label) Kind() Kind { return KindContainer }

// New constructs a fresh element of the given structural kind.
func New(kind Kind, name string) Element {
	b := newBase(name)
	var el Element
	switch kind {
	case KindClickable:
		el = &Button{Base: b}
	case KindToggleable:
		el = &Toggle{Base: b}
	case KindChoice:
		el = &Choice{Base: b}
	case KindEditable:
		el = &TextField{Base: b}
	case KindSlider:
		el = &Slider{Base: b, Max: 1}
	default:
		el = &Label{Base: b}
	}
	el.base().self = el
	return el
}

// NewClone constructs an element of the same kind as src that remembers its
// source. Attributes are left for the caller to copy.
func NewClone(src Element) Element {
	el := New(src.Kind(), src.Name())
	el.base().cloneOf = src
	el.base().sub = src.SubPanel()
	return el
}

// Interactive reports whether the element can be bound to a handler.
func Interactive(el Element) bool {
	return el != nil && el.Kind() != KindContainer
}
