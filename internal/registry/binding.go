package registry

import (
	"strings"
	"unicode"

	"github.com/atomicstack/marking-menu/internal/widget"
)

// signalKinds maps the capability tag of an element onto the one signal its
// class is wired to. Containers have no signal and are never connected.
var signalKinds = map[widget.Kind]widget.SignalKind{
	widget.KindClickable:  widget.SignalActivated,
	widget.KindToggleable: widget.SignalToggled,
	widget.KindChoice:     widget.SignalIndexChanged,
	widget.KindEditable:   widget.SignalValueCommitted,
	widget.KindSlider:     widget.SignalValueChanged,
}

// SignalFor returns the signal an element of the given kind is wired to.
func SignalFor(kind widget.Kind) widget.SignalKind {
	return signalKinds[kind]
}

// BindingInfo is the resolved association between one element and the
// handler it invokes.
type BindingInfo struct {
	Element     widget.Element
	DisplayName string
	SignalKind  widget.SignalKind
	Handler     *Handler
	DerivedKind widget.Kind
	NamePrefix  string
	DocSummary  string
	Tooltip     string

	conn      widget.ConnID
	connected bool
}

// Inert reports whether the binding resolved no handler.
func (b *BindingInfo) Inert() bool {
	return b.Handler == nil || b.Handler.Action == nil || b.SignalKind == widget.SignalNone
}

// Connected reports whether the binding currently has a live connection.
func (b *BindingInfo) Connected() bool { return b.connected }

func (b *BindingInfo) resolve(el widget.Element, handlers Handlers) {
	b.Element = el
	b.DisplayName = el.Name()
	b.DerivedKind = el.Kind()
	b.SignalKind = SignalFor(b.DerivedKind)
	b.NamePrefix = namePrefix(b.DisplayName)
	b.Tooltip = el.Attrs().Tooltip
	b.Handler = nil
	b.DocSummary = ""
	if h, ok := handlers[b.DisplayName]; ok {
		handler := h
		b.Handler = &handler
		b.DocSummary = docSummary(h.Doc)
	}
}

// namePrefix extracts the leading alphanumeric run of a display name, used to
// infer an element's category ("extrude_faces" => "extrude").
func namePrefix(name string) string {
	end := strings.IndexFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if end < 0 {
		return name
	}
	return name[:end]
}

func docSummary(doc string) string {
	doc = strings.TrimSpace(doc)
	if idx := strings.IndexByte(doc, '\n'); idx >= 0 {
		doc = doc[:idx]
	}
	return strings.TrimSpace(doc)
}
