package menu

import (
	"strings"
	"unicode"

	"github.com/atomicstack/marking-menu/internal/layout"
	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/widget"
)

// Provider serves the panels of a layout set together with the handler
// table of each panel.
type Provider struct {
	set      *layout.Set
	named    map[string]registry.Action
	byKind   map[widget.Kind]registry.Action
	fallback registry.Action
}

// NewProvider builds a provider over set with the built-in actions.
func NewProvider(set *layout.Set) *Provider {
	p := &Provider{set: set}
	p.named = p.ActionHandlers()
	p.byKind = p.KindHandlers()
	p.fallback = p.run
	return p
}

func (p *Provider) Panel(name string) (*widget.Panel, bool) { return p.set.Panel(name) }

func (p *Provider) PanelNames() []string { return p.set.PanelNames() }

// Handlers builds the handler table for panel. Elements that open a
// sub-panel get none. Every other interactive element gets the action
// registered for "panel.element", then for its bare name, then for its
// kind.
func (p *Provider) Handlers(name string) registry.Handlers {
	panel, ok := p.set.Panel(name)
	if !ok {
		return nil
	}
	handlers := make(registry.Handlers)
	for _, el := range panel.Elements() {
		if !widget.Interactive(el) || el.SubPanel() != "" || el.ClonedFrom() != nil {
			continue
		}
		handlers[el.Name()] = registry.Handler{
			Doc:    docFor(el),
			Action: p.actionFor(name, el),
		}
	}
	return handlers
}

func (p *Provider) actionFor(panel string, el widget.Element) registry.Action {
	if action, ok := p.named[panel+"."+el.Name()]; ok {
		return action
	}
	if action, ok := p.named[el.Name()]; ok {
		return action
	}
	if action, ok := p.byKind[el.Kind()]; ok {
		return action
	}
	return p.fallback
}

// source resolves the element an invocation refers to. Replays from
// history carry no source element, so it is looked up by name.
func (p *Provider) source(inv registry.Invocation) widget.Element {
	if inv.Source != nil {
		return inv.Source
	}
	panel, ok := p.set.Panel(inv.Panel)
	if !ok {
		return nil
	}
	return panel.Find(inv.Element)
}

func docFor(el widget.Element) string {
	if tip := strings.TrimSpace(el.Attrs().Tooltip); tip != "" {
		return tip
	}
	label := el.Attrs().Text
	if label == "" {
		label = el.Name()
	}
	return prettyLabel(label) + "."
}

// prettyLabel capitalises the first word of id and joins its parts with
// spaces.
func prettyLabel(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(parts) == 0 {
		return id
	}
	runes := []rune(strings.ToLower(parts[0]))
	runes[0] = unicode.ToUpper(runes[0])
	parts[0] = string(runes)
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, " ")
}
