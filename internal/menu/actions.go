package menu

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

const sliderStep = 0.25

// ActionHandlers maps "panel.element" identifiers, or element names shared
// across panels, to their execution logic.
func (p *Provider) ActionHandlers() map[string]registry.Action {
	return map[string]registry.Action{
		"quit": p.quit,
	}
}

// KindHandlers maps element kinds onto the action used when no named
// action matches.
func (p *Provider) KindHandlers() map[widget.Kind]registry.Action {
	return map[widget.Kind]registry.Action{
		widget.KindClickable:  p.run,
		widget.KindToggleable: p.toggle,
		widget.KindChoice:     p.cycle,
		widget.KindSlider:     p.step,
		widget.KindEditable:   p.commit,
	}
}

func result(info string) tea.Cmd {
	return func() tea.Msg { return registry.ActionResult{Info: info} }
}

func failure(err error) tea.Cmd {
	return func() tea.Msg { return registry.ActionResult{Err: err} }
}

func id(inv registry.Invocation) string {
	return inv.Panel + "." + inv.Element
}

func (p *Provider) run(inv registry.Invocation) tea.Cmd {
	return result("ran " + id(inv))
}

func (p *Provider) quit(registry.Invocation) tea.Cmd {
	return tea.Quit
}

func (p *Provider) toggle(inv registry.Invocation) tea.Cmd {
	t, ok := p.source(inv).(*widget.Toggle)
	if !ok {
		return failure(fmt.Errorf("%s is not a toggle", id(inv)))
	}
	t.Checked = !t.Checked
	state := "off"
	if t.Checked {
		state = "on"
	}
	return result(id(inv) + " " + state)
}

func (p *Provider) cycle(inv registry.Invocation) tea.Cmd {
	c, ok := p.source(inv).(*widget.Choice)
	if !ok {
		return failure(fmt.Errorf("%s is not a choice", id(inv)))
	}
	if len(c.Options) == 0 {
		return failure(fmt.Errorf("%s has no options", id(inv)))
	}
	c.Index = (c.Index + 1) % len(c.Options)
	return result(id(inv) + " = " + c.Options[c.Index])
}

func (p *Provider) step(inv registry.Invocation) tea.Cmd {
	s, ok := p.source(inv).(*widget.Slider)
	if !ok {
		return failure(fmt.Errorf("%s is not a slider", id(inv)))
	}
	s.Value += sliderStep * (s.Max - s.Min)
	if s.Value > s.Max {
		s.Value = s.Min
	}
	return result(id(inv) + " = " + strconv.FormatFloat(s.Value, 'f', 2, 64))
}

func (p *Provider) commit(inv registry.Invocation) tea.Cmd {
	f, ok := p.source(inv).(*widget.TextField)
	if !ok {
		return failure(fmt.Errorf("%s is not a text field", id(inv)))
	}
	if f.Value == "" {
		f.Value = f.Attrs().Text
	}
	return result(fmt.Sprintf("%s = %q", id(inv), f.Value))
}
