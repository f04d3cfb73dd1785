package menu

import (
	"testing"

	"github.com/atomicstack/marking-menu/internal/layout"
	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	set, err := layout.Default()
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	return NewProvider(set)
}

func invoke(t *testing.T, p *Provider, panel, element string) registry.ActionResult {
	t.Helper()
	handlers := p.Handlers(panel)
	h, ok := handlers[element]
	if !ok {
		t.Fatalf("no handler for %s.%s", panel, element)
	}
	cmd := h.Action(registry.Invocation{Panel: panel, Element: element})
	if cmd == nil {
		t.Fatalf("expected command from %s.%s", panel, element)
	}
	res, ok := cmd().(registry.ActionResult)
	if !ok {
		t.Fatalf("expected ActionResult from %s.%s", panel, element)
	}
	return res
}

func TestHandlersSkipSubPanelElements(t *testing.T) {
	p := newProvider(t)
	handlers := p.Handlers("command_menu")
	if _, ok := handlers["transform"]; ok {
		t.Fatalf("element opening a sub-panel should have no handler")
	}
	for _, name := range []string{"extrude", "bevel", "delete"} {
		if _, ok := handlers[name]; !ok {
			t.Fatalf("expected handler for %s", name)
		}
	}
	if p.Handlers("missing") != nil {
		t.Fatalf("unknown panel should have no handlers")
	}
}

func TestRunReportsElement(t *testing.T) {
	p := newProvider(t)
	res := invoke(t, p, "command_menu", "extrude")
	if res.Info != "ran command_menu.extrude" || res.Err != nil {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestDocPrefersTooltip(t *testing.T) {
	p := newProvider(t)
	if doc := p.Handlers("camera_menu")["orbit"].Doc; doc != "Orbit around the selection" {
		t.Fatalf("expected tooltip doc, got %q", doc)
	}
	if doc := p.Handlers("camera_menu")["frame_all"].Doc; doc != "Frame all." {
		t.Fatalf("expected label doc, got %q", doc)
	}
}

func TestValueActionsUpdateTheirElement(t *testing.T) {
	p := newProvider(t)
	panel, _ := p.Panel("options")

	if res := invoke(t, p, "options", "snap"); res.Info != "options.snap on" {
		t.Fatalf("unexpected toggle result %q", res.Info)
	}
	if !panel.Find("snap").(*widget.Toggle).Checked {
		t.Fatalf("expected snap to be checked")
	}
	if res := invoke(t, p, "options", "pivot"); res.Info != "options.pivot = cursor" {
		t.Fatalf("unexpected choice result %q", res.Info)
	}
	if res := invoke(t, p, "options", "strength"); res.Info != "options.strength = 0.25" {
		t.Fatalf("unexpected slider result %q", res.Info)
	}
	if res := invoke(t, p, "options", "rename_group"); res.Info != `options.rename_group = "rename"` {
		t.Fatalf("unexpected text result %q", res.Info)
	}
}

func TestQuitEndsProgram(t *testing.T) {
	p := newProvider(t)
	h := p.Handlers("uv_window")["quit"]
	cmd := h.Action(registry.Invocation{Panel: "uv_window", Element: "quit"})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestPrettyLabel(t *testing.T) {
	cases := map[string]string{
		"frame all":    "Frame all",
		"pack_islands": "Pack islands",
		"UV":           "Uv",
		"":             "",
	}
	for in, want := range cases {
		if got := prettyLabel(in); got != want {
			t.Fatalf("prettyLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
