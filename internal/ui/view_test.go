package ui

import (
	"image"
	"strings"
	"testing"

	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

func TestCanvasPutClipsAndKeepsWideRunes(t *testing.T) {
	c := newCanvas(image.Rect(0, 0, 5, 2))
	c.put(1, 0, "ab", nil)
	c.put(0, 1, "界x", nil)
	c.put(4, 1, "界", nil)
	c.put(0, 5, "off", nil)
	lines := c.lines()
	if lines[0] != " ab  " {
		t.Fatalf("unexpected first row %q", lines[0])
	}
	if lines[1] != "界x  " {
		t.Fatalf("unexpected second row %q", lines[1])
	}
}

func TestCanvasFillClipsToBounds(t *testing.T) {
	c := newCanvas(image.Rect(0, 0, 3, 2))
	style := styles.Element
	c.fill(image.Rect(-2, -2, 2, 1), style)
	if c.rows[0][1].style != style || c.rows[0][2].style != nil || c.rows[1][0].style != nil {
		t.Fatalf("fill escaped its rectangle")
	}
}

func TestLabelForShowsValues(t *testing.T) {
	toggle := widget.New(widget.KindToggleable, "snap")
	toggle.Attrs().Text = "snap"
	choice := widget.New(widget.KindChoice, "pivot").(*widget.Choice)
	choice.Attrs().Text = "pivot"
	choice.Options = []string{"median", "cursor"}
	slider := widget.New(widget.KindSlider, "strength")
	field := widget.New(widget.KindEditable, "rename_group")

	cases := []struct {
		el   widget.Element
		want string
	}{
		{toggle, "[ ] snap"},
		{choice, "pivot: median"},
		{slider, "strength 0.00"},
		{field, "rename group"},
	}
	for _, tc := range cases {
		if got := labelFor(tc.el); got != tc.want {
			t.Fatalf("labelFor(%s) = %q, want %q", tc.el.Name(), got, tc.want)
		}
	}
	toggle.(*widget.Toggle).Checked = true
	if got := labelFor(toggle); got != "[x] snap" {
		t.Fatalf("expected checked toggle, got %q", got)
	}
}

func TestCanvasOffsetBounds(t *testing.T) {
	c := newCanvas(image.Rect(-3, -1, 2, 1))
	c.put(-3, -1, "ab", nil)
	c.put(0, 0, "z", nil)
	lines := c.lines()
	if lines[0] != "ab   " || lines[1] != "   z " {
		t.Fatalf("unexpected rows %q", lines)
	}
}

func TestHiddenViewShowsHint(t *testing.T) {
	m := newTestModel(t, Options{Width: 80, Height: 24})
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[23], hiddenHint) {
		t.Fatalf("expected hint on the status row, got %q", lines[23])
	}
}

func TestViewWithoutSizeShrinksToPanel(t *testing.T) {
	h := NewHarness(newTestModel(t, Options{}))
	h.Key("`")
	view := h.View()
	if !strings.Contains(view, "extrude") {
		t.Fatalf("expected panel content, got:\n%s", view)
	}
	if h.Model().Controller().Overlay() != pt(-7, -7) {
		t.Fatalf("expected panel centred on the origin, got %v", h.Model().Controller().Overlay())
	}
}

func TestVerboseStatusShowsState(t *testing.T) {
	h := NewHarness(newTestModel(t, Options{Width: 80, Height: 24, Verbose: true}))
	h.Key("`")
	if !strings.Contains(h.View(), "[level1 command_menu path=1]") {
		t.Fatalf("expected verbose state, got:\n%s", h.View())
	}
}

func TestTooltipFollowsHover(t *testing.T) {
	h := NewHarness(newTestModel(t, Options{Width: 80, Height: 24}))
	h.Press(tea.MouseButtonLeft, 40, 12)
	h.Release(40, 12)
	h.Move(40, 6)
	if !strings.Contains(h.View(), "Orbit around the selection") {
		t.Fatalf("expected orbit tooltip, got:\n%s", h.View())
	}
}

func TestFooterListsRecentCommands(t *testing.T) {
	h := NewHarness(newTestModel(t, Options{Width: 80, Height: 24, ShowFooter: true}))
	h.Key("`")
	h.Key("tab")
	h.Key("enter")
	view := h.View()
	if !strings.Contains(view, "1  command_menu.extrude  Extrude.") {
		t.Fatalf("expected command history in footer, got:\n%s", view)
	}
	if !strings.Contains(view, "` menu") {
		t.Fatalf("expected key hints in footer, got:\n%s", view)
	}
	if n := len(strings.Split(view, "\n")); n != 24 {
		t.Fatalf("expected 24 rows, got %d", n)
	}
}
