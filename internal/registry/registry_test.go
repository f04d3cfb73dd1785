package registry

import (
	"fmt"
	"image"
	"math/rand"
	"testing"

	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	panels   map[string]*widget.Panel
	handlers map[string]Handlers
}

func (p *stubProvider) Panel(name string) (*widget.Panel, bool) {
	view, ok := p.panels[name]
	return view, ok
}

func (p *stubProvider) Handlers(name string) Handlers { return p.handlers[name] }

func (p *stubProvider) PanelNames() []string {
	names := make([]string, 0, len(p.panels))
	for name := range p.panels {
		names = append(names, name)
	}
	return names
}

func newStubProvider() *stubProvider {
	return &stubProvider{panels: map[string]*widget.Panel{}, handlers: map[string]Handlers{}}
}

// addPanel builds a panel with one button per name and a counting handler
// for each of them.
func (p *stubProvider) addPanel(name string, calls map[string]int, buttons ...string) *widget.Panel {
	view := widget.NewPanel(name, name)
	handlers := Handlers{}
	for i, b := range buttons {
		el := widget.New(widget.KindClickable, b)
		el.SetRect(image.Rect(0, i*3, 10, i*3+3))
		view.Add(el)
		key := name + "." + b
		handlers[b] = Handler{
			Doc: fmt.Sprintf("Run %s.\nLonger description.", b),
			Action: func(Invocation) tea.Cmd {
				calls[key]++
				return nil
			},
		}
	}
	p.panels[name] = view
	p.handlers[name] = handlers
	return view
}

func TestLevelFromName(t *testing.T) {
	cases := map[string]Level{
		"root":            LevelIdle,
		"scene_root":      LevelIdle,
		"camera_menu":     LevelCategory,
		"options_submenu": LevelSub,
		"options":         LevelSub,
		"uv_window":       LevelMain,
		"modeling_main":   LevelMain,
	}
	for name, want := range cases {
		assert.Equal(t, want, LevelFromName(name), name)
	}
}

func TestRegisterPanelIsIdempotentAndHonoursDeclaredLevel(t *testing.T) {
	prov := newStubProvider()
	view := prov.addPanel("tools", map[string]int{}, "extrude")
	view.Level = int(LevelMain)
	reg := New(prov)

	first, ok := reg.RegisterPanel("tools")
	require.True(t, ok)
	second, ok := reg.RegisterPanel("tools")
	require.True(t, ok)
	assert.Same(t, first, second)
	assert.Equal(t, LevelMain, first.Level)
	assert.Len(t, first.Bindings(), 1)

	_, ok = reg.RegisterPanel("missing")
	assert.False(t, ok)
}

func TestBindElementTwiceKeepsSingleBinding(t *testing.T) {
	prov := newStubProvider()
	view := prov.addPanel("command_menu", map[string]int{}, "extrude")
	reg := New(prov)

	el := view.Find("extrude")
	a, ok := reg.BindElement("command_menu", el)
	require.True(t, ok)
	b, ok := reg.BindElement("command_menu", el)
	require.True(t, ok)

	entry, _ := reg.Lookup("command_menu")
	assert.Same(t, a, b)
	assert.Len(t, entry.Bindings(), 1)
	assert.Equal(t, widget.SignalActivated, a.SignalKind)
	assert.Equal(t, widget.KindClickable, a.DerivedKind)
	assert.Equal(t, "Run extrude.", a.DocSummary)
}

func TestBindElementResolutionMisses(t *testing.T) {
	prov := newStubProvider()
	view := prov.addPanel("command_menu", map[string]int{}, "extrude")
	reg := New(prov)

	nameless := widget.New(widget.KindClickable, "")
	view.Add(nameless)
	_, ok := reg.BindElement("command_menu", nameless)
	assert.False(t, ok)

	orphan := widget.New(widget.KindEditable, "rename_field")
	view.Add(orphan)
	info, ok := reg.BindElement("command_menu", orphan)
	require.True(t, ok)
	assert.True(t, info.Inert())
	assert.Equal(t, widget.SignalValueCommitted, info.SignalKind)
	assert.Equal(t, "rename", info.NamePrefix)

	_, ok = reg.BindElement("nowhere", orphan)
	assert.False(t, ok)
}

func TestActivatePanelKeepsSingleConnectedPanel(t *testing.T) {
	prov := newStubProvider()
	names := []string{"camera_menu", "editor_menu", "command_menu", "options"}
	for _, name := range names {
		prov.addPanel(name, map[string]int{}, "a", "b", "c")
	}
	reg := New(prov)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		target := names[rng.Intn(len(names))]
		if rng.Intn(5) == 0 {
			target = "unknown"
		}
		reg.ActivatePanel(target)
		connected := reg.ConnectedPanels()
		require.LessOrEqual(t, len(connected), 1, "step %d", i)
		if len(connected) == 1 {
			assert.Equal(t, reg.ActivePanel(), connected[0])
		}
	}
}

func TestActivateUnknownPanelKeepsCurrentConnections(t *testing.T) {
	prov := newStubProvider()
	prov.addPanel("command_menu", map[string]int{}, "extrude")
	reg := New(prov)

	require.True(t, reg.ActivatePanel("command_menu"))
	assert.False(t, reg.ActivatePanel("ghost"))
	assert.Equal(t, "command_menu", reg.ActivePanel())
	assert.Equal(t, []string{"command_menu"}, reg.ConnectedPanels())
}

func TestEmitRecordsIntoMatchingHistory(t *testing.T) {
	calls := map[string]int{}
	prov := newStubProvider()
	camera := prov.addPanel("camera_menu", calls, "orbit")
	commands := prov.addPanel("command_menu", calls, "extrude")
	reg := New(prov)
	reg.MarkSecondary("camera_menu")

	reg.ActivatePanel("camera_menu")
	camera.Find("orbit").Emit(widget.SignalActivated)
	commands.Find("extrude").Emit(widget.SignalActivated)
	assert.Equal(t, 1, calls["camera_menu.orbit"])
	assert.Equal(t, 0, calls["command_menu.extrude"], "inactive panel must be inert")

	reg.ActivatePanel("command_menu")
	commands.Find("extrude").Emit(widget.SignalActivated)
	assert.Equal(t, 1, calls["command_menu.extrude"])

	sec, ok := reg.MostRecentSecondaryAction()
	require.True(t, ok)
	assert.Equal(t, "orbit", sec.Element)
	cmd, ok := reg.MostRecentCommand()
	require.True(t, ok)
	assert.Equal(t, "extrude", cmd.Element)

	reg.Repeat(cmd)
	assert.Equal(t, 2, calls["command_menu.extrude"])
	assert.Len(t, reg.Commands(), 1)
}

func TestHistoryDedupAndBound(t *testing.T) {
	reg := New(nil)
	rec := Record{Panel: "command_menu", Element: "extrude", Doc: "Extrude."}
	reg.RecordCommand(rec)
	reg.RecordCommand(rec)
	assert.Len(t, reg.Commands(), 1)

	for i := 0; i < 50; i++ {
		reg.RecordCommand(Record{Panel: "command_menu", Element: fmt.Sprintf("cmd%d", i%25)})
		reg.RecordCommand(Record{Panel: "command_menu", Element: fmt.Sprintf("cmd%d", i%25)})
		items := reg.Commands()
		require.LessOrEqual(t, len(items), commandHistoryLimit)
		for j := 1; j < len(items); j++ {
			require.NotEqual(t, items[j-1].key(), items[j].key())
		}
	}
	last, ok := reg.MostRecentCommand()
	require.True(t, ok)
	assert.Equal(t, "cmd24", last.Element)
}

func TestHistoryLogMovesReappearingEntryToTail(t *testing.T) {
	h := NewHistoryLog(3, func(s string) string { return s })
	for _, s := range []string{"a", "b", "a", "c", "d"} {
		h.Push(s)
	}
	assert.Equal(t, []string{"a", "c", "d"}, h.Items())
}

func TestMostRecentViewSkipsCurrentAndExcludedLevels(t *testing.T) {
	prov := newStubProvider()
	for _, name := range []string{"camera_menu", "uv_window", "options", "command_menu"} {
		prov.addPanel(name, map[string]int{}, "a")
	}
	reg := New(prov)

	_, ok := reg.MostRecentView()
	assert.False(t, ok)

	for _, name := range []string{"camera_menu", "uv_window", "options", "command_menu"} {
		reg.ActivatePanel(name)
	}
	got, ok := reg.MostRecentView()
	require.True(t, ok)
	assert.Equal(t, "options", got)

	got, ok = reg.MostRecentView(LevelIdle, LevelCategory, LevelSub)
	require.True(t, ok)
	assert.Equal(t, "uv_window", got)

	got, ok = reg.LastView(LevelIdle, LevelSub, LevelMain)
	require.True(t, ok)
	assert.Equal(t, "command_menu", got)
}

func TestProtectIsReferenceCounted(t *testing.T) {
	reg := New(nil)
	obj := widget.New(widget.KindClickable, "clone")
	reg.Protect(obj)
	reg.Protect(obj)
	reg.Unprotect(obj)
	assert.True(t, reg.IsProtected(obj))
	reg.Unprotect(obj)
	assert.False(t, reg.IsProtected(obj))

	reg.Protect(obj)
	reg.Protect(widget.New(widget.KindClickable, "other"))
	assert.Equal(t, 2, reg.ReleaseProtected())
	assert.False(t, reg.IsProtected(obj))
	assert.Equal(t, 0, reg.ReleaseProtected())
}

func TestProtectIgnoresUnhashableValues(t *testing.T) {
	reg := New(nil)
	assert.NotPanics(t, func() {
		reg.Protect([]int{1, 2})
		reg.Protect(map[string]int{"a": 1})
		reg.Unprotect([]int{1, 2})
	})
	assert.False(t, reg.IsProtected([]int{1, 2}))
	assert.Equal(t, 0, reg.ReleaseProtected())
}

func TestFindPanelPrefersExactThenFuzzy(t *testing.T) {
	prov := newStubProvider()
	for _, name := range []string{"uv_window", "uv_window_tools", "render_window"} {
		prov.addPanel(name, map[string]int{}, "a")
	}
	reg := New(prov)

	got, ok := reg.FindPanel("uv_window")
	require.True(t, ok)
	assert.Equal(t, "uv_window", got)

	got, ok = reg.FindPanel("rndr")
	require.True(t, ok)
	assert.Equal(t, "render_window", got)

	_, ok = reg.FindPanel("zzz")
	assert.False(t, ok)
}
