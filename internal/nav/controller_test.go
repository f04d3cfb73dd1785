package nav

import (
	"image"
	"testing"

	"github.com/atomicstack/marking-menu/internal/registry"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	panels   map[string]*widget.Panel
	handlers map[string]registry.Handlers
	calls    map[string]int
}

func (f *fixture) Panel(name string) (*widget.Panel, bool) {
	p, ok := f.panels[name]
	return p, ok
}

func (f *fixture) Handlers(name string) registry.Handlers { return f.handlers[name] }

func (f *fixture) PanelNames() []string {
	names := make([]string, 0, len(f.panels))
	for name := range f.panels {
		names = append(names, name)
	}
	return names
}

type item struct {
	name string
	sub  string
	rect image.Rectangle
}

func (f *fixture) add(panel string, elements ...item) {
	view := widget.NewPanel(panel, panel)
	handlers := registry.Handlers{}
	for _, s := range elements {
		el := widget.New(widget.KindClickable, s.name)
		el.(interface{ SetSubPanel(string) }).SetSubPanel(s.sub)
		el.SetRect(s.rect)
		view.Add(el)
		if s.sub == "" {
			key := panel + "." + s.name
			handlers[s.name] = registry.Handler{
				Doc: "Run " + s.name + ".",
				Action: func(registry.Invocation) tea.Cmd {
					f.calls[key]++
					return nil
				},
			}
		}
	}
	f.panels[panel] = view
	f.handlers[panel] = handlers
}

func row(i, width int) image.Rectangle {
	return image.Rect(0, i*3, width, i*3+3)
}

// newFixture lays out the camera menu so that a press at (100,100) centres
// it with "pan" under the pointer, "orbit" three cells above and "group"
// three cells below.
func newFixture() *fixture {
	f := &fixture{
		panels:   map[string]*widget.Panel{},
		handlers: map[string]registry.Handlers{},
		calls:    map[string]int{},
	}
	f.add(CameraPanel,
		item{name: "orbit", rect: row(0, 10)},
		item{name: "pan", rect: row(1, 10)},
		item{name: "group", sub: "options", rect: row(2, 10)},
	)
	f.add("options",
		item{name: "extrude", rect: row(0, 8)},
		item{name: "group", rect: row(1, 8)},
		item{name: "more", sub: "more_options", rect: row(2, 8)},
		item{name: "back", sub: CameraPanel, rect: row(3, 8)},
	)
	f.add("more_options",
		item{name: "bevel", rect: row(0, 8)},
		item{name: "less", sub: "options", rect: row(1, 8)},
	)
	f.add(EditorPanel, item{name: "undo", rect: row(0, 10)})
	f.add(CommandPanel, item{name: "extrude_all", rect: row(0, 10)})
	f.add("uv_window", item{name: "unwrap", rect: row(0, 10)})
	return f
}

func newController(t *testing.T) (*Controller, *fixture, *SoftPointer) {
	t.Helper()
	f := newFixture()
	pointer := &SoftPointer{}
	ctx := NewContext(registry.New(f), pointer, DefaultConfig())
	return NewController(ctx), f, pointer
}

func find(t *testing.T, c *Controller, name string) widget.Element {
	t.Helper()
	view := c.View()
	require.NotNil(t, view)
	el := view.Find(name)
	require.NotNil(t, el, "element %s in %s", name, view.Name)
	return el
}

func anchorOf(t *testing.T, el widget.Element) image.Point {
	t.Helper()
	pt, ok := el.Panel().Anchor(el)
	require.True(t, ok)
	return pt
}

// dragThroughGroup drives a left-button gesture from (100,100) through "group".
func dragThroughGroup(t *testing.T, c *Controller) image.Point {
	t.Helper()
	c.Press(ButtonLeft, image.Pt(100, 100), 0)
	group := find(t, c, "group")
	p1 := anchorOf(t, group)
	c.Move(p1)
	c.Release(ButtonLeft, p1)
	return p1
}

func TestLeftPressOpensCameraPanel(t *testing.T) {
	c, _, pointer := newController(t)
	c.Press(ButtonLeft, image.Pt(100, 100), 0)

	assert.Equal(t, Level1, c.State())
	assert.Equal(t, CameraPanel, c.Current())
	assert.Equal(t, CameraPanel, c.Registry().ActivePanel())
	require.Equal(t, 1, c.Path().Len())
	origin, ok := c.Path().Origin()
	require.True(t, ok)
	assert.Equal(t, image.Pt(100, 100), origin)
	assert.Nil(t, c.Path().Entries()[0].Element)
	assert.True(t, pointer.Captured())
	assert.Equal(t, image.Pt(100, 100), widget.Center(c.View().Bounds()))
}

func TestButtonsSelectFixedCategoryPanels(t *testing.T) {
	cases := map[Button]string{
		ButtonLeft:   CameraPanel,
		ButtonMiddle: EditorPanel,
		ButtonRight:  CommandPanel,
	}
	for btn, want := range cases {
		c, _, _ := newController(t)
		c.Press(btn, image.Pt(50, 50), 0)
		assert.Equal(t, want, c.Current(), btn.String())
		assert.Equal(t, Level1, c.State())
	}
}

func TestHopKeepsAnchorUnderPointer(t *testing.T) {
	c, _, pointer := newController(t)
	p1 := dragThroughGroup(t, c)

	assert.Equal(t, Level2, c.State())
	assert.Equal(t, "options", c.Current())
	assert.Equal(t, "options", c.Registry().ActivePanel())
	require.Equal(t, 2, c.Path().Len())
	last, _ := c.Path().Last()
	assert.Equal(t, "group", last.Element.Name())
	assert.Equal(t, p1, last.Anchor)
	assert.Equal(t, p1, anchorOf(t, find(t, c, "group")))
	assert.False(t, pointer.Captured())
	assert.Empty(t, c.Path().Clones())
	assert.Equal(t, []string{"options"}, c.Registry().ConnectedPanels())
}

func TestReturnZoneCollapsesPath(t *testing.T) {
	c, _, _ := newController(t)
	dragThroughGroup(t, c)

	// The zone only triggers where no element of the child panel is shown.
	find(t, c, "extrude").Attrs().Visible = false
	c.Move(image.Pt(100, 100))
	assert.Equal(t, 1, c.Path().Len())
	assert.Equal(t, Level1, c.State())
	assert.Equal(t, CameraPanel, c.Current())
	assert.Equal(t, image.Pt(100, 100), widget.Center(c.View().Bounds()))
}

func TestElementOverReturnZoneWins(t *testing.T) {
	c, _, _ := newController(t)
	dragThroughGroup(t, c)
	extrude := find(t, c, "extrude")
	require.True(t, c.Path().InReturnZone(image.Pt(100, 100)))

	c.Move(image.Pt(100, 100))
	assert.Equal(t, "options", c.Current())
	assert.Equal(t, Level2, c.State())
	assert.Equal(t, 2, c.Path().Len())
	assert.Same(t, extrude, c.Hover())
}

func TestHopBackIntoOriginPanelTruncatesToOrigin(t *testing.T) {
	c, _, _ := newController(t)
	dragThroughGroup(t, c)

	c.Activate(find(t, c, "back"))
	assert.Equal(t, 1, c.Path().Len())
	assert.Equal(t, CameraPanel, c.Current())
	assert.Equal(t, Level1, c.State())
}

func TestBouncingBetweenChildPanelsIsBounded(t *testing.T) {
	c, _, _ := newController(t)
	dragThroughGroup(t, c)

	for i := 0; i < 10; i++ {
		c.Activate(find(t, c, "more"))
		require.Equal(t, "more_options", c.Current())
		require.LessOrEqual(t, c.Path().Len()-1, 2)
		require.Len(t, c.Path().Clones(), 1)

		c.Activate(find(t, c, "less"))
		require.Equal(t, "options", c.Current())
		require.LessOrEqual(t, c.Path().Len()-1, 2)
		require.Empty(t, c.Path().Clones())
	}
}

func TestHoveringCloneJumpsBack(t *testing.T) {
	c, _, _ := newController(t)
	p1 := dragThroughGroup(t, c)
	c.Activate(find(t, c, "more"))
	require.Equal(t, 3, c.Path().Len())

	clones := c.Path().Clones()
	require.Len(t, clones, 1)
	assert.Equal(t, "group", clones[0].Element.Name())
	assert.Same(t, c.View(), clones[0].Element.Panel())
	assert.True(t, c.Registry().IsProtected(clones[0].Element))

	c.Move(p1)
	assert.Equal(t, "options", c.Current())
	assert.Equal(t, 2, c.Path().Len())
	assert.Equal(t, p1, anchorOf(t, find(t, c, "group")))
	assert.False(t, c.Registry().IsProtected(clones[0].Element))
}

func TestReleaseBelowThresholdIdlesAtOrigin(t *testing.T) {
	c, _, pointer := newController(t)
	c.Press(ButtonLeft, image.Pt(100, 100), 0)
	c.Release(ButtonLeft, image.Pt(101, 100))

	assert.Equal(t, Level0, c.State())
	assert.Equal(t, 1, c.Path().Len())
	assert.Equal(t, CameraPanel, c.Current())
	assert.False(t, pointer.Captured())
}

func TestReleaseOverNothingHides(t *testing.T) {
	c, _, _ := newController(t)
	c.Press(ButtonLeft, image.Pt(100, 100), 0)
	c.Release(ButtonLeft, image.Pt(140, 140))
	assert.Equal(t, Hidden, c.State())
}

func TestClickModeActivatesArmedElement(t *testing.T) {
	c, f, _ := newController(t)
	dragThroughGroup(t, c)

	extrude := anchorOf(t, find(t, c, "extrude"))
	c.Press(ButtonLeft, extrude, 0)
	assert.Equal(t, Level2, c.State(), "press over an element arms it")
	c.Release(ButtonLeft, extrude)

	assert.Equal(t, 1, f.calls["options.extrude"])
	assert.Equal(t, Hidden, c.State())
	rec, ok := c.Registry().MostRecentCommand()
	require.True(t, ok)
	assert.Equal(t, "extrude", rec.Element)
}

func TestArmedElementNeedsReleaseOverIt(t *testing.T) {
	c, f, _ := newController(t)
	dragThroughGroup(t, c)

	c.Press(ButtonLeft, anchorOf(t, find(t, c, "extrude")), 0)
	c.Release(ButtonLeft, image.Pt(0, 0))
	assert.Zero(t, f.calls["options.extrude"])
	assert.Equal(t, Level2, c.State())
}

func TestDoubleClickWithoutHistory(t *testing.T) {
	for _, btn := range []Button{ButtonLeft, ButtonMiddle, ButtonRight} {
		for _, mods := range []Modifiers{0, ModShift} {
			c, f, _ := newController(t)
			var cmd tea.Cmd
			assert.NotPanics(t, func() { cmd = c.DoubleClick(btn, image.Pt(10, 10), mods) })
			assert.Nil(t, cmd)
			assert.Empty(t, f.calls)
			assert.Equal(t, Hidden, c.State())
		}
	}
}

func TestDoubleClickRepeatsHistory(t *testing.T) {
	c, f, _ := newController(t)

	// secondary action from the camera panel
	c.Press(ButtonLeft, image.Pt(100, 100), 0)
	orbit := anchorOf(t, find(t, c, "orbit"))
	c.Release(ButtonLeft, orbit)
	require.Equal(t, 1, f.calls["camera_menu.orbit"])
	_, ok := c.Registry().MostRecentCommand()
	require.False(t, ok)

	// command from a sub-panel
	dragThroughGroup(t, c)
	c.Activate(find(t, c, "extrude"))
	require.Equal(t, 1, f.calls["options.extrude"])

	c.DoubleClick(ButtonLeft, image.Pt(5, 5), ModShift)
	assert.Equal(t, 2, f.calls["camera_menu.orbit"])
	c.DoubleClick(ButtonRight, image.Pt(5, 5), 0)
	assert.Equal(t, 2, f.calls["options.extrude"])
	assert.Equal(t, Hidden, c.State())
}

func TestDoubleClickMiddleReopensStandalonePanel(t *testing.T) {
	c, _, _ := newController(t)
	require.True(t, c.OpenStandalone("uv", image.Pt(40, 40)))
	assert.Equal(t, "uv_window", c.Current())
	assert.Equal(t, Level3, c.State())
	c.Hide()

	c.DoubleClick(ButtonMiddle, image.Pt(60, 20), 0)
	assert.Equal(t, "uv_window", c.Current())
	assert.Equal(t, Level3, c.State())
	assert.Equal(t, image.Pt(60, 20), widget.Center(c.View().Bounds()))
}

func TestStandalonePanelStaysOpenAfterActivation(t *testing.T) {
	c, f, _ := newController(t)
	require.True(t, c.OpenStandalone("uv_window", image.Pt(40, 40)))
	c.Activate(find(t, c, "unwrap"))
	assert.Equal(t, 1, f.calls["uv_window.unwrap"])
	assert.Equal(t, Level3, c.State())

	assert.False(t, c.OpenStandalone("zzz", image.Pt(0, 0)))
}

func TestHotkeyCentresFirstShowAndRestoresPointer(t *testing.T) {
	c, _, pointer := newController(t)
	c.Context().Overlay.Screen = image.Rect(0, 0, 200, 100)

	c.HotkeyPress(image.Pt(10, 10))
	assert.Equal(t, CommandPanel, c.Current())
	assert.Equal(t, Level1, c.State())
	assert.Equal(t, image.Pt(100, 50), widget.Center(c.View().Bounds()))
	shape, on := pointer.Shape()
	assert.True(t, on)
	assert.Equal(t, "crosshair", shape)

	c.HotkeyRelease()
	assert.Equal(t, Hidden, c.State())
	_, on = pointer.Shape()
	assert.False(t, on)

	c.HotkeyPress(image.Pt(30, 30))
	assert.Equal(t, image.Pt(30, 30), widget.Center(c.View().Bounds()))
}

func TestHotkeyReopensLastCategoryPanel(t *testing.T) {
	c, _, _ := newController(t)
	c.Press(ButtonMiddle, image.Pt(50, 50), 0)
	c.Hide()
	c.HotkeyPress(image.Pt(50, 50))
	assert.Equal(t, EditorPanel, c.Current())
}

func TestCaptureConflictReleasesStaleCapture(t *testing.T) {
	c, _, pointer := newController(t)
	pointer.Capture()
	c.Press(ButtonRight, image.Pt(50, 50), 0)
	assert.True(t, pointer.Captured())
	c.Release(ButtonRight, image.Pt(50, 51))
	assert.False(t, pointer.Captured())
}

func TestHideClearsStateFromEveryReachableState(t *testing.T) {
	drives := map[string]func(*testing.T, *Controller){
		"hidden": func(*testing.T, *Controller) {},
		"level0": func(t *testing.T, c *Controller) {
			c.Press(ButtonLeft, image.Pt(100, 100), 0)
			c.Release(ButtonLeft, image.Pt(100, 100))
		},
		"level1": func(t *testing.T, c *Controller) {
			c.Press(ButtonLeft, image.Pt(100, 100), 0)
		},
		"level2": func(t *testing.T, c *Controller) {
			dragThroughGroup(t, c)
			c.Activate(find(t, c, "more"))
		},
		"level3": func(t *testing.T, c *Controller) {
			c.OpenStandalone("uv_window", image.Pt(20, 20))
		},
		"hotkey": func(t *testing.T, c *Controller) {
			c.HotkeyPress(image.Pt(20, 20))
		},
	}
	for name, drive := range drives {
		t.Run(name, func(t *testing.T) {
			c, _, pointer := newController(t)
			drive(t, c)
			for i := 0; i < 2; i++ {
				c.Hide()
				assert.Equal(t, Hidden, c.State())
				assert.LessOrEqual(t, c.Path().Len(), 1)
				assert.Empty(t, c.Path().Clones())
				assert.Empty(t, c.Registry().ConnectedPanels())
				assert.Zero(t, c.Registry().ReleaseProtected())
				assert.False(t, pointer.Captured())
				assert.Nil(t, c.View())
			}
		})
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "level3", Level3.String())
	assert.Equal(t, "middle", ButtonMiddle.String())
	assert.True(t, (ModCtrl | ModAlt).Any())
	assert.False(t, Modifiers(0).Any())
}
