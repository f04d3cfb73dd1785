package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/marking-menu/internal/format/table"
	"github.com/atomicstack/marking-menu/internal/nav"
	"github.com/atomicstack/marking-menu/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	statusRows        = 1
	footerHistoryRows = 3
	labelInset        = 2
	subMarker         = "›"
	returnMarker      = "◦"
	hiddenHint        = "press a mouse button to open a menu"
)

type cell struct {
	r     rune
	style *lipgloss.Style
	// wide marks the trailing half of a double-width rune.
	wide bool
}

// canvas is a grid of styled cells the overlay is composited onto. It
// covers bounds in screen coordinates.
type canvas struct {
	bounds image.Rectangle
	rows   [][]cell
}

func newCanvas(bounds image.Rectangle) *canvas {
	c := &canvas{bounds: bounds, rows: make([][]cell, bounds.Dy())}
	for y := range c.rows {
		row := make([]cell, bounds.Dx())
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.rows[y] = row
	}
	return c
}

func (c *canvas) fill(r image.Rectangle, style *lipgloss.Style) {
	r = r.Intersect(c.bounds).Sub(c.bounds.Min)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.rows[y][x] = cell{r: ' ', style: style}
		}
	}
}

// put writes text starting at (x, y), clipping at the canvas edge.
func (c *canvas) put(x, y int, text string, style *lipgloss.Style) {
	x -= c.bounds.Min.X
	y -= c.bounds.Min.Y
	width := c.bounds.Dx()
	if y < 0 || y >= len(c.rows) {
		return
	}
	for _, r := range text {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= width {
			c.rows[y][x] = cell{r: r, style: style}
			if w == 2 {
				c.rows[y][x+1] = cell{style: style, wide: true}
			}
		}
		x += w
		if x >= width {
			return
		}
	}
}

// lines renders the canvas, styling each run of cells that share a style.
func (c *canvas) lines() []string {
	out := make([]string, len(c.rows))
	for y, row := range c.rows {
		var b strings.Builder
		var run strings.Builder
		var style *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style != nil {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.wide {
				continue
			}
			if cl.style != style {
				flush()
				style = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderOverlay()...)
	lines = append(lines, m.statusLine())
	if m.showFooter {
		lines = append(lines, m.footerLines()...)
	}
	if m.width > 0 {
		for i, line := range lines {
			if lipgloss.Width(line) > m.width {
				lines[i] = truncate.StringWithTail(line, uint(m.width-1), "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// renderOverlay composites the visible panel, its clones and the return
// zone marker. An unknown terminal size shrinks the canvas to the panel.
func (m *Model) renderOverlay() []string {
	view := m.ctrl.View()
	bounds := image.Rect(0, 0, m.width, m.canvasHeight())
	if m.width <= 0 || m.canvasHeight() <= 0 {
		if view == nil {
			return nil
		}
		bounds = overlayExtent(view)
	}
	c := newCanvas(bounds)
	if view == nil {
		return c.lines()
	}
	if zone, ok := m.ctrl.Path().Zone(); ok {
		center := widget.Center(zone)
		c.put(center.X, center.Y, returnMarker, styles.ReturnZone)
	}
	origin := view.Origin()
	if view.Title != "" {
		c.put(origin.X, origin.Y-1, view.Title, styles.PanelTitle)
	}
	focused := m.focusedElement()
	for _, el := range view.Elements() {
		if !el.IsVisible() {
			continue
		}
		m.drawElement(c, view, el, m.elementStyle(el, focused))
	}
	return c.lines()
}

// overlayExtent covers the panel, its title row and any clones.
func overlayExtent(view *widget.Panel) image.Rectangle {
	extent := view.Bounds()
	if view.Title != "" {
		extent.Min.Y--
	}
	for _, el := range view.Elements() {
		if el.IsVisible() {
			extent = extent.Union(view.ScreenRect(el))
		}
	}
	return extent
}

func (m *Model) drawElement(c *canvas, view *widget.Panel, el widget.Element, style *lipgloss.Style) {
	r := view.ScreenRect(el)
	c.fill(r, style)
	avail := r.Dx() - 2*labelInset
	if el.SubPanel() != "" {
		avail -= ansi.StringWidth(subMarker) + 1
	}
	label := labelFor(el)
	if avail <= 0 {
		return
	}
	if ansi.StringWidth(label) > avail {
		label = truncate.StringWithTail(label, uint(avail), "…")
	}
	mid := r.Min.Y + r.Dy()/2
	c.put(r.Min.X+labelInset, mid, label, style)
	if el.SubPanel() != "" {
		marker := styles.SubMarker
		if el.ClonedFrom() != nil || !el.Attrs().Enabled {
			marker = style
		}
		c.put(r.Max.X-labelInset-ansi.StringWidth(subMarker)+1, mid, subMarker, marker)
	}
}

func (m *Model) elementStyle(el, focused widget.Element) *lipgloss.Style {
	switch {
	case !el.Attrs().Enabled:
		return styles.ElementDisabled
	case el.ClonedFrom() != nil:
		if el == m.ctrl.Hover() {
			return styles.ElementHover
		}
		return styles.Clone
	case el == m.ctrl.Armed():
		return styles.ElementArmed
	case el == focused:
		return styles.ElementFocus
	case el == m.ctrl.Hover():
		return styles.ElementHover
	case el.Kind() == widget.KindContainer:
		return styles.PanelTitle
	default:
		return styles.Element
	}
}

// labelFor renders the element caption together with its current value.
func labelFor(el widget.Element) string {
	text := el.Attrs().Text
	if text == "" {
		text = strings.ReplaceAll(el.Name(), "_", " ")
	}
	switch v := el.(type) {
	case *widget.Toggle:
		mark := "[ ]"
		if v.Checked {
			mark = "[x]"
		}
		return mark + " " + text
	case *widget.Choice:
		if v.Index >= 0 && v.Index < len(v.Options) {
			return text + ": " + v.Options[v.Index]
		}
	case *widget.TextField:
		if v.Value != "" {
			return text + ": " + v.Value
		}
	case *widget.Slider:
		return text + " " + strconv.FormatFloat(v.Value, 'f', 2, 64)
	}
	return text
}

func (m *Model) statusLine() string {
	var text string
	var style *lipgloss.Style
	switch info := m.currentInfo(); {
	case m.errMsg != "":
		text, style = m.errMsg, styles.Error
	case info != "":
		text, style = info, styles.Info
	default:
		text, style = m.tooltip()
	}
	if m.verbose {
		prefix := fmt.Sprintf("[%s %s path=%d]", m.ctrl.State(), m.ctrl.Current(), m.ctrl.Path().Len())
		if text == "" {
			text = prefix
		} else {
			text = prefix + " " + text
		}
	}
	if text == "" || style == nil {
		return text
	}
	return style.Render(text)
}

// tooltip describes the hovered or focused element, or hints how to open
// the menu while hidden.
func (m *Model) tooltip() (string, *lipgloss.Style) {
	if m.ctrl.State() == nav.Hidden {
		return hiddenHint, styles.Hint
	}
	el := m.ctrl.Hover()
	if el == nil {
		el = m.focusedElement()
	}
	if el == nil {
		return "", nil
	}
	if src := el.ClonedFrom(); src != nil {
		el = src
	}
	if tip := el.Attrs().Tooltip; tip != "" {
		return tip, styles.Tooltip
	}
	return "", nil
}

// footerLines shows key hints and the most recent commands, newest first.
// The footer always occupies the same number of rows.
func (m *Model) footerLines() []string {
	hints := m.keys.hints()
	parts := make([]string, 0, len(hints))
	for _, b := range hints {
		help := b.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	lines := []string{styles.Hint.Render(strings.Join(parts, "  "))}

	commands := m.ctrl.Registry().Commands()
	rows := make([][]string, 0, footerHistoryRows)
	for i := len(commands) - 1; i >= 0 && len(rows) < footerHistoryRows; i-- {
		rec := commands[i]
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), rec.Panel + "." + rec.Element, rec.Doc})
	}
	for _, row := range table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft}) {
		lines = append(lines, styles.Footer.Render(strings.TrimRight(row, " ")))
	}
	for len(lines) < footerHistoryRows+1 {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) footerHeight() int {
	if !m.showFooter {
		return 0
	}
	return footerHistoryRows + 1
}

// canvasHeight is the number of rows available to the overlay.
func (m *Model) canvasHeight() int {
	h := m.height - statusRows - m.footerHeight()
	if h < 0 {
		return 0
	}
	return h
}

// syncScreen tells the controller how much room the overlay has.
func (m *Model) syncScreen() {
	overlay := m.ctrl.Context().Overlay
	h := m.canvasHeight()
	if m.width <= 0 || h <= 0 {
		overlay.Screen = image.Rectangle{}
		return
	}
	overlay.Screen = image.Rect(0, 0, m.width, h)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncScreen()
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(infoTimeout)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && m.now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
