package path

import (
	"image"

	"github.com/atomicstack/marking-menu/internal/logging"
	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/widget"
	"github.com/jinzhu/copier"
)

// Clone is an element constructed in the current panel that mirrors a hop
// taken earlier in the gesture.
type Clone struct {
	Element widget.Element
	Source  widget.Element
	// Index is the path entry the clone was built from.
	Index  int
	Target string
	Anchor image.Point
}

// ReturnZone is the invisible hot-zone placed on the origin marker.
type ReturnZone struct {
	Rect     image.Rectangle
	onReturn func()
}

// CloneAlongPath builds one clone per intermediate entry inside target, each
// centred on the anchor its source had when the hop was taken, and places a
// return zone on the origin marker. A path without a usable origin is reset
// at cursor first and yields no clones.
func (t *Tracker) CloneAlongPath(target *widget.Panel, cursor image.Point, onReturn func()) []Clone {
	t.ClearClones()
	if target == nil {
		return nil
	}
	origin, ok := t.Origin()
	if !ok || len(t.entries) < 2 {
		events.Path.Heal(cursor.X, cursor.Y)
		t.Reset(cursor)
		return nil
	}
	for i := 1; i < len(t.entries)-1; i++ {
		entry := t.entries[i]
		if entry.Element == nil {
			continue
		}
		el := widget.NewClone(entry.Element)
		if err := copier.Copy(el.Attrs(), entry.Element.Attrs()); err != nil {
			logging.Errorf("clone %s: %w", entry.Element.Name(), err)
			continue
		}
		el.Attrs().Visible = true
		size := entry.Element.Rect().Size()
		el.SetRect(widget.CenteredRect(target.ToLocal(entry.Anchor), size))
		target.Add(el)
		if t.keeper != nil {
			t.keeper.Protect(el)
		}
		t.clones = append(t.clones, Clone{
			Element: el,
			Source:  entry.Element,
			Index:   i,
			Target:  entry.Target,
			Anchor:  entry.Anchor,
		})
	}
	r := t.ZoneRadius
	t.zone = &ReturnZone{
		Rect:     image.Rect(origin.X-r, origin.Y-r, origin.X+r+1, origin.Y+r+1),
		onReturn: onReturn,
	}
	events.Path.Clone(target.Name, len(t.clones))
	return append([]Clone(nil), t.clones...)
}

// Clones returns the clones currently placed.
func (t *Tracker) Clones() []Clone {
	return append([]Clone(nil), t.clones...)
}

// CloneAt returns the clone under the screen point.
func (t *Tracker) CloneAt(pt image.Point) (Clone, bool) {
	for i := len(t.clones) - 1; i >= 0; i-- {
		c := t.clones[i]
		p := c.Element.Panel()
		if p == nil {
			continue
		}
		if pt.In(p.ScreenRect(c.Element)) {
			return c, true
		}
	}
	return Clone{}, false
}

// Zone returns the active return zone.
func (t *Tracker) Zone() (image.Rectangle, bool) {
	if t.zone == nil {
		return image.Rectangle{}, false
	}
	return t.zone.Rect, true
}

// InReturnZone reports whether pt lies in the return zone.
func (t *Tracker) InReturnZone(pt image.Point) bool {
	return t.zone != nil && pt.In(t.zone.Rect)
}

// Return collapses the path to the origin marker and runs the return
// callback supplied to CloneAlongPath.
func (t *Tracker) Return() bool {
	if t.zone == nil {
		return false
	}
	cb := t.zone.onReturn
	t.ClearToOrigin()
	events.Path.Return(len(t.entries))
	if cb != nil {
		cb()
	}
	return true
}

// ClearClones removes every clone from its panel and drops the return zone.
func (t *Tracker) ClearClones() {
	for _, c := range t.clones {
		if p := c.Element.Panel(); p != nil {
			p.Remove(c.Element)
		}
		if t.keeper != nil {
			t.keeper.Unprotect(c.Element)
		}
	}
	t.clones = nil
	t.zone = nil
}
