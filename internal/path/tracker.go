// Package path records the route a pointer takes through nested panels during
// one gesture and can replay the visited elements as clones in the current
// panel.
//
// Entry 0 is always the origin marker: it carries no element and holds the
// pointer position at gesture start plus the panel the gesture opened with.
// Every later entry is one panel hop: the element that was activated, its
// on-screen anchor at that moment, the cursor position, and the panel the hop
// led to.
package path

import (
	"image"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/widget"
)

// Entry is one recorded hop.
type Entry struct {
	Element widget.Element
	Anchor  image.Point
	Cursor  image.Point
	Target  string
}

// Outcome describes what Add did with a hop.
type Outcome int

const (
	Ignored Outcome = iota
	Appended
	Truncated
)

func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Truncated:
		return "truncated"
	default:
		return "ignored"
	}
}

// Keeper holds transient objects alive for the lifetime of a gesture.
type Keeper interface {
	Protect(any)
	Unprotect(any)
}

// Tracker is the path of the current gesture.
type Tracker struct {
	entries []Entry
	clones  []Clone
	zone    *ReturnZone
	keeper  Keeper
	// ZoneRadius is the half-size of the return hot-zone around the origin.
	ZoneRadius int
}

// New constructs an empty tracker. keeper may be nil.
func New(keeper Keeper) *Tracker {
	return &Tracker{keeper: keeper, ZoneRadius: 1}
}

// Reset drops the current path and starts a new one at cursor.
func (t *Tracker) Reset(cursor image.Point) {
	t.ClearClones()
	t.entries = append(t.entries[:0], Entry{Anchor: cursor, Cursor: cursor})
	events.Path.Reset(cursor.X, cursor.Y)
}

// SetOriginTarget records the panel the gesture opened with.
func (t *Tracker) SetOriginTarget(panel string) {
	if len(t.entries) > 0 {
		t.entries[0].Target = panel
	}
}

// Origin returns the origin marker position.
func (t *Tracker) Origin() (image.Point, bool) {
	if len(t.entries) == 0 || t.entries[0].Element != nil {
		return image.Point{}, false
	}
	return t.entries[0].Cursor, true
}

// OriginTarget returns the panel recorded on the origin marker.
func (t *Tracker) OriginTarget() string {
	if len(t.entries) == 0 {
		return ""
	}
	return t.entries[0].Target
}

// Add records a hop into panel through element. Hidden or missing elements
// are ignored. When panel was already reached earlier in the path the path
// is cut back to that earlier hop instead of growing.
func (t *Tracker) Add(panel string, element widget.Element, cursor image.Point) Outcome {
	if element == nil || !element.IsVisible() || element.Panel() == nil {
		events.Path.Add(panel, "", Ignored.String(), len(t.entries))
		return Ignored
	}
	anchor, ok := element.Panel().Anchor(element)
	if !ok {
		events.Path.Add(panel, element.Name(), Ignored.String(), len(t.entries))
		return Ignored
	}
	t.entries = append(t.entries, Entry{Element: element, Anchor: anchor, Cursor: cursor, Target: panel})
	outcome := Appended
	if t.remove(panel) {
		outcome = Truncated
	}
	events.Path.Add(panel, element.Name(), outcome.String(), len(t.entries))
	return outcome
}

// remove keeps the prefix up to and including the last hop into panel that
// precedes the newest entry.
func (t *Tracker) remove(panel string) bool {
	for i := len(t.entries) - 2; i >= 0; i-- {
		if t.entries[i].Target == panel {
			t.Truncate(i)
			return true
		}
	}
	return false
}

// Truncate keeps entries [0, i].
func (t *Tracker) Truncate(i int) {
	if i < 0 || i >= len(t.entries)-1 {
		return
	}
	for j := i + 1; j < len(t.entries); j++ {
		t.entries[j] = Entry{}
	}
	t.entries = t.entries[:i+1]
	events.Path.Truncate(len(t.entries))
}

// Clear empties the path entirely.
func (t *Tracker) Clear() {
	t.ClearClones()
	t.entries = nil
}

// ClearToOrigin keeps only the origin marker.
func (t *Tracker) ClearToOrigin() {
	t.ClearClones()
	if _, ok := t.Origin(); !ok {
		t.entries = nil
		return
	}
	t.entries = t.entries[:1]
}

// Len returns the number of entries including the origin marker.
func (t *Tracker) Len() int { return len(t.entries) }

// Entries returns a copy of the path.
func (t *Tracker) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Last returns the newest entry.
func (t *Tracker) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Intermediate returns the entries strictly between the origin and the newest
// entry.
func (t *Tracker) Intermediate() []Entry {
	if len(t.entries) < 3 {
		return nil
	}
	return append([]Entry(nil), t.entries[1:len(t.entries)-1]...)
}

// IndexOf returns the index of the hop into panel, or -1.
func (t *Tracker) IndexOf(panel string) int {
	for i, e := range t.entries {
		if e.Target == panel {
			return i
		}
	}
	return -1
}
