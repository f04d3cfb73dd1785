package widget

import "image"

// Panel is a named group of elements shown as one visual unit. Element
// rectangles are local to the panel; the panel origin places them on screen.
type Panel struct {
	Name  string
	Title string
	// Level is the declared hierarchy level, or -1 to derive it from Name.
	Level int

	origin    image.Point
	elements  []Element
	size      image.Point
	sizeValid bool
}

// NewPanel constructs an empty panel whose level is derived from its name.
func NewPanel(name, title string) *Panel {
	return &Panel{Name: name, Title: title, Level: -1}
}

// Add appends el to the panel, adopting elements built outside New.
func (p *Panel) Add(el Element) {
	if el == nil {
		return
	}
	b := el.base()
	if b.self == nil {
		b.self = el
		if b.attrs == (Attrs{}) {
			b.attrs.Enabled = true
			b.attrs.Visible = true
		}
	}
	if b.panel != nil && b.panel != p {
		b.panel.Remove(el)
	}
	b.panel = p
	p.elements = append(p.elements, el)
	p.invalidateSize()
}

// Remove detaches el from the panel.
func (p *Panel) Remove(el Element) bool {
	for i, existing := range p.elements {
		if existing == el {
			p.elements = append(p.elements[:i], p.elements[i+1:]...)
			el.base().panel = nil
			p.invalidateSize()
			return true
		}
	}
	return false
}

// Elements returns the panel elements in insertion order.
func (p *Panel) Elements() []Element {
	return append([]Element(nil), p.elements...)
}

// Interactive returns the visible, bindable elements that are not clones.
func (p *Panel) Interactive() []Element {
	out := make([]Element, 0, len(p.elements))
	for _, el := range p.elements {
		if Interactive(el) && el.IsVisible() && el.ClonedFrom() == nil {
			out = append(out, el)
		}
	}
	return out
}

// Find returns the first non-clone element with the given display name.
func (p *Panel) Find(name string) Element {
	if name == "" {
		return nil
	}
	for _, el := range p.elements {
		if el.Name() == name && el.ClonedFrom() == nil {
			return el
		}
	}
	return nil
}

func (p *Panel) Origin() image.Point { return p.origin }

func (p *Panel) SetOrigin(pt image.Point) { p.origin = pt }

// Size is the bounding size of all element rectangles. The value is memoized
// until the element set or geometry changes.
func (p *Panel) Size() image.Point {
	if p.sizeValid {
		return p.size
	}
	var bounds image.Rectangle
	for _, el := range p.elements {
		if el.ClonedFrom() != nil {
			continue
		}
		bounds = bounds.Union(el.Rect())
	}
	p.size = bounds.Max
	p.sizeValid = true
	return p.size
}

func (p *Panel) invalidateSize() { p.sizeValid = false }

// Bounds is the panel rectangle in screen coordinates.
func (p *Panel) Bounds() image.Rectangle {
	return image.Rectangle{Max: p.Size()}.Add(p.origin)
}

// ScreenRect translates the element rectangle into screen coordinates.
func (p *Panel) ScreenRect(el Element) image.Rectangle {
	return el.Rect().Add(p.origin)
}

// Anchor is the on-screen centre of el. It reports false when the element is
// not laid out, hidden, or belongs to another panel.
func (p *Panel) Anchor(el Element) (image.Point, bool) {
	if el == nil || el.Panel() != p || !el.IsVisible() {
		return image.Point{}, false
	}
	return Center(p.ScreenRect(el)), true
}

// ToLocal converts a screen point into panel coordinates.
func (p *Panel) ToLocal(pt image.Point) image.Point {
	return pt.Sub(p.origin)
}

// ElementAt returns the topmost visible element under the screen point.
func (p *Panel) ElementAt(pt image.Point) Element {
	for i := len(p.elements) - 1; i >= 0; i-- {
		el := p.elements[i]
		if !el.IsVisible() {
			continue
		}
		if pt.In(p.ScreenRect(el)) {
			return el
		}
	}
	return nil
}

// Center returns the midpoint of r.
func Center(r image.Rectangle) image.Point {
	return r.Min.Add(r.Size().Div(2))
}

// CenteredRect returns a rectangle of the given size centred on pt.
func CenteredRect(pt, size image.Point) image.Rectangle {
	min := pt.Sub(size.Div(2))
	return image.Rectangle{Min: min, Max: min.Add(size)}
}
