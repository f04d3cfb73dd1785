// Package layout builds widget panels from a YAML UI description.
package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"

	"github.com/atomicstack/marking-menu/internal/widget"
	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultLayout []byte

const (
	elementHeight  = 3
	elementPadding = 4
	minWidth       = 8
)

// File is the on-disk description.
type File struct {
	Panels []PanelDef `yaml:"panels"`
}

// PanelDef describes one panel.
type PanelDef struct {
	Name     string        `yaml:"name"`
	Title    string        `yaml:"title"`
	Level    *int          `yaml:"level"`
	Elements []ElementDef `yaml:"elements"`
}

// ElementDef describes one element. X and Y place it explicitly; elements
// without a position are stacked below the previous one.
type ElementDef struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Label   string   `yaml:"label"`
	Tooltip string   `yaml:"tooltip"`
	Sub     string   `yaml:"sub"`
	X       *int     `yaml:"x"`
	Y       *int     `yaml:"y"`
	Width   int      `yaml:"width"`
	Options []string `yaml:"options"`
	Hidden  bool     `yaml:"hidden"`
	Enabled *bool    `yaml:"enabled"`
}

// Set is a constructed collection of panels.
type Set struct {
	panels map[string]*widget.Panel
	order  []string
}

// Load reads path, or the built-in layout when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return set, nil
}

// Default builds the built-in layout.
func Default() (*Set, error) {
	return Parse(defaultLayout)
}

// Parse decodes and builds a layout description.
func Parse(data []byte) (*Set, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return Build(file)
}

// Build constructs panels from file, checking that names are unique and
// every sub-panel reference resolves.
func Build(file File) (*Set, error) {
	if len(file.Panels) == 0 {
		return nil, errors.New("no panels defined")
	}
	set := &Set{panels: make(map[string]*widget.Panel, len(file.Panels))}
	for _, def := range file.Panels {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, errors.New("panel without a name")
		}
		if _, dup := set.panels[name]; dup {
			return nil, fmt.Errorf("duplicate panel %q", name)
		}
		panel, err := buildPanel(name, def)
		if err != nil {
			return nil, err
		}
		set.panels[name] = panel
		set.order = append(set.order, name)
	}
	for _, name := range set.order {
		for _, el := range set.panels[name].Elements() {
			sub := el.SubPanel()
			if sub == "" {
				continue
			}
			if _, ok := set.panels[sub]; !ok {
				return nil, fmt.Errorf("panel %q: element %q opens unknown panel %q", name, el.Name(), sub)
			}
		}
	}
	return set, nil
}

func buildPanel(name string, def PanelDef) (*widget.Panel, error) {
	title := def.Title
	if title == "" {
		title = strings.ReplaceAll(name, "_", " ")
	}
	panel := widget.NewPanel(name, title)
	if def.Level != nil {
		if *def.Level < 0 || *def.Level > 3 {
			return nil, fmt.Errorf("panel %q: level %d out of range", name, *def.Level)
		}
		panel.Level = *def.Level
	}

	type stacked struct {
		el widget.Element
		y  int
	}
	var column []stacked
	width := minWidth
	y := 0
	for i, es := range def.Elements {
		kind := widget.KindClickable
		if es.Kind != "" {
			k, ok := widget.ParseKind(es.Kind)
			if !ok {
				return nil, fmt.Errorf("panel %q: element %d: unknown kind %q", name, i, es.Kind)
			}
			kind = k
		}
		el := widget.New(kind, es.Name)
		attrs := el.Attrs()
		attrs.Text = es.Label
		if attrs.Text == "" {
			attrs.Text = strings.ReplaceAll(es.Name, "_", " ")
		}
		attrs.Tooltip = es.Tooltip
		attrs.Visible = !es.Hidden
		if es.Enabled != nil {
			attrs.Enabled = *es.Enabled
		}
		if es.Sub != "" {
			el.(subSetter).SetSubPanel(es.Sub)
		}
		if choice, ok := el.(*widget.Choice); ok {
			choice.Options = append([]string(nil), es.Options...)
		}
		w := ansi.StringWidth(attrs.Text) + elementPadding
		if es.Sub != "" {
			w += 2
		}
		if es.Width > w {
			w = es.Width
		}
		if es.X != nil || es.Y != nil {
			x, ey := deref(es.X), deref(es.Y)
			el.SetRect(image.Rect(x, ey, x+w, ey+elementHeight))
			panel.Add(el)
			continue
		}
		if w > width {
			width = w
		}
		column = append(column, stacked{el: el, y: y})
		y += elementHeight
		panel.Add(el)
	}
	for _, s := range column {
		s.el.SetRect(image.Rect(0, s.y, width, s.y+elementHeight))
	}
	return panel, nil
}

type subSetter interface{ SetSubPanel(string) }

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// Panel returns the constructed panel called name.
func (s *Set) Panel(name string) (*widget.Panel, bool) {
	p, ok := s.panels[name]
	return p, ok
}

// PanelNames lists every panel in declaration order.
func (s *Set) PanelNames() []string {
	return append([]string(nil), s.order...)
}

// Elements lists "panel.element" keys for every named, interactive element,
// sorted.
func (s *Set) Elements() []string {
	var out []string
	for _, name := range s.order {
		for _, el := range s.panels[name].Elements() {
			if el.Name() == "" || !widget.Interactive(el) {
				continue
			}
			out = append(out, name+"."+el.Name())
		}
	}
	sort.Strings(out)
	return out
}
