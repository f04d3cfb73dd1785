package nav

import (
	"image"

	"github.com/atomicstack/marking-menu/internal/path"
	"github.com/atomicstack/marking-menu/internal/registry"
)

// Pointer is the host's pointer device.
type Pointer interface {
	Capture()
	Release()
	Captured() bool
	SetOverride(shape string)
	RestoreOverride()
}

// Overlay is the on-screen placement of the visible panel.
type Overlay struct {
	Position image.Point
	Screen   image.Rectangle
	Visible  bool

	centered bool
}

// Config tunes the controller.
type Config struct {
	// Threshold is the distance in cells a drag must cover before a release
	// activates the element under the pointer.
	Threshold int
	// CursorShape is applied while the overlay is shown from the hotkey.
	CursorShape string
}

// DefaultConfig returns the controller defaults.
func DefaultConfig() Config {
	return Config{Threshold: 3, CursorShape: "crosshair"}
}

// Context carries everything the controller works against. It is built once
// per session and passed explicitly.
type Context struct {
	Registry *registry.Registry
	Path     *path.Tracker
	Overlay  *Overlay
	Pointer  Pointer
	Config   Config
}

// NewContext builds a context around reg with a fresh path and overlay.
func NewContext(reg *registry.Registry, pointer Pointer, cfg Config) *Context {
	if cfg.Threshold < 0 {
		cfg.Threshold = 0
	}
	return &Context{
		Registry: reg,
		Path:     path.New(reg),
		Overlay:  &Overlay{},
		Pointer:  pointer,
		Config:   cfg,
	}
}

// SoftPointer is a Pointer that only records state. Hosts without real
// pointer capture use it directly.
type SoftPointer struct {
	captured bool
	shape    string
	override bool
}

func (p *SoftPointer) Capture()       { p.captured = true }
func (p *SoftPointer) Release()       { p.captured = false }
func (p *SoftPointer) Captured() bool { return p.captured }

func (p *SoftPointer) SetOverride(shape string) {
	p.shape = shape
	p.override = true
}

func (p *SoftPointer) RestoreOverride() {
	p.shape = ""
	p.override = false
}

// Shape returns the active override shape, if any.
func (p *SoftPointer) Shape() (string, bool) { return p.shape, p.override }
