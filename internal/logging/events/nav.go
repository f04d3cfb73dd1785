package events

import "github.com/atomicstack/marking-menu/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Transition(gesture, from, to, panel string) {
	logging.Trace("nav.transition", map[string]interface{}{"gesture": gesture, "from": from, "to": to, "panel": panel})
}

func (NavTracer) Hop(gesture, from, to, element string) {
	logging.Trace("nav.hop", map[string]interface{}{"gesture": gesture, "from": from, "to": to, "element": element})
}

func (NavTracer) GeometryMiss(panel, element string) {
	logging.Trace("nav.miss.geometry", map[string]interface{}{"panel": panel, "element": element})
}

func (NavTracer) CaptureConflict() {
	logging.Trace("nav.capture.conflict", nil)
}

func (NavTracer) DoubleClick(button, choice string, hit bool) {
	logging.Trace("nav.doubleclick", map[string]interface{}{"button": button, "choice": choice, "hit": hit})
}

func (NavTracer) Hotkey(show bool, panel string) {
	logging.Trace("nav.hotkey", map[string]interface{}{"show": show, "panel": panel})
}

func (NavTracer) Hide(from string) {
	logging.Trace("nav.hide", map[string]interface{}{"from": from})
}
