package events

import "github.com/atomicstack/marking-menu/internal/logging"

type PathTracer struct{}

var Path = PathTracer{}

func (PathTracer) Reset(x, y int) {
	logging.Trace("path.reset", map[string]interface{}{"x": x, "y": y})
}

func (PathTracer) Add(target, element, outcome string, length int) {
	logging.Trace("path.add", map[string]interface{}{"target": target, "element": element, "outcome": outcome, "length": length})
}

func (PathTracer) Truncate(length int) {
	logging.Trace("path.truncate", map[string]interface{}{"length": length})
}

func (PathTracer) Clone(panel string, clones int) {
	logging.Trace("path.clone", map[string]interface{}{"panel": panel, "clones": clones})
}

func (PathTracer) Heal(x, y int) {
	logging.Trace("path.heal", map[string]interface{}{"x": x, "y": y})
}

func (PathTracer) Return(length int) {
	logging.Trace("path.return", map[string]interface{}{"length": length})
}
