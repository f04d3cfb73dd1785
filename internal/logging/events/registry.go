package events

import "github.com/atomicstack/marking-menu/internal/logging"

type RegistryTracer struct{}

var Registry = RegistryTracer{}

func (RegistryTracer) Register(panel string, level, bindings int) {
	logging.Trace("registry.register", map[string]interface{}{"panel": panel, "level": level, "bindings": bindings})
}

func (RegistryTracer) PanelMiss(panel string) {
	logging.Trace("registry.miss.panel", map[string]interface{}{"panel": panel})
}

func (RegistryTracer) ResolutionMiss(panel, element, reason string) {
	logging.Trace("registry.miss.resolution", map[string]interface{}{"panel": panel, "element": element, "reason": reason})
}

func (RegistryTracer) Bind(panel, element, signal string, live bool) {
	logging.Trace("registry.bind", map[string]interface{}{"panel": panel, "element": element, "signal": signal, "live": live})
}

func (RegistryTracer) Activate(previous, panel string, connected int) {
	logging.Trace("registry.activate", map[string]interface{}{"previous": previous, "panel": panel, "connected": connected})
}

func (RegistryTracer) Invoke(panel, element string) {
	logging.Trace("registry.invoke", map[string]interface{}{"panel": panel, "element": element})
}
