package widget

// SignalKind names the one event type an element class is wired to.
type SignalKind string

const (
	SignalNone           SignalKind = ""
	SignalActivated      SignalKind = "activated"
	SignalToggled        SignalKind = "toggled"
	SignalIndexChanged   SignalKind = "indexChanged"
	SignalValueCommitted SignalKind = "valueCommitted"
	SignalValueChanged   SignalKind = "valueChanged"
)
