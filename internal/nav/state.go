package nav

import "github.com/atomicstack/marking-menu/internal/registry"

// State is the visible state of the overlay.
type State int

const (
	Hidden State = iota
	Level0       // visible, no gesture in progress
	Level1       // category panel chosen by mouse button
	Level2       // sub-panel reached through an element
	Level3       // standalone panel
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Level0:
		return "level0"
	case Level1:
		return "level1"
	case Level2:
		return "level2"
	case Level3:
		return "level3"
	default:
		return "unknown"
	}
}

func stateForLevel(level registry.Level) State {
	switch level {
	case registry.LevelIdle:
		return Level0
	case registry.LevelCategory:
		return Level1
	case registry.LevelMain:
		return Level3
	default:
		return Level2
	}
}

// Button identifies the pointer button behind an input event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Modifiers is the set of keyboard modifiers held during an input event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifiers) Any() bool { return m != 0 }

// Level1 panels selected by the button that starts a gesture.
const (
	CameraPanel  = "camera_menu"
	EditorPanel  = "editor_menu"
	CommandPanel = "command_menu"
)

func categoryPanel(b Button) string {
	switch b {
	case ButtonLeft:
		return CameraPanel
	case ButtonMiddle:
		return EditorPanel
	default:
		return CommandPanel
	}
}
