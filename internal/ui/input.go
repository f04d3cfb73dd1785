package ui

import (
	"image"
	"time"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/nav"
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouseMsg translates terminal mouse events into controller input.
// A second press of the same button, close to the first and inside the
// double-click interval, becomes a double click unless the first press
// armed an element. Motion while hidden and uncaptured only tracks the
// cursor.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	pos := image.Pt(ev.X, ev.Y)
	switch ev.Action {
	case tea.MouseActionPress:
		btn, ok := buttonFor(ev.Button)
		if !ok {
			return nil
		}
		mods := modifiersFor(ev)
		now := m.now()
		m.clearInfo()
		if m.isDoubleClick(btn, pos, now) {
			events.UI.Mouse("double-click", btn.String(), ev.X, ev.Y)
			m.lastPress = pressRecord{}
			m.pressed = nav.ButtonNone
			return m.dispatch("double-click", m.ctrl.DoubleClick(btn, pos, mods))
		}
		events.UI.Mouse("press", btn.String(), ev.X, ev.Y)
		m.pressed = btn
		cmd := m.dispatch("press", m.ctrl.Press(btn, pos, mods))
		if m.ctrl.Armed() != nil {
			m.lastPress = pressRecord{}
		} else {
			m.lastPress = pressRecord{button: btn, at: now, pos: pos}
		}
		return cmd
	case tea.MouseActionRelease:
		btn, ok := buttonFor(ev.Button)
		if !ok {
			btn = m.pressed
		}
		m.pressed = nav.ButtonNone
		events.UI.Mouse("release", btn.String(), ev.X, ev.Y)
		return m.dispatch("release", m.ctrl.Release(btn, pos))
	case tea.MouseActionMotion:
		if m.ctrl.State() == nav.Hidden && (m.pointer == nil || !m.pointer.Captured()) {
			m.ctrl.Move(pos)
			return nil
		}
		return m.dispatch("move", m.ctrl.Move(pos))
	}
	return nil
}

// isDoubleClick reports whether a press of btn at pos completes a double
// click. The press must stay within the drag threshold of the first one.
func (m *Model) isDoubleClick(btn nav.Button, pos image.Point, now time.Time) bool {
	last := m.lastPress
	if last.button == nav.ButtonNone || last.button != btn {
		return false
	}
	if now.Sub(last.at) > m.doubleClick {
		return false
	}
	d := pos.Sub(last.pos)
	if d == (image.Point{}) {
		return true
	}
	t := m.ctrl.Context().Config.Threshold
	return d.X*d.X+d.Y*d.Y < t*t
}

func buttonFor(b tea.MouseButton) (nav.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return nav.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return nav.ButtonMiddle, true
	case tea.MouseButtonRight:
		return nav.ButtonRight, true
	default:
		return nav.ButtonNone, false
	}
}

func modifiersFor(ev tea.MouseMsg) nav.Modifiers {
	var mods nav.Modifiers
	if ev.Shift {
		mods |= nav.ModShift
	}
	if ev.Ctrl {
		mods |= nav.ModCtrl
	}
	if ev.Alt {
		mods |= nav.ModAlt
	}
	return mods
}
