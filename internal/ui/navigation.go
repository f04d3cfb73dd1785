package ui

import (
	"github.com/atomicstack/marking-menu/internal/logging/events"
	"github.com/atomicstack/marking-menu/internal/nav"
	"github.com/atomicstack/marking-menu/internal/widget"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.ctrl.Hide()
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Hotkey):
		return m.toggleHotkey()
	case key.Matches(keyMsg, m.keys.Hide):
		m.ctrl.Hide()
		m.forceClearInfo()
		m.errMsg = ""
		return nil
	}
	if m.ctrl.State() == nav.Hidden {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.moveFocus(m.focus.MoveNext)
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveFocus(m.focus.MovePrev)
	case key.Matches(keyMsg, m.keys.Home):
		m.moveFocus(m.focus.MoveHome)
	case key.Matches(keyMsg, m.keys.End):
		m.moveFocus(m.focus.MoveEnd)
	case key.Matches(keyMsg, m.keys.Activate):
		return m.activateFocused()
	}
	return nil
}

// toggleHotkey shows the overlay on the first press and hides it on the
// next. Terminals report no key release, so a second press stands in for it.
func (m *Model) toggleHotkey() tea.Cmd {
	if m.ctrl.State() != nav.Hidden {
		return m.dispatch("hotkey", m.ctrl.HotkeyRelease())
	}
	return m.dispatch("hotkey", m.ctrl.HotkeyPress(m.ctrl.Cursor()))
}

func (m *Model) moveFocus(move func() bool) {
	m.syncFocus()
	if move() {
		events.UI.Focus(m.focus.Panel, m.focus.Cursor)
	}
}

func (m *Model) activateFocused() tea.Cmd {
	el := m.focusedElement()
	if el == nil {
		return nil
	}
	return m.dispatch("activate", m.ctrl.Activate(el))
}

// focusedElement returns the keyboard-focused element of the visible panel.
func (m *Model) focusedElement() widget.Element {
	view := m.ctrl.View()
	if view == nil || m.focus.Panel != view.Name {
		return nil
	}
	elements := focusable(view)
	if m.focus.Cursor < 0 || m.focus.Cursor >= len(elements) {
		return nil
	}
	return elements[m.focus.Cursor]
}

// syncFocus keeps the focus bound to whatever panel is visible.
func (m *Model) syncFocus() {
	view := m.ctrl.View()
	if view == nil {
		m.focus.Clear()
		return
	}
	m.focus.Sync(view.Name, len(focusable(view)))
}

// focusable lists the visible interactive elements of view, clones included.
func focusable(view *widget.Panel) []widget.Element {
	all := view.Elements()
	out := make([]widget.Element, 0, len(all))
	for _, el := range all {
		if widget.Interactive(el) && el.IsVisible() {
			out = append(out, el)
		}
	}
	return out
}

func (m *Model) handleOpenPanelMsg(msg tea.Msg) tea.Cmd {
	open, ok := msg.(openPanelMsg)
	if !ok {
		return nil
	}
	if !m.ctrl.OpenStandalone(open.query, m.screenCenter()) {
		m.errMsg = "no panel matches " + open.query
		return nil
	}
	m.errMsg = ""
	return nil
}
