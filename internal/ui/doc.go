// Package ui contains the Bubble Tea program that hosts the marking menu
// overlay. The Model translates terminal input into calls on a
// nav.Controller and renders whatever panel the controller has made
// visible.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler table so each tea.Msg is handled by a focused
//     function.
//   - Mouse events (internal/ui/input.go) become Press, Move, Release and
//     DoubleClick calls. Terminals do not report which button was released, so
//     the model remembers the pressed button itself.
//   - Key events (internal/ui/navigation.go) toggle the hotkey overlay, hide
//     it, and move a keyboard focus across the visible panel's elements.
//
// Handler commands returned by the controller run through the
// internal/ui/command bus, and their registry.ActionResult messages land in
// the status line.
//
// Rendering composites the visible panel, any clones placed along the
// gesture path, and the return zone marker onto a cell grid the size of the
// terminal. The controller is told that size through its overlay screen so
// panels stay on screen.
package ui
