package registry

import (
	"reflect"
	"sort"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Record is one recorded handler invocation.
type Record struct {
	Panel   string
	Element string
	Doc     string
	Tooltip string
	Action  Action
}

func (r Record) key() string {
	return r.Panel + "\x00" + r.Element + "\x00" + r.Doc + "\x00" + r.Tooltip
}

// Invoke runs the recorded handler again.
func (r Record) Invoke() tea.Cmd {
	if r.Action == nil {
		return nil
	}
	return r.Action(Invocation{Panel: r.Panel, Element: r.Element})
}

func (r *Registry) record(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.secondary[rec.Panel] {
		r.secondaryActions.Push(rec)
		return
	}
	r.commands.Push(rec)
}

// Repeat re-runs rec and records it again as the most recent entry.
func (r *Registry) Repeat(rec Record) tea.Cmd {
	r.record(rec)
	events.Registry.Invoke(rec.Panel, rec.Element)
	return rec.Invoke()
}

// RecordCommand appends rec to the command history.
func (r *Registry) RecordCommand(rec Record) {
	r.mu.Lock()
	r.commands.Push(rec)
	r.mu.Unlock()
}

// MostRecentCommand returns the last recorded command.
func (r *Registry) MostRecentCommand() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commands.Last()
}

// Commands returns the command history, oldest first.
func (r *Registry) Commands() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commands.Items()
}

// RecordSecondaryAction appends rec to the secondary-action history.
func (r *Registry) RecordSecondaryAction(rec Record) {
	r.mu.Lock()
	r.secondaryActions.Push(rec)
	r.mu.Unlock()
}

// MostRecentSecondaryAction returns the last recorded secondary action.
func (r *Registry) MostRecentSecondaryAction() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secondaryActions.Last()
}

// SecondaryActions returns the secondary-action history, oldest first.
func (r *Registry) SecondaryActions() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secondaryActions.Items()
}

// Views returns the view history, oldest first.
func (r *Registry) Views() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views.Items()
}

// MostRecentView returns the newest view that is not the active panel and
// whose level is not excluded.
func (r *Registry) MostRecentView(exclude ...Level) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views.MostRecent(func(name string) bool {
		return name == r.active || r.excludedLocked(name, exclude)
	})
}

// LastView is MostRecentView without skipping the active panel.
func (r *Registry) LastView(exclude ...Level) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views.MostRecent(func(name string) bool {
		return r.excludedLocked(name, exclude)
	})
}

func (r *Registry) excludedLocked(name string, exclude []Level) bool {
	if len(exclude) == 0 {
		return false
	}
	level := LevelFromName(name)
	if entry, ok := r.panels[name]; ok {
		level = entry.Level
	}
	for _, l := range exclude {
		if l == level {
			return true
		}
	}
	return false
}

// Protect keeps obj referenced until it is unprotected or the protection set
// is released. Protecting the same object twice requires two releases.
func (r *Registry) Protect(obj any) {
	if !protectable(obj) {
		return
	}
	r.mu.Lock()
	r.protected[obj]++
	r.mu.Unlock()
}

// Unprotect drops one reference to obj.
func (r *Registry) Unprotect(obj any) {
	if !protectable(obj) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.protected[obj]; ok {
		if n <= 1 {
			delete(r.protected, obj)
			return
		}
		r.protected[obj] = n - 1
	}
}

// IsProtected reports whether obj is currently held.
func (r *Registry) IsProtected(obj any) bool {
	if !protectable(obj) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.protected[obj]
	return ok
}

// protectable reports whether obj can key the protection set. Slices, maps
// and funcs cannot.
func protectable(obj any) bool {
	return obj != nil && reflect.TypeOf(obj).Comparable()
}

// ReleaseProtected drops every protected object and returns how many were held.
func (r *Registry) ReleaseProtected() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.protected)
	if n > 0 {
		r.protected = make(map[any]int)
	}
	return n
}

// FindPanel resolves query to a provider panel name, preferring an exact
// match and falling back to the best fuzzy match.
func (r *Registry) FindPanel(query string) (string, bool) {
	if r.provider == nil || query == "" {
		return "", false
	}
	names := r.provider.PanelNames()
	for _, name := range names {
		if name == query {
			return name, true
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
