package planner

import (
	"slices"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// childKey scopes children to the parent's date; the same conceptual
// subtask in another recurrence instance lives under a different key.
type childKey struct {
	parentID string
	date     string
}

// state is the in-memory task collection. It is only touched from the
// engine loop goroutine.
type state struct {
	tasks    map[string]*models.Task
	children map[childKey][]string
	series   map[string][]string
}

func newState(tasks []*models.Task) *state {
	s := &state{
		tasks:    make(map[string]*models.Task, len(tasks)),
		children: make(map[childKey][]string),
		series:   make(map[string][]string),
	}
	for _, t := range tasks {
		s.put(t)
	}
	return s
}

func (s *state) get(id string) *models.Task {
	return s.tasks[id]
}

func keyOf(t *models.Task) childKey {
	if t.ParentID == nil {
		return childKey{date: t.Date}
	}
	return childKey{parentID: *t.ParentID, date: t.Date}
}

func (s *state) put(t *models.Task) {
	s.tasks[t.ID] = t
	k := keyOf(t)
	s.children[k] = append(s.children[k], t.ID)
	if t.RecurringParentID != nil {
		s.series[*t.RecurringParentID] = append(s.series[*t.RecurringParentID], t.ID)
	}
}

func (s *state) drop(id string) *models.Task {
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	delete(s.tasks, id)
	k := keyOf(t)
	s.children[k] = removeID(s.children[k], id)
	if len(s.children[k]) == 0 {
		delete(s.children, k)
	}
	if t.RecurringParentID != nil {
		root := *t.RecurringParentID
		s.series[root] = removeID(s.series[root], id)
		if len(s.series[root]) == 0 {
			delete(s.series, root)
		}
	}
	return t
}

// replace swaps a task for a new version while keeping its slot in the
// child ordering when the index key did not change.
func (s *state) replace(old, next *models.Task) {
	if keyOf(old) == keyOf(next) && ptrEqual(old.RecurringParentID, next.RecurringParentID) {
		s.tasks[next.ID] = next
		return
	}
	s.drop(old.ID)
	s.put(next)
}

func (s *state) childrenOf(t *models.Task) []*models.Task {
	ids := s.children[childKey{parentID: t.ID, date: t.Date}]
	out := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tasks[id])
	}
	return out
}

func (s *state) rootsOn(date string) []*models.Task {
	ids := s.children[childKey{date: date}]
	out := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tasks[id])
	}
	return out
}

// subtree returns t followed by its same-date descendants, depth first
func (s *state) subtree(t *models.Task) []*models.Task {
	var out []*models.Task
	seen := make(map[string]bool)
	var walk func(n *models.Task)
	walk = func(n *models.Task) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		out = append(out, n)
		for _, c := range s.childrenOf(n) {
			walk(c)
		}
	}
	walk(t)
	return out
}

// seriesMembers returns the template (when present) and every instance of the series
func (s *state) seriesMembers(rootID string) []*models.Task {
	var out []*models.Task
	if root := s.get(rootID); root != nil {
		out = append(out, root)
	}
	for _, id := range s.series[rootID] {
		out = append(out, s.tasks[id])
	}
	return out
}

// seriesTemplate returns the series root, or its earliest surviving
// instance when the root itself was deleted.
func (s *state) seriesTemplate(rootID string) *models.Task {
	if root := s.get(rootID); root != nil {
		return root
	}
	var first *models.Task
	for _, id := range s.series[rootID] {
		t := s.tasks[id]
		if first == nil || t.Date < first.Date {
			first = t
		}
	}
	return first
}

func (s *state) all() []*models.Task {
	out := make([]*models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

func removeID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
