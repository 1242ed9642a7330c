package planner

import (
	"fmt"
	"time"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// seriesLimit is the last day a series may reach: its end date, capped by
// the generation horizon.
func (e *Engine) seriesLimit(tmpl *models.Task) time.Time {
	limit := e.horizon()
	if tmpl.RecurrenceEndDate != nil {
		if end, err := parseDate(*tmpl.RecurrenceEndDate); err == nil && end.Before(limit) {
			limit = end
		}
	}
	return limit
}

// spawnInstance clones the template and its whole subtree onto date
func (x *txn) spawnInstance(tmpl *models.Task, rootID, date string) *models.Task {
	inst := x.fresh(tmpl, date)
	inst.IsRecurring = true
	inst.RecurrencePattern = tmpl.RecurrencePattern
	if tmpl.RecurrenceEndDate != nil {
		end := *tmpl.RecurrenceEndDate
		inst.RecurrenceEndDate = &end
	}
	root := rootID
	inst.RecurringParentID = &root
	x.insert(inst)
	x.cloneSubtree(tmpl, inst, nil, nil)
	return inst
}

// generateSeries creates the initial instances of a new template.
// occurrences <= 0 fills every qualifying day up to the series limit.
func (e *Engine) generateSeries(x *txn, root *models.Task, occurrences int) ([]*models.Task, error) {
	anchor, err := parseDate(root.Date)
	if err != nil {
		return nil, err
	}
	var out []*models.Task
	for _, d := range nextDates(root.RecurrencePattern, anchor, anchor, e.seriesLimit(root), occurrences) {
		out = append(out, x.spawnInstance(root, root.ID, formatDate(d)))
	}
	return out, nil
}

// seriesRoot resolves the series id of a template or instance
func seriesRoot(s *state, id string) (string, error) {
	t := s.get(id)
	if t == nil {
		return "", fmt.Errorf("series of %s: %w", id, ErrTaskNotFound)
	}
	if !t.IsRecurring && t.RecurringParentID == nil {
		return "", fmt.Errorf("series of %s: %w", id, ErrNotRecurring)
	}
	return t.SeriesRootID(), nil
}

func (e *Engine) extendSeries(x *txn, id string, occurrences int) ([]*models.Task, error) {
	if occurrences < 1 {
		return nil, fmt.Errorf("%w: occurrences must be positive", ErrInvalidTask)
	}
	rootID, err := seriesRoot(x.s, id)
	if err != nil {
		return nil, err
	}
	tmpl := x.s.seriesTemplate(rootID)
	if tmpl == nil || !tmpl.RecurrencePattern.Valid() {
		return nil, nil
	}
	anchor, err := parseDate(tmpl.Date)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool)
	last := anchor
	for _, m := range x.s.seriesMembers(rootID) {
		existing[m.Date] = true
		if d, err := parseDate(m.Date); err == nil && d.After(last) {
			last = d
		}
	}

	var out []*models.Task
	limit := e.seriesLimit(tmpl)
	for len(out) < occurrences {
		dates := nextDates(tmpl.RecurrencePattern, anchor, last, limit, occurrences-len(out))
		if len(dates) == 0 {
			break
		}
		for _, d := range dates {
			last = d
			date := formatDate(d)
			if existing[date] {
				continue
			}
			existing[date] = true
			out = append(out, x.spawnInstance(tmpl, rootID, date))
		}
	}
	return out, nil
}

// endSeries stops future generation by setting the template's end date to
// today. Existing instances are left untouched.
func (e *Engine) endSeries(x *txn, id string) (bool, error) {
	rootID, err := seriesRoot(x.s, id)
	if err != nil {
		return false, err
	}
	tmpl := x.s.seriesTemplate(rootID)
	if tmpl == nil || !tmpl.RecurrencePattern.Valid() {
		return false, nil
	}
	today := e.today()
	// an earlier end date already stops the series
	if end := tmpl.RecurrenceEndDate; end != nil && *end <= today {
		return false, nil
	}
	x.patch([]string{tmpl.ID}, models.TaskPatch{RecurrenceEndDate: &today})
	return true, nil
}
