// Package planner owns a user's task collection and implements the task
// hierarchy, recurrence and carry-over rules on top of a Store.
//
// Each Engine confines its collection to one goroutine. Public methods
// submit work to that goroutine and wait for the result, so callers never
// touch the collection directly and operations never interleave.
package planner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// Store is the persistence collaborator. Apply must be all-or-nothing.
type Store interface {
	FetchTasks(ctx context.Context, userID string) ([]*models.Task, error)
	Apply(ctx context.Context, cs *models.ChangeSet) error
}

// Options tune an Engine. Zero values fall back to defaults.
type Options struct {
	// HorizonMonths bounds recurrence generation, counted from today.
	HorizonMonths int
	// Location decides what "today" is.
	Location *time.Location
	// Now is the clock; tests pin it.
	Now func() time.Time
	// EventBuffer is the channel size handed to each subscriber.
	EventBuffer int
}

const (
	DefaultHorizonMonths = 24
	defaultEventBuffer   = 64
)

func (o Options) withDefaults() Options {
	if o.HorizonMonths <= 0 {
		o.HorizonMonths = DefaultHorizonMonths
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = defaultEventBuffer
	}
	return o
}

type Engine struct {
	userID string
	store  Store
	opts   Options

	ops    chan func()
	quit   chan struct{}
	done   chan struct{}
	events *bus

	closeOnce sync.Once

	// owned by the loop goroutine
	state *state
}

// NewEngine loads the user's tasks from the store and starts the engine loop
func NewEngine(ctx context.Context, store Store, userID string, opts Options) (*Engine, error) {
	tasks, err := store.FetchTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks for %s: %w", userID, err)
	}
	e := &Engine{
		userID: userID,
		store:  store,
		opts:   opts.withDefaults(),
		ops:    make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		events: newBus(),
		state:  newState(tasks),
	}
	go e.loop()
	return e, nil
}

func (e *Engine) UserID() string {
	return e.userID
}

func (e *Engine) loop() {
	defer close(e.done)
	for {
		select {
		case op := <-e.ops:
			op()
		case <-e.quit:
			return
		}
	}
}

// do runs fn on the engine goroutine. The context bounds the wait only:
// once fn started, its store writes run to completion.
func (e *Engine) do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	errc := make(chan error, 1)
	op := func() {
		err := fn()
		if err != nil {
			e.emit(Event{Type: EventError, Message: Notice(err)})
		}
		errc <- err
	}

	select {
	case e.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrClosed
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop and closes every subscription
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		<-e.done
		e.events.close()
	})
}

// Subscribe returns a channel of events and a func that ends the subscription
func (e *Engine) Subscribe() (<-chan Event, func()) {
	return e.events.subscribe(e.opts.EventBuffer)
}

func (e *Engine) emit(ev Event) {
	ev.UserID = e.userID
	ev.At = e.opts.Now()
	if ev.Task != nil {
		ev.Task = ev.Task.Clone()
		if ev.TaskID == "" {
			ev.TaskID = ev.Task.ID
		}
	}
	e.events.publish(ev)
}

func (e *Engine) today() string {
	return formatDate(e.opts.Now().In(e.opts.Location))
}

func (e *Engine) horizon() time.Time {
	today, _ := parseDate(e.today())
	return today.AddDate(0, e.opts.HorizonMonths, 0)
}

func (e *Engine) begin() *txn {
	return e.state.begin(e.opts.Now().UnixMilli())
}

// commit writes the staged changes in one store call, restoring the
// in-memory state if the call fails.
func (e *Engine) commit(ctx context.Context, x *txn, op string) error {
	if x.changes.IsEmpty() {
		return nil
	}
	if err := e.store.Apply(context.WithoutCancel(ctx), &x.changes); err != nil {
		x.rollback()
		log.Printf("[ERROR] %s (user: %s): %v", op, e.userID, err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

// TaskFilter narrows Tasks. Empty fields match everything.
type TaskFilter struct {
	Date      string
	ParentID  string
	RootsOnly bool
}

func (f TaskFilter) match(t *models.Task) bool {
	if f.Date != "" && t.Date != f.Date {
		return false
	}
	if f.RootsOnly && t.ParentID != nil {
		return false
	}
	if f.ParentID != "" && (t.ParentID == nil || *t.ParentID != f.ParentID) {
		return false
	}
	return true
}

// Tasks returns snapshots of the matching tasks ordered by date, start time
// and creation.
func (e *Engine) Tasks(ctx context.Context, f TaskFilter) ([]*models.Task, error) {
	var out []*models.Task
	err := e.do(ctx, func() error {
		for _, t := range e.state.all() {
			if f.match(t) {
				out = append(out, t.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

func (e *Engine) Task(ctx context.Context, id string) (*models.Task, error) {
	var out *models.Task
	err := e.do(ctx, func() error {
		t := e.state.get(id)
		if t == nil {
			return fmt.Errorf("get %s: %w", id, ErrTaskNotFound)
		}
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Series returns the template and instances of the series id belongs to, by date
func (e *Engine) Series(ctx context.Context, id string) ([]*models.Task, error) {
	var out []*models.Task
	err := e.do(ctx, func() error {
		rootID, err := seriesRoot(e.state, id)
		if err != nil {
			return err
		}
		for _, t := range e.state.seriesMembers(rootID) {
			out = append(out, t.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

// Reload replaces the in-memory collection with the store's current view
func (e *Engine) Reload(ctx context.Context) error {
	return e.do(ctx, func() error {
		tasks, err := e.store.FetchTasks(ctx, e.userID)
		if err != nil {
			return &PersistenceError{Op: "failed to load tasks", Err: err}
		}
		e.state = newState(tasks)
		return nil
	})
}

func sortTasks(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		as, bs := deref(a.StartTime), deref(b.StartTime)
		if as != bs {
			return as < bs
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID < b.ID
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
