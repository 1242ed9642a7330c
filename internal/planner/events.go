package planner

import (
	"log"
	"sync"
	"time"

	"github.com/gurkanbulca/dayplan/internal/models"
)

type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskUpdated     EventType = "task_updated"
	EventTaskCompleted   EventType = "task_completed"
	EventSeriesExtended  EventType = "series_extended"
	EventSeriesEnded     EventType = "series_ended"
	EventTaskCarriedOver EventType = "task_carried_over"
	EventTaskDeleted     EventType = "task_deleted"
	EventSeriesDeleted   EventType = "series_deleted"
	EventPlanImported    EventType = "plan_imported"
	EventError           EventType = "error"
)

// Event is emitted after an operation committed, or failed.
// Task is a snapshot; mutating it has no effect on the planner.
type Event struct {
	Type    EventType
	UserID  string
	TaskID  string
	Task    *models.Task
	Count   int
	Date    string
	Message string
	At      time.Time
}

type bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func newBus() *bus {
	return &bus{subs: make(map[int]chan Event)}
}

func (b *bus) subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// publish never blocks the planner loop; slow subscribers miss events.
func (b *bus) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("[WARN] dropping %s event for subscriber %d (user %s)", ev.Type, id, ev.UserID)
		}
	}
}

func (b *bus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
