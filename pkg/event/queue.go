package event

import (
	"sort"
	"sync"
)

// Queue collects events across threads and hands them to the render context
// in non-decreasing time order. Events sharing a timestamp keep their
// insertion order.
type Queue struct {
	events []Event
	mu     sync.Mutex
	sorted bool
}

func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 128),
		sorted: true,
	}
}

func (q *Queue) Push(events ...Event) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, events...)
	q.sorted = false
}

// Events returns the queued events sorted stably by time. The returned slice
// is a copy; the queue keeps its contents until Clear or Drain.
func (q *Queue) Events() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sortLocked()

	result := make([]Event, len(q.events))
	copy(result, q.events)
	return result
}

// Drain empties the queue and returns its sorted contents.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sortLocked()

	result := make([]Event, len(q.events))
	copy(result, q.events)
	q.events = q.events[:0]
	q.sorted = true
	return result
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = q.events[:0]
	q.sorted = true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *Queue) sortLocked() {
	if q.sorted {
		return
	}
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].Time() < q.events[j].Time()
	})
	q.sorted = true
}
