package ecs

// InputEvent is a raw input transition reported by the host, such as a key
// going down. Action is a logical name ("left", "jump", ...).
type InputEvent struct {
	Action  string
	Pressed bool
}

// EventQueue is a simple FIFO of input events. The host pushes between
// Update calls; Input systems drain it.
type EventQueue struct {
	items []InputEvent
}

// Push adds an event.
func (q *EventQueue) Push(evt InputEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []InputEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len is the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
