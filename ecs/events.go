package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventHandMoved = "hand_moved"

// HandMovedEvent carries the top-left corner of a detected hand in
// viewport pixels.
type HandMovedEvent struct {
	X float64
	Y float64
}

// EventQueue is a simple FIFO queue. The world clears it after every
// update, so events live for exactly one tick.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Of returns the queued events of type typ in push order without removing
// them.
func (q *EventQueue) Of(typ string) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
