// Package progress converts discrete pipeline progress updates into a
// stream of events delivered synchronously to a single observer.
package progress

// Event is a snapshot of progress state at one update.
type Event struct {
	Current int
	Total   int
	Message string
}

// Percentage returns completion on a 0-100 scale, 0 when Total is 0.
func (e Event) Percentage() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Total) * 100
}

// Observer receives every progress event, in call order, on the caller's
// goroutine. Implementations must be cheap and must not block; a UI
// observer should hand the event off without waiting.
type Observer func(Event)

// Tracker tracks progress for one run. Every mutation notifies the
// observer immediately with a snapshot; there is no buffering or
// coalescing. With no observer registered, calls only update state.
type Tracker struct {
	observer Observer
	current  int
	total    int
}

// NewTracker returns a tracker reporting to observer, which may be nil.
func NewTracker(observer Observer) *Tracker {
	return &Tracker{observer: observer}
}

// SetTotal fixes the number of steps, resets progress to zero and
// notifies with the initial message.
func (t *Tracker) SetTotal(total int) {
	t.total = total
	t.current = 0
	t.notify("starting")
}

// Update advances progress by one step.
func (t *Tracker) Update(message string) {
	t.current++
	t.notify(message)
}

// SetProgress moves progress to an absolute position.
func (t *Tracker) SetProgress(current int, message string) {
	t.current = current
	t.notify(message)
}

// Complete jumps progress to the total.
func (t *Tracker) Complete(message string) {
	t.current = t.total
	t.notify(message)
}

// Current returns the current step.
func (t *Tracker) Current() int { return t.current }

// Total returns the configured step count.
func (t *Tracker) Total() int { return t.total }

func (t *Tracker) notify(message string) {
	if t.observer == nil {
		return
	}
	t.observer(Event{Current: t.current, Total: t.total, Message: message})
}
