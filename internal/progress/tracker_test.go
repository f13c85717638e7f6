package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerNotifiesInCallOrder(t *testing.T) {
	var events []Event
	tracker := NewTracker(func(e Event) {
		events = append(events, e)
	})

	tracker.SetTotal(100)
	tracker.SetProgress(5, "loading data")
	tracker.Update("one more")
	tracker.Complete("done")

	require.Len(t, events, 4)

	assert.Equal(t, Event{Current: 0, Total: 100, Message: "starting"}, events[0])
	assert.Equal(t, Event{Current: 5, Total: 100, Message: "loading data"}, events[1])
	assert.Equal(t, Event{Current: 6, Total: 100, Message: "one more"}, events[2])
	assert.Equal(t, Event{Current: 100, Total: 100, Message: "done"}, events[3])
}

func TestTrackerSetTotalResetsCurrent(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.SetTotal(10)
	tracker.SetProgress(7, "")
	tracker.SetTotal(20)

	assert.Equal(t, 0, tracker.Current())
	assert.Equal(t, 20, tracker.Total())
}

func TestTrackerNoObserverIsStateOnly(t *testing.T) {
	tracker := NewTracker(nil)

	// Must not panic without an observer.
	tracker.SetTotal(3)
	tracker.Update("a")
	tracker.Update("b")
	tracker.Complete("c")

	assert.Equal(t, 3, tracker.Current())
}

func TestEventPercentage(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		percent float64
	}{
		{"zero total", Event{Current: 5, Total: 0}, 0},
		{"halfway", Event{Current: 50, Total: 100}, 50},
		{"complete", Event{Current: 8, Total: 8}, 100},
		{"fractional", Event{Current: 1, Total: 3}, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.percent, tt.event.Percentage(), 1e-9)
		})
	}
}
