// This file is part of hleaudio.
//
// hleaudio is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// hleaudio is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with hleaudio.  If not, see <https://www.gnu.org/licenses/>.

package coretiming

import (
	"container/heap"
	"fmt"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
)

// EventType identifies a registered event.
type EventType int

// NoEvent is returned by functions when an EventType cannot be identified.
const NoEvent = EventType(-1)

// Callback is the function called when an event fires. The userdata is the
// value given when the event was scheduled. The cyclesLate value is the
// number of cycles between when the event was due and when it was fired.
type Callback func(userdata uint64, cyclesLate int64)

type registered struct {
	name     string
	callback Callback
}

// Sentinal errors.
const (
	UnknownEvent = "coretiming: unknown event (%d)"
	BadState     = "coretiming: %v"
)

// Timing is the virtual clock and its queue of pending events.
type Timing struct {
	env logger.Permission

	registered []registered
	queue      eventQueue

	// sequence number of the next event to be scheduled. used to maintain
	// scheduling order for events due at the same time
	seq uint64

	ticks int64
	hz    int64

	mhzChange []func()
}

// DefaultHz is the clock frequency of a new Timing instance.
const DefaultHz = 222 * 1000 * 1000

// NewTiming is the preferred method of initialisation for the Timing type.
// Log entries are made with the supplied permission.
func NewTiming(env logger.Permission) *Timing {
	return &Timing{
		env: env,
		hz:  DefaultHz,
	}
}

func (t *Timing) String() string {
	return fmt.Sprintf("%d cycles @ %dHz (%d events pending)", t.ticks, t.hz, t.queue.Len())
}

// RegisterEvent adds a new event type. The name is for information only and
// does not need to be unique.
func (t *Timing) RegisterEvent(name string, callback Callback) EventType {
	t.registered = append(t.registered, registered{name: name, callback: callback})
	return EventType(len(t.registered) - 1)
}

// RestoreRegisterEvent replaces the callback of a previously registered
// event. It is used after a restored state, when the EventType values in the
// state must be tied to callbacks again. If the event type does not exist
// then the registration table is extended to include it.
func (t *Timing) RestoreRegisterEvent(ev EventType, name string, callback Callback) {
	if ev < 0 {
		return
	}
	for int(ev) >= len(t.registered) {
		t.registered = append(t.registered, registered{name: "unregistered"})
	}
	t.registered[ev] = registered{name: name, callback: callback}
}

// EventName returns the name of a registered event.
func (t *Timing) EventName(ev EventType) string {
	if ev < 0 || int(ev) >= len(t.registered) {
		return "unknown"
	}
	return t.registered[ev].name
}

// ScheduleEvent schedules an event to fire a number of cycles in the future.
// A negative number of cycles schedules the event in the past. It will fire
// at the next opportunity with a correspondingly large cyclesLate value. This
// allows a callback that fired late to keep its period by rescheduling
// itself with the interval minus cyclesLate.
func (t *Timing) ScheduleEvent(cyclesIntoFuture int64, ev EventType, userdata uint64) error {
	if ev < 0 || int(ev) >= len(t.registered) {
		return curated.Errorf(UnknownEvent, ev)
	}
	heap.Push(&t.queue, &event{
		time:     t.ticks + cyclesIntoFuture,
		ev:       ev,
		userdata: userdata,
		seq:      t.seq,
	})
	t.seq++
	return nil
}

// UnscheduleEvent removes all pending instances of an event with matching
// userdata. Returns the number of cycles that were left until the first of
// the removed instances was due, or zero if nothing was removed.
func (t *Timing) UnscheduleEvent(ev EventType, userdata uint64) int64 {
	var left int64
	found := false
	q := t.queue[:0]
	for _, e := range t.queue {
		if e.ev == ev && e.userdata == userdata {
			if !found || e.time-t.ticks < left {
				left = e.time - t.ticks
			}
			found = true
			continue
		}
		q = append(q, e)
	}
	clear(t.queue[len(q):])
	t.queue = q
	heap.Init(&t.queue)
	return left
}

// IsScheduled returns true if there is at least one pending instance of the
// event.
func (t *Timing) IsScheduled(ev EventType) bool {
	for _, e := range t.queue {
		if e.ev == ev {
			return true
		}
	}
	return false
}

// Ticks returns the number of cycles since the clock was created.
func (t *Timing) Ticks() int64 {
	return t.ticks
}

// CyclesUntilNextEvent returns the number of cycles until the next event is
// due. Returns false if there are no pending events.
func (t *Timing) CyclesUntilNextEvent() (int64, bool) {
	if len(t.queue) == 0 {
		return 0, false
	}
	return max(0, t.queue[0].time-t.ticks), true
}

// Advance the clock by the number of cycles and fire any events that are
// now due, in the order in which they were due. Events scheduled by a
// callback will also fire if they become due within the advance.
func (t *Timing) Advance(cycles int64) {
	t.ticks += max(0, cycles)

	for len(t.queue) > 0 && t.queue[0].time <= t.ticks {
		e := heap.Pop(&t.queue).(*event)
		if int(e.ev) >= len(t.registered) {
			logger.Logf(t.env, "coretiming", "event %d is not registered", e.ev)
			continue
		}
		r := t.registered[e.ev]
		if r.callback == nil {
			logger.Logf(t.env, "coretiming", "event %d (%s) has no callback", e.ev, r.name)
			continue
		}
		r.callback(e.userdata, t.ticks-e.time)
	}
}

// Hz returns the current clock frequency.
func (t *Timing) Hz() int64 {
	return t.hz
}

// SetClockFrequency changes the clock frequency. Functions registered with
// RegisterMHzChangeCallback() are called if the frequency has changed.
func (t *Timing) SetClockFrequency(hz int64) {
	if hz <= 0 || hz == t.hz {
		return
	}
	t.hz = hz
	logger.Logf(t.env, "coretiming", "clock frequency changed to %dHz", hz)
	for _, f := range t.mhzChange {
		f()
	}
}

// RegisterMHzChangeCallback adds a function to be called whenever the clock
// frequency changes.
func (t *Timing) RegisterMHzChangeCallback(f func()) {
	t.mhzChange = append(t.mhzChange, f)
}

// UsToCycles converts microseconds to cycles at the current clock frequency.
func (t *Timing) UsToCycles(us int64) int64 {
	return us * t.hz / 1000000
}

// CyclesToUs converts cycles to microseconds at the current clock frequency.
func (t *Timing) CyclesToUs(cycles int64) int64 {
	return cycles * 1000000 / t.hz
}
