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
	"sort"

	"github.com/jetsetilly/hleaudio/curated"
)

// PendingEvent is a scheduled event as stored in a State.
type PendingEvent struct {
	Time     int64
	Event    EventType
	Userdata uint64
}

// State is the saveable state of the virtual clock.
type State struct {
	Ticks  int64
	Hz     int64
	Events []PendingEvent
}

// Snapshot returns the current state of the clock. The pending events are in
// the order they will fire.
func (t *Timing) Snapshot() *State {
	s := &State{
		Ticks: t.ticks,
		Hz:    t.hz,
	}

	q := make(eventQueue, len(t.queue))
	copy(q, t.queue)
	sort.Slice(q, q.Less)

	for _, e := range q {
		s.Events = append(s.Events, PendingEvent{Time: e.time, Event: e.ev, Userdata: e.userdata})
	}

	return s
}

// Plumb restores a previously snapshotted state. Callbacks for the event
// types in the state should be restored with RestoreRegisterEvent(). The
// MHz change callbacks are called if the restored frequency differs from the
// current frequency.
func (t *Timing) Plumb(s *State) error {
	if s == nil || s.Hz <= 0 {
		return curated.Errorf(BadState, "no clock frequency")
	}

	t.queue = t.queue[:0]
	t.seq = 0
	t.ticks = s.Ticks

	for _, e := range s.Events {
		if e.Event < 0 {
			return curated.Errorf(UnknownEvent, e.Event)
		}
		heap.Push(&t.queue, &event{time: e.Time, ev: e.Event, userdata: e.Userdata, seq: t.seq})
		t.seq++
	}

	t.SetClockFrequency(s.Hz)

	return nil
}
