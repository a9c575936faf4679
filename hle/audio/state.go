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

package audio

import (
	"encoding/gob"
	"io"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/hle/audio/resampler"
	"github.com/jetsetilly/hleaudio/hle/coretiming"
)

// StateVersion is incremented whenever the layout of State changes.
const StateVersion = 1

// ChannelState is the saved state of a single channel. The samples in the
// channel's queue are not saved.
type ChannelState struct {
	Index         int
	Reserved      bool
	SampleAddress uint32
	SampleCount   int
	Format        Format
	LeftVolume    int
	RightVolume   int
	Waiting       []Waiter
}

// State is the saved state of the Engine.
type State struct {
	Version int

	TickEvent coretiming.EventType
	HostEvent coretiming.EventType

	MixFrequency int
	SRCFrequency int

	Resampler resampler.State

	Channels []ChannelState
}

// Snapshot returns the current state of the Engine.
func (e *Engine) Snapshot() *State {
	s := &State{
		Version:      StateVersion,
		TickEvent:    e.tickEvent,
		HostEvent:    e.hostEvent,
		MixFrequency: e.mixFrequency,
		SRCFrequency: e.srcFrequency,
		Resampler:    e.resampler.Snapshot(),
		Channels:     make([]ChannelState, 0, len(e.channels)),
	}

	for _, c := range e.channels {
		s.Channels = append(s.Channels, ChannelState{
			Index:         c.Index,
			Reserved:      c.Reserved,
			SampleAddress: c.SampleAddress,
			SampleCount:   c.SampleCount,
			Format:        c.Format,
			LeftVolume:    c.LeftVolume,
			RightVolume:   c.RightVolume,
			Waiting:       append([]Waiter{}, c.Waiting...),
		})
	}

	return s
}

// Plumb restores a previously snapshotted state. The queues of all channels
// are emptied. The event types in the state are tied to the Engine's
// callbacks but it is the responsibility of the caller to restore the
// pending events in the virtual clock.
//
// An automatic capture is restarted at the next tick if the
// audio.saveloadresetscapture preference is set.
func (e *Engine) Plumb(s *State) error {
	if s == nil {
		return curated.Errorf(StateError, "no state")
	}
	if s.Version != StateVersion {
		return curated.Errorf(StateError, curated.Errorf("unsupported version %d", s.Version))
	}
	if len(s.Channels) != len(e.channels) {
		return curated.Errorf(StateError, curated.Errorf("expected %d channels, found %d", len(e.channels), len(s.Channels)))
	}
	if s.MixFrequency <= 0 || s.SRCFrequency < 0 {
		return curated.Errorf(StateError, curated.Errorf("bad frequencies %d/%d", s.MixFrequency, s.SRCFrequency))
	}

	for i, cs := range s.Channels {
		c := e.channels[i]
		c.clear()
		c.Reserved = cs.Reserved
		c.SampleAddress = cs.SampleAddress
		c.SampleCount = cs.SampleCount
		c.Format = cs.Format
		c.LeftVolume = cs.LeftVolume
		c.RightVolume = cs.RightVolume
		c.Waiting = append(c.Waiting[:0], cs.Waiting...)
	}

	e.mixFrequency = s.MixFrequency
	e.srcFrequency = s.SRCFrequency

	e.tickEvent = s.TickEvent
	e.hostEvent = s.HostEvent
	e.timing.RestoreRegisterEvent(e.tickEvent, tickEventName, e.tickCallback)
	e.timing.RestoreRegisterEvent(e.hostEvent, hostEventName, e.hostCallback)
	e.updateIntervals()

	e.resampler.Plumb(s.Resampler)
	e.resampler.SetInputRate(e.mixFrequency)
	e.updateVolume()

	e.resetCapture = true

	return nil
}

// SaveState writes the current state of the Engine to w.
func (e *Engine) SaveState(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(e.Snapshot()); err != nil {
		return curated.Errorf(StateError, err)
	}
	return nil
}

// LoadState reads a state written by SaveState() and restores it.
func (e *Engine) LoadState(r io.Reader) error {
	var s State
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	return e.Plumb(&s)
}
