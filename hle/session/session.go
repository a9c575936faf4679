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

package session

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/environment"
	"github.com/jetsetilly/hleaudio/hle/audio"
	"github.com/jetsetilly/hleaudio/hle/coretiming"
	"github.com/jetsetilly/hleaudio/hle/kernel"
	"github.com/jetsetilly/hleaudio/hle/memory"
	"github.com/jetsetilly/hleaudio/logger"
)

// State indicates the session's state.
//
// Values are ordered so that order comparisons are meaningful.
type State int

// List of possible session states.
const (
	Initialising State = iota
	Paused
	Running
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "initialising"
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Ending:
		return "ending"
	}
	return "unknown"
}

// Sentinal errors.
const (
	SessionEnded = "session: session has ended"
	SRCInUse     = "session: the SRC channel is already in use"
	BadState     = "session: state: %v"
)

// Session is a single emulation session.
type Session struct {
	env *environment.Environment

	Timing *coretiming.Timing
	Mem    *memory.Memory
	Kernel *kernel.Kernel
	Audio  *audio.Engine

	streams []*Stream
	state   State
}

// NewSession is the preferred method of initialisation for the Session type.
// The clock frequency is taken from the hle.cpumhz preference.
func NewSession(env *environment.Environment) (*Session, error) {
	s := &Session{
		env:    env,
		Timing: coretiming.NewTiming(env),
		Mem:    memory.NewMemory(memory.DefaultSize),
		Kernel: kernel.NewKernel(env),
	}

	s.Timing.SetClockFrequency(int64(env.Prefs.CPUMHz.Get().(int)) * 1000000)

	var err error
	s.Audio, err = audio.NewEngine(env, s.Timing, s.Mem, s.Kernel, nil)
	if err != nil {
		return nil, curated.Errorf("session: %v", err)
	}

	s.state = Paused

	return s, nil
}

func (s *Session) String() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("%s: %s\n", s.state, s.Timing))
	for _, st := range s.streams {
		b.WriteString(st.String())
		b.WriteString("\n")
	}
	b.WriteString(s.Audio.String())
	return b.String()
}

// State returns the current state of the session.
func (s *Session) State() State {
	return s.state
}

// SetHost changes the host audio sink that is poked by the audio engine.
func (s *Session) SetHost(host audio.Host) {
	s.Audio.SetHost(host)
}

// Streams returns the streams that have been added to the session.
func (s *Session) Streams() []*Stream {
	return s.streams
}

// Done returns true if there are no streams or if every stream has finished.
func (s *Session) Done() bool {
	for _, st := range s.streams {
		if !st.Done() {
			return false
		}
	}
	return true
}

// Advance the session by a number of cycles of the virtual clock. Feeder
// threads are run whenever they are ready, including before the first cycle
// so that the first tick finds audio queued.
func (s *Session) Advance(cycles int64) error {
	if s.state == Ending {
		return curated.Errorf(SessionEnded)
	}
	s.state = Running

	s.Kernel.RunReady()

	for cycles > 0 {
		step := cycles
		if next, ok := s.Timing.CyclesUntilNextEvent(); ok {
			step = max(1, min(step, next))
		}
		s.Timing.Advance(step)
		s.Kernel.RunReady()
		for _, st := range s.streams {
			st.release()
		}
		cycles -= step
	}

	s.state = Paused

	return nil
}

// RunFor advances the session by an amount of emulated time.
func (s *Session) RunFor(d time.Duration) error {
	return s.Advance(s.Timing.UsToCycles(d.Microseconds()))
}

// RunUntilDone advances the session in steps of emulated time until every
// stream has finished or until the limit is reached. A limit of zero means
// there is no limit. Returns the amount of emulated time that passed.
func (s *Session) RunUntilDone(step time.Duration, limit time.Duration) (time.Duration, error) {
	var elapsed time.Duration
	for !s.Done() {
		if limit > 0 && elapsed >= limit {
			break
		}
		if err := s.RunFor(step); err != nil {
			return elapsed, err
		}
		elapsed += step
	}
	return elapsed, nil
}

// Shutdown ends the session. Streams are closed and the audio engine is shut
// down. The session cannot be advanced after shutdown.
func (s *Session) Shutdown() error {
	if s.state == Ending {
		return nil
	}
	s.state = Ending

	var errs []error
	for _, st := range s.streams {
		if err := st.close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.Audio.StopCapture(); err != nil {
		errs = append(errs, err)
	}
	s.Audio.Shutdown()
	s.Kernel.Reset()

	if err := errors.Join(errs...); err != nil {
		logger.Log(s.env, "session", err)
		return curated.Errorf("session: %v", err)
	}
	return nil
}

// sessionState is the saved state of a Session.
type sessionState struct {
	Timing *coretiming.State
	Audio  *audio.State
}

// SaveState writes the state of the virtual clock and the audio engine to w.
// The positions of streams are not part of the state.
func (s *Session) SaveState(w io.Writer) error {
	st := sessionState{
		Timing: s.Timing.Snapshot(),
		Audio:  s.Audio.Snapshot(),
	}
	if err := gob.NewEncoder(w).Encode(st); err != nil {
		return curated.Errorf(BadState, err)
	}
	return nil
}

// LoadState restores a state written by SaveState().
func (s *Session) LoadState(r io.Reader) error {
	var st sessionState
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return curated.Errorf(BadState, err)
	}

	// feeders waiting now may not be waiting in the restored state
	for _, fd := range s.streams {
		_ = s.Kernel.CancelWait(fd.thread)
	}

	if err := s.Timing.Plumb(st.Timing); err != nil {
		return curated.Errorf(BadState, err)
	}
	if err := s.Audio.Plumb(st.Audio); err != nil {
		return curated.Errorf(BadState, err)
	}
	return nil
}
