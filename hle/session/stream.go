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
	"errors"
	"fmt"
	"io"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/hle/audio"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/kernel"
	"github.com/jetsetilly/hleaudio/logger"
)

// Source implementations provide frames of interleaved stereo 16bit samples.
// ReadFrames() should fill as much of out as possible and return the number
// of frames written. io.EOF is returned when there are no more frames, with or
// without any frames having been written.
type Source interface {
	ReadFrames(out []int16) (int, error)
	SampleRate() int
}

// StreamConfig describes how a Source is played.
type StreamConfig struct {
	// name of the feeder thread
	Name string

	// number of frames in each output. must be a valid sample count for an
	// audio channel
	Frames int

	// channel volumes. zero values mean full volume
	LeftVolume  int
	RightVolume int
}

// Stream is a Source being played through an audio channel.
type Stream struct {
	sess   *Session
	src    Source
	cfg    StreamConfig
	ch     int
	thread kernel.ThreadID

	// address of the output buffer in emulated memory
	address uint32
	buffer  []int16

	frames int64

	// the source is exhausted
	eof bool

	// a drain-only output has been made
	draining bool

	// the feeder has finished and the channel is released when its queue is
	// empty
	releasing bool

	done bool
}

// AddStream creates a new stream for the Source. A source with a sample rate
// other than the hardware rate is played through the SRC channel, of which
// there is only one.
func (s *Session) AddStream(src Source, cfg StreamConfig) (*Stream, error) {
	if s.state == Ending {
		return nil, curated.Errorf(SessionEnded)
	}

	if cfg.Frames == 0 {
		cfg.Frames = audio.SampleAlign * 16
	}
	if cfg.LeftVolume == 0 {
		cfg.LeftVolume = format.FullVolume
	}
	if cfg.RightVolume == 0 {
		cfg.RightVolume = format.FullVolume
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("stream %d", len(s.streams))
	}

	st := &Stream{
		sess:   s,
		src:    src,
		cfg:    cfg,
		buffer: make([]int16, cfg.Frames*2),
	}

	rate := src.SampleRate()
	ch := -1
	if rate != audio.HardwareRate {
		ch = audio.SRCChannel
	}

	var err error
	st.ch, err = s.Audio.Reserve(ch, cfg.Frames, audio.Stereo)
	if err != nil {
		if curated.Is(err, audio.ChannelReserved) && ch == audio.SRCChannel {
			return nil, curated.Errorf(SRCInUse)
		}
		return nil, curated.Errorf("session: %v", err)
	}

	if st.ch == audio.SRCChannel {
		if err := s.Audio.SetSRCFrequency(rate); err != nil {
			_ = s.Audio.Release(st.ch)
			return nil, curated.Errorf("session: %v", err)
		}
	}

	if err := s.Audio.SetVolume(st.ch, cfg.LeftVolume, cfg.RightVolume); err != nil {
		_ = s.Audio.Release(st.ch)
		return nil, curated.Errorf("session: %v", err)
	}

	st.address, err = s.Mem.Alloc(uint32(len(st.buffer) * 2))
	if err != nil {
		_ = s.Audio.Release(st.ch)
		return nil, curated.Errorf("session: %v", err)
	}

	st.thread = s.Kernel.CreateThread(cfg.Name, st.run)
	s.streams = append(s.streams, st)

	logger.Logf(s.env, "session", "%s: %dHz on channel %d", cfg.Name, rate, st.ch)

	return st, nil
}

func (st *Stream) String() string {
	state := "playing"
	if st.done {
		state = "done"
	} else if st.draining || st.releasing {
		state = "draining"
	}
	return fmt.Sprintf("%s: channel %d, %d frames, %s", st.cfg.Name, st.ch, st.frames, state)
}

// Channel returns the audio channel used by the stream.
func (st *Stream) Channel() int {
	return st.ch
}

// Frames returns the number of frames that have been output.
func (st *Stream) Frames() int64 {
	return st.frames
}

// Done returns true once the stream's Source is exhausted and all of its
// frames have been mixed.
func (st *Stream) Done() bool {
	return st.done
}

// run is the entry function of the feeder thread
func (st *Stream) run(th *kernel.Thread) bool {
	if st.done || st.releasing {
		return false
	}

	// the drain-only output has finished waiting. the channel is released
	// once the last of the queue has been mixed
	if st.draining {
		st.releasing = true
		return false
	}

	if !st.eof {
		n, err := st.src.ReadFrames(st.buffer)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Logf(st.sess.env, "session", "%s: %v", st.cfg.Name, err)
			}
			st.eof = true
		}

		if n > 0 {
			clear(st.buffer[n*2:])
			if err := st.sess.Mem.WriteSamples(st.address, st.buffer); err != nil {
				logger.Logf(st.sess.env, "session", "%s: %v", st.cfg.Name, err)
				st.releasing = true
				return false
			}
			if _, err := st.sess.Audio.Output(st.ch, st.address, true); err != nil {
				logger.Logf(st.sess.env, "session", "%s: %v", st.cfg.Name, err)
			}
			st.frames += int64(n)
			return true
		}

		if !st.eof {
			return true
		}
	}

	st.draining = true
	if _, err := st.sess.Audio.Output(st.ch, 0, true); err != nil {
		logger.Logf(st.sess.env, "session", "%s: %v", st.cfg.Name, err)
	}

	// the drain-only output did not need to wait
	if th.Status() == kernel.Running {
		st.releasing = true
		return false
	}

	return true
}

// release the channel if the stream is waiting to be released and the
// channel's queue is empty
func (st *Stream) release() {
	if !st.releasing || st.done {
		return
	}
	if n, err := st.sess.Audio.RemainingSamples(st.ch); err == nil && n > 0 {
		return
	}
	st.done = true
	if err := st.sess.Audio.Release(st.ch); err != nil {
		logger.Logf(st.sess.env, "session", "%s: %v", st.cfg.Name, err)
	}
	logger.Logf(st.sess.env, "session", "%s: finished after %d frames", st.cfg.Name, st.frames)
}

// close the stream's Source if it implements io.Closer
func (st *Stream) close() error {
	if c, ok := st.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
