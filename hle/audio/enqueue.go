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
	"encoding/binary"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/kernel"
	"github.com/jetsetilly/hleaudio/logger"
)

// WakeAll is the step value that wakes every thread waiting on a channel.
const WakeAll = 0x7fffffff

// Enqueue copies the channel's current block of samples from emulated memory
// into the channel's queue. The return value is the number of frames accepted,
// which is zero for an output with no sample address on a game channel.
//
// If the queue is not empty a non-blocking output fails with ChannelBusy. A
// blocking output puts the current thread to sleep until the queue has
// drained sufficiently. The samples are queued immediately and the thread is
// resumed by WakeWaitingThreads() with the frame count as its return value.
// If thread dispatch is disabled a blocking output cannot sleep and fails
// with ChannelBusy.
func (e *Engine) Enqueue(ch int, blocking bool) (int, error) {
	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}

	ret := c.SampleCount
	if c.SampleAddress == 0 && ch != SRCChannel {
		ret = 0
	}

	if c.queue.Size() > 0 {
		if !blocking {
			return 0, curated.Errorf(ChannelBusy, ch)
		}

		if !e.kernel.IsDispatchEnabled() {
			return 0, curated.Errorf(ChannelBusy, ch)
		}

		w := Waiter{
			Thread:          e.kernel.CurrentThread(),
			FramesRemaining: c.queue.Size() / 2 / e.env.Prefs.Audio.MinSizeFactor.Get().(int),
		}
		c.Waiting = append(c.Waiting, w)

		err := e.kernel.WaitCurrentThread(kernel.WaitAudioChannel, uint32(ch+1), uint32(ret), "blocking audio")
		if err != nil {
			c.Waiting = c.Waiting[:len(c.Waiting)-1]
			return 0, err
		}
	}

	if c.SampleAddress == 0 {
		return ret, nil
	}

	if c.Format == Stereo && c.LeftVolume == format.FullVolume && c.RightVolume == format.FullVolume {
		e.enqueueUnscaled(c)
		return ret, nil
	}

	e.enqueueScaled(c)
	return ret, nil
}

// enqueueUnscaled copies stereo samples into the queue without change
func (e *Engine) enqueueUnscaled(c *Channel) {
	size := uint32(c.SampleCount * 4)
	if !e.mem.IsValidRange(c.SampleAddress, size) {
		logger.Logf(e.env, "audio", "channel %d: invalid sample range %#08x+%d", c.Index, c.SampleAddress, size)
		return
	}

	data := e.mem.Slice(c.SampleAddress, size)
	a, b := c.queue.PushSpans(c.SampleCount * 2)
	decodeSamples(a, data)
	decodeSamples(b, data[len(a)*2:])
	e.logOverflow(c, c.SampleCount*2-len(a)-len(b))
}

// enqueueScaled copies samples into the queue applying the channel volumes.
// mono samples are duplicated onto both sides
func (e *Engine) enqueueScaled(c *Channel) {
	size := uint32(c.SampleCount * c.Format.samplesPerFrame() * 2)
	if !e.mem.IsValidRange(c.SampleAddress, size) {
		logger.Logf(e.env, "audio", "channel %d: invalid sample range %#08x+%d", c.Index, c.SampleAddress, size)
		return
	}

	// volumes are shifted so that the result can be taken from the upper
	// half of the product
	l := c.LeftVolume << 1
	r := c.RightVolume << 1

	data := e.mem.Slice(c.SampleAddress, size)

	if c.Format == Stereo {
		a, b := c.queue.PushSpans(c.SampleCount * 2)
		decodeSamples(a, data)
		format.AdjustVolumeBlock(a, a, l, r)
		decodeSamples(b, data[len(a)*2:])
		format.AdjustVolumeBlock(b, b, l, r)
		e.logOverflow(c, c.SampleCount*2-len(a)-len(b))
		return
	}

	n := min(c.SampleCount, c.queue.Free()/2)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		c.queue.Push(format.ApplyVolume(s, l))
		c.queue.Push(format.ApplyVolume(s, r))
	}
	e.logOverflow(c, (c.SampleCount-n)*2)
}

// logOverflow notes samples that did not fit into the channel queue. the
// output still reports the full sample count to the caller
func (e *Engine) logOverflow(c *Channel, dropped int) {
	if dropped > 0 {
		logger.Logf(e.env, "audio", "channel %d: queue full, %d samples dropped", c.Index, dropped)
	}
}

// decodeSamples fills out with little-endian samples from data
func decodeSamples(out []int16, data []uint8) {
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
}

// WakeWaitingThreads is called when step frames have been drained from the
// channel. Threads that have waited long enough are resumed. The result is
// zero for a normal wake, in which case the thread's wait value is used as
// the return value, or a result code to give to the thread instead.
//
// Threads that are no longer waiting on the channel are forgotten.
func (e *Engine) WakeWaitingThreads(ch int, result uint32, step int) {
	c, err := e.channel(ch)
	if err != nil {
		return
	}

	woken := false

	n := 0
	for _, w := range c.Waiting {
		w.FramesRemaining -= step

		waitID, err := e.kernel.WaitID(w.Thread, kernel.WaitAudioChannel)
		if err != nil || waitID == 0 {
			continue
		}

		if w.FramesRemaining <= 0 {
			ret := result
			if result == 0 {
				ret, err = e.kernel.WaitValue(w.Thread)
				if err != nil {
					logger.Log(e.env, "audio", err)
					continue
				}
			} else {
				ret = ResultChannelNotReserved
			}

			if err := e.kernel.ResumeThreadFromWait(w.Thread, ret); err != nil {
				logger.Log(e.env, "audio", err)
			} else {
				woken = true
			}
			continue
		}

		c.Waiting[n] = w
		n++
	}
	c.Waiting = c.Waiting[:n]

	if woken {
		e.kernel.ReSchedule("audio drain")
	}
}
