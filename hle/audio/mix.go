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
	"math"

	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/logger"
)

// MixTick mixes one block of BlockSize frames from every reserved channel.
// It is called by the virtual clock at the hardware rate but can be called
// directly.
//
// Waiting threads are woken as their channel drains. A channel that cannot
// supply a full block contributes what it has and the rest of the block is
// silent for that channel. The mixed block is sent to the output resampler if
// sound is enabled and to the capture file if one is open.
func (e *Engine) MixTick() {
	e.ticks++

	clear(e.accum)

	for ch, c := range e.channels {
		if !c.Reserved {
			continue
		}

		e.WakeWaitingThreads(ch, 0, BlockSize)

		if c.queue.Size() == 0 {
			continue
		}

		needsResample := ch == SRCChannel && e.srcFrequency != 0 && e.srcFrequency != e.mixFrequency

		sz := BlockSize * 2
		if needsResample {
			sz = (BlockSize * 2 * e.srcFrequency / e.mixFrequency) &^ 1
		}

		if c.queue.Size() < sz {
			if !c.underrun {
				logger.Logf(e.env, "audio", "channel %d: buffer underrun at %d of %d", ch, c.queue.Size()/2, sz/2)
				e.underruns++
			}
			c.underrun = true
		} else {
			c.underrun = false
		}

		a, b := c.queue.PopSpans(sz)

		if needsResample {
			e.srcBuffer = append(append(e.srcBuffer[:0], a...), b...)
			e.resample(e.resampled, e.srcBuffer)
			accumulate(e.accum, e.resampled)
			continue
		}

		accumulate(e.accum, a)
		accumulate(e.accum[len(a):], b)
	}

	if e.env.Prefs.Audio.EnableSound.Get().(bool) {
		e.updateVolume()
		e.resampler.PushSamples(e.accum, BlockSize)
	}

	e.updateCapture()
}

// accumulate adds samples into the accumulator
func accumulate(accum []int32, samples []int16) {
	for i, s := range samples {
		accum[i] += int32(s)
	}
}

// resample converts the SRC channel's samples to the mix frequency using
// linear interpolation. the output is always a full block. if the input runs
// out before the block is full then the remainder of the block is silent
//
// the fractional position is not carried from one block to the next
func (e *Engine) resample(out []int16, in []int16) {
	clear(out)

	if len(in) == 0 {
		return
	}

	// reading past the end of the input returns the final sample
	read := func(i int) int64 {
		if i < len(in) {
			return int64(in[i])
		}
		return int64(in[len(in)-1])
	}

	ratio := uint32(math.Round(65536.0 * float64(e.srcFrequency) / float64(e.mixFrequency)))

	var frac uint32
	readIndex := 0

	for outIndex := 0; readIndex < len(in) && outIndex < len(out); outIndex += 2 {
		l1 := read(readIndex)
		r1 := read(readIndex + 1)
		l2 := read(readIndex + 2)
		r2 := read(readIndex + 3)
		f := int64(uint16(frac))
		out[outIndex] = format.ClampS16(int32(((l1 << 16) + (l2-l1)*f) >> 16))
		out[outIndex+1] = format.ClampS16(int32(((r1 << 16) + (r2-r1)*f) >> 16))
		frac += ratio
		readIndex += 2 * int(uint16(frac>>16))
		frac &= 0xffff
	}
}
