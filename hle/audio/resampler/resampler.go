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

package resampler

import (
	"fmt"
	"math/bits"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/hleaudio/hle/audio/format"
)

// HardwareRate is the nominal rate at which samples are pushed.
const HardwareRate = 44100

// DefaultCapacity is the default size of the ring in stereo frames.
const DefaultCapacity = 16384

// DefaultTargetFrames is the number of buffered frames the resampler aims
// for. When the fill level rises above twice this amount the consumer speeds
// up slightly to bring latency back down.
const DefaultTargetFrames = 2048

// Stats are the running statistics of the resampler.
type Stats struct {
	// number of Mix() calls that could not be fully satisfied and the total
	// number of frames that had to be repeated as a result
	Underruns     int64
	StarvedFrames int64

	// number of PushSamples() calls that did not fit and the total number of
	// frames that were dropped as a result
	Overruns      int64
	DroppedFrames int64

	PushedFrames int64
	PulledFrames int64
}

// State is the part of the Resampler that is preserved by the save state.
// The contents of the ring are not preserved.
type State struct {
	InputRate int
	Volume    int
	LastLeft  int16
	LastRight int16
	Stats     Stats
}

// Resampler is the output ring buffer and host rate mixer.
type Resampler struct {
	buf  []int16
	mask uint32

	// free running sample indices. the number of samples in the ring is
	// always write-read
	write atomic.Uint32
	read  atomic.Uint32

	targetFrames atomic.Uint32
	inputRate    atomic.Int32
	volume       atomic.Int32

	// the most recent frame output by Mix(), packed left in the low half.
	// written by the consumer except when restoring a state
	last atomic.Uint32

	// set by the producer when the ring has been emptied. the consumer
	// resets its position between input frames when it sees it
	flushed atomic.Bool

	// consumer side only
	frac uint32

	// producer side only
	staging []int16

	underruns     atomic.Int64
	starvedFrames atomic.Int64
	overruns      atomic.Int64
	droppedFrames atomic.Int64
	pushedFrames  atomic.Int64
	pulledFrames  atomic.Int64
}

// NewResampler is the preferred method of initialisation for the Resampler
// type. Capacity is in frames and is rounded up to a power of two. A capacity
// of zero means DefaultCapacity.
func NewResampler(capacity int) *Resampler {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	// two samples per frame
	sz := uint32(1) << bits.Len32(uint32(capacity*2-1))

	r := &Resampler{
		buf:  make([]int16, sz),
		mask: sz - 1,
	}
	r.targetFrames.Store(min(DefaultTargetFrames, sz/8))
	r.inputRate.Store(HardwareRate)
	r.volume.Store(format.FullVolume)
	return r
}

// Capacity returns the size of the ring in frames.
func (r *Resampler) Capacity() int {
	return len(r.buf) / 2
}

// Buffered returns the number of frames in the ring.
func (r *Resampler) Buffered() int {
	return int(r.write.Load()-r.read.Load()) / 2
}

// SetVolume sets the master volume applied to pushed samples. A value of
// format.FullVolume leaves samples unchanged.
func (r *Resampler) SetVolume(volume int) {
	r.volume.Store(int32(max(0, min(volume, format.MaxVolume))))
}

// SetInputRate changes the rate at which samples are assumed to be pushed.
func (r *Resampler) SetInputRate(rate int) {
	if rate <= 0 {
		rate = HardwareRate
	}
	r.inputRate.Store(int32(rate))
}

// SetTargetFrames sets the fill level the consumer aims for. It is clamped to
// a quarter of the capacity.
func (r *Resampler) SetTargetFrames(frames int) {
	r.targetFrames.Store(uint32(max(1, min(frames, len(r.buf)/8))))
}

// PushSamples adds frames to the ring. The samples are interleaved stereo
// and are clamped to 16bits after the master volume has been applied.
//
// Frames that do not fit are dropped and counted as an overrun. PushSamples()
// never blocks. Returns the number of frames added.
func (r *Resampler) PushSamples(samples []int32, frames int) int {
	frames = min(frames, len(samples)/2)
	if frames <= 0 {
		return 0
	}

	w := r.write.Load()
	rd := r.read.Load()
	free := (uint32(len(r.buf)) - (w - rd)) / 2

	n := frames
	if uint32(n) > free {
		r.overruns.Add(1)
		r.droppedFrames.Add(int64(uint32(n) - free))
		n = int(free)
	}
	if n == 0 {
		return 0
	}

	if cap(r.staging) < n*2 {
		r.staging = make([]int16, n*2)
	}
	stg := r.staging[:n*2]
	format.ScaleBlock(stg, samples[:n*2], int(r.volume.Load()))

	start := w & r.mask
	c := copy(r.buf[start:], stg)
	copy(r.buf, stg[c:])

	r.write.Store(w + uint32(n*2))
	r.pushedFrames.Add(int64(n))

	return n
}

// Clear empties the ring. Should be called from the producer side.
func (r *Resampler) Clear() {
	r.read.Store(r.write.Load())
	r.flushed.Store(true)
}

func packFrame(l, rt int16) uint32 {
	return uint32(uint16(l)) | uint32(uint16(rt))<<16
}

func unpackFrame(v uint32) (int16, int16) {
	return int16(uint16(v)), int16(uint16(v >> 16))
}

// Mix writes frames of interleaved stereo samples to out, resampling from the
// input rate to the host rate. A hostRate of zero or less is taken to mean
// the hardware rate.
//
// Mix() always writes the requested number of frames (or as many as will fit
// in out). If the ring does not contain enough data then the last frame is
// repeated. Returns the number of frames written.
//
// Mix() is safe to call from the host audio goroutine concurrently with the
// producer side functions.
func (r *Resampler) Mix(out []int16, frames int, hostRate int) int {
	frames = min(frames, len(out)/2)
	if frames <= 0 {
		return 0
	}
	if hostRate <= 0 {
		hostRate = HardwareRate
	}

	if r.flushed.Swap(false) {
		r.frac = 0
	}

	rd := r.read.Load()
	avail := (r.write.Load() - rd) / 2

	ratio := uint32((uint64(r.inputRate.Load())<<16 + uint64(hostRate)/2) / uint64(hostRate))

	// consume a little faster if latency is building up
	if avail > r.targetFrames.Load()*2 {
		ratio += ratio >> 7
	}

	frac := r.frac
	l, rt := unpackFrame(r.last.Load())

	n := 0
	for ; n < frames; n++ {
		idx := frac >> 16
		f := frac & 0xffff

		if idx >= avail || (f != 0 && idx+1 >= avail) {
			break
		}

		p := rd + idx*2
		l0 := int32(r.buf[p&r.mask])
		r0 := int32(r.buf[(p+1)&r.mask])
		if f == 0 {
			l = int16(l0)
			rt = int16(r0)
		} else {
			l1 := int32(r.buf[(p+2)&r.mask])
			r1 := int32(r.buf[(p+3)&r.mask])
			l = int16(l0 + int32((int64(l1-l0)*int64(f))>>16))
			rt = int16(r0 + int32((int64(r1-r0)*int64(f))>>16))
		}

		out[n*2] = l
		out[n*2+1] = rt
		frac += ratio
	}

	// the compare fails if the producer cleared the ring during the mix, in
	// which case the read index it stored is kept
	consumed := min(frac>>16, avail)
	r.read.CompareAndSwap(rd, rd+consumed*2)
	r.frac = frac & 0xffff

	r.last.Store(packFrame(l, rt))
	r.pulledFrames.Add(int64(n))

	if n < frames {
		r.underruns.Add(1)
		r.starvedFrames.Add(int64(frames - n))
		for ; n < frames; n++ {
			out[n*2] = l
			out[n*2+1] = rt
		}
	}

	return frames
}

// Stats returns a copy of the current statistics.
func (r *Resampler) Stats() Stats {
	return Stats{
		Underruns:     r.underruns.Load(),
		StarvedFrames: r.starvedFrames.Load(),
		Overruns:      r.overruns.Load(),
		DroppedFrames: r.droppedFrames.Load(),
		PushedFrames:  r.pushedFrames.Load(),
		PulledFrames:  r.pulledFrames.Load(),
	}
}

// ResetStats sets all statistics to zero.
func (r *Resampler) ResetStats() {
	r.underruns.Store(0)
	r.starvedFrames.Store(0)
	r.overruns.Store(0)
	r.droppedFrames.Store(0)
	r.pushedFrames.Store(0)
	r.pulledFrames.Store(0)
}

// Snapshot returns the preserved state of the resampler.
func (r *Resampler) Snapshot() State {
	l, rt := unpackFrame(r.last.Load())
	return State{
		InputRate: int(r.inputRate.Load()),
		Volume:    int(r.volume.Load()),
		LastLeft:  l,
		LastRight: rt,
		Stats:     r.Stats(),
	}
}

// Plumb restores a previously snapshotted state. The ring is emptied.
func (r *Resampler) Plumb(s State) {
	r.Clear()
	r.SetInputRate(s.InputRate)
	r.SetVolume(s.Volume)
	r.last.Store(packFrame(s.LastLeft, s.LastRight))
	r.underruns.Store(s.Stats.Underruns)
	r.starvedFrames.Store(s.Stats.StarvedFrames)
	r.overruns.Store(s.Stats.Overruns)
	r.droppedFrames.Store(s.Stats.DroppedFrames)
	r.pushedFrames.Store(s.Stats.PushedFrames)
	r.pulledFrames.Store(s.Stats.PulledFrames)
}

// DebugString returns a short multiline summary of the resampler suitable
// for an overlay.
func (r *Resampler) DebugString() string {
	s := r.Stats()
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("buffered: %d/%d frames (target %d)\n", r.Buffered(), r.Capacity(), r.targetFrames.Load()))
	b.WriteString(fmt.Sprintf("input rate: %d\n", r.inputRate.Load()))
	b.WriteString(fmt.Sprintf("underruns: %d (%d frames)\n", s.Underruns, s.StarvedFrames))
	b.WriteString(fmt.Sprintf("overruns: %d (%d frames)\n", s.Overruns, s.DroppedFrames))
	b.WriteString(fmt.Sprintf("pushed/pulled: %d/%d", s.PushedFrames, s.PulledFrames))
	return b.String()
}
