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

package resampler_test

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/audio/resampler"
	"github.com/jetsetilly/hleaudio/test"
)

// interleaved stereo frames where the left sample is v and the right sample
// is -v
func frames(values ...int32) []int32 {
	s := make([]int32, 0, len(values)*2)
	for _, v := range values {
		s = append(s, v, -v)
	}
	return s
}

func TestCapacity(t *testing.T) {
	r := resampler.NewResampler(0)
	test.ExpectEquality(t, r.Capacity(), resampler.DefaultCapacity)

	r = resampler.NewResampler(100)
	test.ExpectEquality(t, r.Capacity(), 128)
}

func TestPassThrough(t *testing.T) {
	r := resampler.NewResampler(0)
	test.ExpectEquality(t, r.PushSamples(frames(1, 2, 3, 4), 4), 4)
	test.ExpectEquality(t, r.Buffered(), 4)

	out := make([]int16, 8)
	test.ExpectEquality(t, r.Mix(out, 4, resampler.HardwareRate), 4)
	for i := range 4 {
		test.ExpectEquality(t, out[i*2], int16(i+1))
		test.ExpectEquality(t, out[i*2+1], int16(-(i + 1)))
	}
	test.ExpectEquality(t, r.Buffered(), 0)
	test.ExpectEquality(t, r.Stats().Underruns, int64(0))
}

func TestClampAndVolume(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(40000, 100), 2)

	r.SetVolume(format.FullVolume / 2)
	r.PushSamples(frames(100), 1)

	out := make([]int16, 6)
	r.Mix(out, 3, 0)
	test.ExpectEquality(t, out[0], int16(32767))
	test.ExpectEquality(t, out[1], int16(-32768))
	test.ExpectEquality(t, out[2], int16(100))
	test.ExpectEquality(t, out[4], int16(50))
	test.ExpectEquality(t, out[5], int16(-50))
}

func TestUnderrunRepeatsLastFrame(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(10, 20), 2)

	out := make([]int16, 10)
	test.ExpectEquality(t, r.Mix(out, 5, resampler.HardwareRate), 5)
	test.ExpectEquality(t, out[0], int16(10))
	test.ExpectEquality(t, out[2], int16(20))
	for i := 2; i < 5; i++ {
		test.ExpectEquality(t, out[i*2], int16(20), i)
		test.ExpectEquality(t, out[i*2+1], int16(-20), i)
	}

	s := r.Stats()
	test.ExpectEquality(t, s.Underruns, int64(1))
	test.ExpectEquality(t, s.StarvedFrames, int64(3))
	test.ExpectEquality(t, s.PulledFrames, int64(2))

	// completely empty ring continues to repeat
	r.Mix(out, 5, resampler.HardwareRate)
	test.ExpectEquality(t, out[8], int16(20))
	test.ExpectEquality(t, r.Stats().Underruns, int64(2))
}

// a consumer that starves part way between two input frames keeps its
// position. no input frame is output twice and the count of pulled frames
// follows the ratio of the rates
func TestStarvedPosition(t *testing.T) {
	const hostRate = 48000
	const block = 1000

	r := resampler.NewResampler(0)
	in := make([]int32, 0, block*2)
	for range block {
		in = append(in, 100, -100)
	}

	out := make([]int16, 200)
	for range 2 {
		test.DemandEquality(t, r.PushSamples(in, block), block)
		for range 20 {
			r.Mix(out, 100, hostRate)
		}
	}

	s := r.Stats()
	test.ExpectSuccess(t, s.Underruns > 0)
	test.ExpectApproximate(t, s.PulledFrames, int64(2*block*hostRate/resampler.HardwareRate), 4)
}

func TestOverrun(t *testing.T) {
	r := resampler.NewResampler(4)
	test.ExpectEquality(t, r.PushSamples(frames(1, 2, 3), 3), 3)
	test.ExpectEquality(t, r.PushSamples(frames(4, 5, 6), 3), 1)

	s := r.Stats()
	test.ExpectEquality(t, s.Overruns, int64(1))
	test.ExpectEquality(t, s.DroppedFrames, int64(2))
	test.ExpectEquality(t, s.PushedFrames, int64(4))

	test.ExpectEquality(t, r.PushSamples(frames(7), 1), 0)
	test.ExpectEquality(t, r.Stats().DroppedFrames, int64(3))
}

func TestUpsample(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(0, 100, 200, 300), 4)

	// host rate is twice the input rate. every other output frame is
	// interpolated
	out := make([]int16, 10)
	r.Mix(out, 5, resampler.HardwareRate*2)
	test.ExpectEquality(t, out[0], int16(0))
	test.ExpectEquality(t, out[2], int16(50))
	test.ExpectEquality(t, out[4], int16(100))
	test.ExpectEquality(t, out[6], int16(150))
	test.ExpectEquality(t, out[8], int16(200))
	test.ExpectEquality(t, out[9], int16(-200))
	test.ExpectEquality(t, r.Stats().Underruns, int64(0))
}

func TestDownsample(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(0, 1, 2, 3, 4, 5, 6, 7), 8)

	out := make([]int16, 8)
	r.Mix(out, 4, resampler.HardwareRate/2)
	test.ExpectEquality(t, out[0], int16(0))
	test.ExpectEquality(t, out[2], int16(2))
	test.ExpectEquality(t, out[4], int16(4))
	test.ExpectEquality(t, out[6], int16(6))
	test.ExpectEquality(t, r.Buffered(), 0)
}

func TestClear(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(1, 2, 3), 3)
	r.Clear()
	test.ExpectEquality(t, r.Buffered(), 0)
}

func TestSnapshot(t *testing.T) {
	r := resampler.NewResampler(0)
	r.SetInputRate(48000)
	r.SetVolume(1000)
	r.PushSamples(frames(5), 1)
	out := make([]int16, 4)
	r.Mix(out, 2, resampler.HardwareRate)

	s := r.Snapshot()
	test.ExpectEquality(t, s.InputRate, 48000)
	test.ExpectEquality(t, s.Volume, 1000)
	test.ExpectEquality(t, s.Stats.Underruns, int64(1))

	q := resampler.NewResampler(0)
	q.PushSamples(frames(1, 2), 2)
	q.Plumb(s)
	test.ExpectEquality(t, q.Buffered(), 0)
	test.ExpectEquality(t, q.Snapshot(), s)
}

func TestDebugString(t *testing.T) {
	r := resampler.NewResampler(0)
	r.PushSamples(frames(1), 1)
	s := r.DebugString()
	test.ExpectEquality(t, strings.Contains(s, "buffered: 1/"), true)
	test.ExpectEquality(t, strings.Contains(s, "underruns: 0"), true)
}

// a producer and a consumer on different goroutines. the left channel is a
// rising ramp starting at zero, the same value as the frame repeated by a
// starved consumer, so the output must never decrease however the ring is
// drained
func TestConcurrentRamp(t *testing.T) {
	r := resampler.NewResampler(1024)

	const total = 20000
	const block = 64

	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer done.Store(true)
		v := int32(0)
		for v < total {
			f := make([]int32, 0, block*2)
			for range block {
				f = append(f, v, v)
				v++
			}
			for r.Buffered()+block > r.Capacity() {
				// wait for consumer
			}
			r.PushSamples(f, block)
		}
	}()

	out := make([]int16, 512)
	last := int16(0)
	for !done.Load() || r.Buffered() > 0 {
		r.Mix(out, 256, resampler.HardwareRate)
		for i := 0; i < 256; i++ {
			if out[i*2] < last {
				t.Fatalf("ramp decreased from %d to %d", last, out[i*2])
			}
			last = out[i*2]
		}
	}

	wg.Wait()
}
