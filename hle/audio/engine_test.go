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

package audio_test

import (
	"path/filepath"
	"testing"

	"github.com/jetsetilly/hleaudio/environment"
	"github.com/jetsetilly/hleaudio/hle/audio"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/coretiming"
	"github.com/jetsetilly/hleaudio/hle/kernel"
	"github.com/jetsetilly/hleaudio/hle/memory"
	"github.com/jetsetilly/hleaudio/hle/preferences"
	"github.com/jetsetilly/hleaudio/prefs"
	"github.com/jetsetilly/hleaudio/test"
)

type hostCounter struct {
	updates int
}

func (h *hostCounter) UpdateSound() {
	h.updates++
}

type harness struct {
	env    *environment.Environment
	timing *coretiming.Timing
	mem    *memory.Memory
	kern   *kernel.Kernel
	host   *hostCounter
	eng    *audio.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), prefs.DefaultPrefsFile))
	test.DemandSuccess(t, err)

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	env.Normalise()

	h := &harness{
		env:    env,
		timing: coretiming.NewTiming(env),
		mem:    memory.NewMemory(0x100000),
		kern:   kernel.NewKernel(env),
		host:   &hostCounter{},
	}

	h.eng, err = audio.NewEngine(env, h.timing, h.mem, h.kern, h.host)
	test.DemandSuccess(t, err)

	return h
}

// samples copies samples into emulated memory and returns the address
func (h *harness) samples(t *testing.T, data []int16) uint32 {
	t.Helper()
	addr, err := h.mem.Alloc(uint32(len(data) * 2))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, h.mem.WriteSamples(addr, data))
	return addr
}

// pull frames from the engine at the hardware rate
func (h *harness) pull(frames int) []int16 {
	out := make([]int16, frames*2)
	h.eng.MixToHost(out, frames, audio.HardwareRate)
	return out
}

// a block of stereo frames with different values on each side
func ramp(frames int, step int16) []int16 {
	s := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		s[i*2] = int16(i) * step
		s[i*2+1] = -int16(i) * step
	}
	return s
}

func TestReserve(t *testing.T) {
	h := newHarness(t)

	ch, err := h.eng.Reserve(-1, 256, audio.Stereo)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ch, audio.GameChannels-1)

	_, err = h.eng.Reserve(ch, 256, audio.Stereo)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultChannelReserved)

	for _, sz := range []int{0, 63, 100, audio.SampleMax + audio.SampleAlign} {
		_, err = h.eng.Reserve(0, sz, audio.Stereo)
		test.ExpectEquality(t, audio.ResultCode(err), audio.ResultInvalidSize, sz)
	}

	_, err = h.eng.Reserve(audio.ChannelCount, 256, audio.Stereo)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultInvalidChannel)

	_, err = h.eng.Reserve(0, 256, audio.Format(3))
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultInvalidFormat)

	test.ExpectEquality(t, audio.ResultCode(h.eng.Release(0)), audio.ResultChannelNotReserved)
	test.ExpectSuccess(t, h.eng.Release(ch))

	// the SRC channel is never chosen automatically
	for i := 0; i < audio.GameChannels; i++ {
		_, err = h.eng.Reserve(-1, 64, audio.Mono)
		test.ExpectSuccess(t, err)
	}
	_, err = h.eng.Reserve(-1, 64, audio.Mono)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultNoChannels)

	c, err := h.eng.Channel(audio.SRCChannel)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.Reserved, false)
}

func TestOutputValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Output(0, 0, false)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultChannelNotReserved)

	_, err = h.eng.Reserve(0, 64, audio.Stereo)
	test.DemandSuccess(t, err)

	_, err = h.eng.Output(0, memory.Origin+1, false)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultInvalidAddress)

	test.ExpectEquality(t, audio.ResultCode(h.eng.SetVolume(0, 0x100000, 0)), audio.ResultIllegalRange)
	test.ExpectEquality(t, audio.ResultCode(h.eng.SetVolume(0, 0, -1)), audio.ResultIllegalRange)
	test.ExpectSuccess(t, h.eng.SetVolume(0, 0xfffff, 0))

	test.ExpectEquality(t, audio.ResultCode(h.eng.SetSampleCount(0, 65)), audio.ResultInvalidSize)
	test.ExpectSuccess(t, h.eng.SetSampleCount(0, 128))

	test.ExpectEquality(t, audio.ResultCode(h.eng.SetOutputFrequency(0)), audio.ResultIllegalRange)
	test.ExpectEquality(t, audio.ResultCode(h.eng.SetSRCFrequency(-1)), audio.ResultIllegalRange)

	// a sample range outside of memory is skipped but the output still
	// reports the nominal count
	n, err := h.eng.Output(0, 0x10000000, false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 128)
	n, err = h.eng.RemainingSamples(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 0)
}

func TestDrainOnlyOutput(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(0, 128, audio.Stereo)
	test.DemandSuccess(t, err)
	_, err = h.eng.Reserve(audio.SRCChannel, 128, audio.Stereo)
	test.DemandSuccess(t, err)

	n, err := h.eng.Output(0, 0, false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 0)

	n, err = h.eng.Output(audio.SRCChannel, 0, false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 128)
}

func TestPassthrough(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(0, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)

	in := ramp(audio.BlockSize, 100)
	n, err := h.eng.Output(0, h.samples(t, in), false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, audio.BlockSize)

	n, _ = h.eng.RemainingSamples(0)
	test.ExpectEquality(t, n, audio.BlockSize)

	// queue is not empty so a second non-blocking output fails
	_, err = h.eng.Output(0, h.samples(t, in), false)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultChannelBusy)

	h.eng.MixTick()

	n, _ = h.eng.RemainingSamples(0)
	test.ExpectEquality(t, n, 0)

	out := h.pull(audio.BlockSize)
	for i := range in {
		if !test.ExpectEquality(t, out[i], in[i], i) {
			break
		}
	}
}

// the unscaled path for stereo samples at full volume must produce the same
// result as the scaled path
func TestUnscaledEquivalence(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(0, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)

	in := ramp(audio.BlockSize, 511)
	_, err = h.eng.Output(0, h.samples(t, in), false)
	test.DemandSuccess(t, err)
	h.eng.MixTick()
	out := h.pull(audio.BlockSize)

	exp := make([]int16, len(in))
	format.AdjustVolumeBlockStandard(exp, in, format.FullVolume<<1, format.FullVolume<<1)

	for i := range exp {
		if !test.ExpectEquality(t, out[i], exp[i], i) {
			break
		}
	}
}

func TestVolume(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(0, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)

	in := ramp(audio.BlockSize, 300)
	_, err = h.eng.OutputPanned(0, format.FullVolume/2, format.FullVolume*2, h.samples(t, in), false)
	test.DemandSuccess(t, err)
	h.eng.MixTick()
	out := h.pull(audio.BlockSize)

	exp := make([]int16, len(in))
	format.AdjustVolumeBlockStandard(exp, in, format.FullVolume, format.FullVolume<<2)

	for i := range exp {
		if !test.ExpectEquality(t, out[i], exp[i], i) {
			break
		}
	}
}

func TestMono(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(0, audio.BlockSize, audio.Mono)
	test.DemandSuccess(t, err)

	in := make([]int16, audio.BlockSize)
	for i := range in {
		in[i] = int16(i*200 - 6000)
	}

	_, err = h.eng.OutputPanned(0, format.FullVolume, 0, h.samples(t, in), false)
	test.DemandSuccess(t, err)
	h.eng.MixTick()
	out := h.pull(audio.BlockSize)

	for i := range in {
		test.ExpectEquality(t, out[i*2], in[i], "left", i)
		test.ExpectEquality(t, out[i*2+1], int16(0), "right", i)
	}
}

// K channels outputting the same block mix to K times the block, clamped to
// 16bits
func TestSuperposition(t *testing.T) {
	// four times any input value still fits in 16bits so the sum is never
	// clamped
	in := make([]int16, audio.BlockSize*2)
	for i := range in {
		in[i] = int16((i*733)%16000 - 8000)
	}

	for _, k := range []int{0, 1, 2, 4} {
		h := newHarness(t)
		addr := h.samples(t, in)

		for ch := 0; ch < k; ch++ {
			_, err := h.eng.Reserve(ch, audio.BlockSize, audio.Stereo)
			test.DemandSuccess(t, err)
			_, err = h.eng.Output(ch, addr, false)
			test.DemandSuccess(t, err)
		}

		h.eng.MixTick()
		out := h.pull(audio.BlockSize)

		for i := range in {
			exp := int32(k) * int32(in[i])
			if !test.ExpectEquality(t, int32(out[i]), exp, k, i) {
				break
			}
		}
	}
}

// 65536*24000/44100 has a fractional part above one half. the step through
// the input is rounded to the nearest 16.16 value
func TestSRCRatioRounding(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(audio.SRCChannel, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, h.eng.SetSRCFrequency(24000))

	in := ramp(audio.BlockSize, 500)
	_, err = h.eng.Output(audio.SRCChannel, h.samples(t, in), false)
	test.DemandSuccess(t, err)
	h.eng.MixTick()

	// (128*24000/44100) rounded down to an even number of samples
	n, _ := h.eng.RemainingSamples(audio.SRCChannel)
	test.ExpectEquality(t, n, audio.BlockSize-34)

	out := h.pull(audio.BlockSize)

	const ratio = 35666
	for j := 0; j < 60; j++ {
		pos := j * ratio
		idx := pos >> 16
		f := int64(pos & 0xffff)
		l1 := int64(in[idx*2])
		l2 := int64(in[idx*2+2])
		exp := int16(((l1 << 16) + (l2-l1)*f) >> 16)
		if !test.ExpectEquality(t, out[j*2], exp, j) {
			break
		}
	}
}

func TestSRCResample(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(audio.SRCChannel, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, h.eng.SetSRCFrequency(22050))

	in := make([]int16, audio.BlockSize*2)
	for i := 0; i < audio.BlockSize; i++ {
		v := int16(100)
		if i%2 == 1 {
			v = -100
		}
		in[i*2] = v
		in[i*2+1] = v
	}

	_, err = h.eng.Output(audio.SRCChannel, h.samples(t, in), false)
	test.DemandSuccess(t, err)
	h.eng.MixTick()

	// half the input is consumed to produce a full block
	n, _ := h.eng.RemainingSamples(audio.SRCChannel)
	test.ExpectEquality(t, n, audio.BlockSize/2)
	test.ExpectEquality(t, h.eng.Stats().Underruns, int64(0))

	out := h.pull(audio.BlockSize)

	for i := 0; i < audio.BlockSize; i++ {
		l := out[i*2]
		r := out[i*2+1]
		test.ExpectEquality(t, l, r, i)

		if i%2 == 0 {
			exp := int16(100)
			if (i/2)%2 == 1 {
				exp = -100
			}
			test.ExpectEquality(t, l, exp, i)
		} else if i < audio.BlockSize-1 {
			// interpolated halfway between 100 and -100
			test.ExpectEquality(t, l > -100 && l < 100, true, i)
			test.ExpectEquality(t, l, int16(0), i)
		}
	}
}

func TestUnderrun(t *testing.T) {
	h := newHarness(t)

	_, err := h.eng.Reserve(audio.SRCChannel, audio.BlockSize, audio.Stereo)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, h.eng.SetSRCFrequency(48000))

	in := ramp(audio.BlockSize, 10)

	// each tick needs more frames than a single output supplies
	for range 3 {
		_, err = h.eng.Output(audio.SRCChannel, h.samples(t, in), false)
		test.DemandSuccess(t, err)
		h.eng.MixTick()

		n, _ := h.eng.RemainingSamples(audio.SRCChannel)
		test.ExpectEquality(t, n, 0)
	}

	// one underrun per burst
	test.ExpectEquality(t, h.eng.Stats().Ticks, int64(3))
	test.ExpectEquality(t, h.eng.Stats().Underruns, int64(1))
}

func TestEnableSound(t *testing.T) {
	h := newHarness(t)
	test.DemandSuccess(t, h.env.Prefs.Audio.EnableSound.Set(false))

	h.eng.MixTick()
	test.ExpectEquality(t, h.eng.Stats().Resampler.PushedFrames, int64(0))

	test.DemandSuccess(t, h.env.Prefs.Audio.EnableSound.Set(true))
	h.eng.MixTick()
	test.ExpectEquality(t, h.eng.Stats().Resampler.PushedFrames, int64(audio.BlockSize))
}

func TestExternalAudio(t *testing.T) {
	h := newHarness(t)

	in := make([]int32, audio.BlockSize*2)
	for i := range in {
		in[i] = 40000
	}
	h.eng.PushExternalAudio(in, audio.BlockSize)
	out := h.pull(audio.BlockSize)
	test.ExpectEquality(t, out[0], int16(32767))

	h.eng.PushExternalAudio(in, audio.BlockSize)
	h.eng.PushExternalAudio(nil, 0)
	test.ExpectEquality(t, h.eng.Stats().Resampler.Underruns, int64(0))
	h.pull(audio.BlockSize)
	test.ExpectEquality(t, h.eng.Stats().Resampler.Underruns, int64(1))
}

func TestScheduling(t *testing.T) {
	h := newHarness(t)

	interval := h.eng.TickInterval()
	test.ExpectEquality(t, interval, h.timing.UsToCycles(1000000)*audio.BlockSize/audio.HardwareRate)

	h.timing.Advance(interval * 10)
	test.ExpectEquality(t, h.eng.Stats().Ticks, int64(10))

	// advancing in uneven steps does not cause drift
	for range 100 {
		h.timing.Advance(interval/3 + 7)
	}
	exp := (interval*10 + (interval/3+7)*100) / interval
	test.ExpectEquality(t, h.eng.Stats().Ticks, exp)

	test.ExpectEquality(t, int64(h.host.updates), h.timing.Ticks()/h.eng.HostInterval())

	h.timing.SetClockFrequency(333 * 1000 * 1000)
	test.ExpectEquality(t, h.eng.TickInterval(), h.timing.UsToCycles(1000000)*audio.BlockSize/audio.HardwareRate)

	h.eng.Shutdown()
	ticks := h.eng.Stats().Ticks
	h.timing.Advance(interval * 10)
	test.ExpectEquality(t, h.eng.Stats().Ticks, ticks)
}
