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
	"fmt"
	"strings"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/environment"
	"github.com/jetsetilly/hleaudio/hle/audio/capture"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/audio/resampler"
	"github.com/jetsetilly/hleaudio/hle/coretiming"
	"github.com/jetsetilly/hleaudio/logger"
)

// HardwareRate is the sample rate of the audio hardware.
const HardwareRate = 44100

// BlockSize is the number of frames mixed on every tick.
const BlockSize = 64

// names of the events registered with the virtual clock
const (
	tickEventName = "AudioUpdate"
	hostEventName = "AudioUpdateHost"
)

// Stats are the running statistics of the Engine.
type Stats struct {
	Ticks     int64
	Underruns int64
	Resampler resampler.Stats
}

// Engine is the audio subsystem of an emulation session.
type Engine struct {
	env    *environment.Environment
	timing Timing
	mem    Memory
	kernel Kernel
	host   Host

	channels [ChannelCount]*Channel

	mixFrequency int
	srcFrequency int

	tickEvent    coretiming.EventType
	hostEvent    coretiming.EventType
	tickInterval int64
	hostInterval int64

	// the wide accumulator for the current tick and the clamped version of it
	accum   []int32
	clamped []int16

	// buffers used when resampling the SRC channel
	srcBuffer []int16
	resampled []int16

	resampler *resampler.Resampler

	capture *capture.Writer

	// capture was started because of the audio.dump preference
	autoCapture bool

	// the next tick should restart an automatic capture
	resetCapture bool

	ticks     int64
	underruns int64
}

// NewEngine is the preferred method of initialisation for the Engine type.
// The host argument can be nil.
//
// The mix tick and host events are registered with the virtual clock and
// scheduled immediately.
func NewEngine(env *environment.Environment, timing Timing, mem Memory, krn Kernel, host Host) (*Engine, error) {
	if env == nil || timing == nil || mem == nil || krn == nil {
		return nil, fmt.Errorf("audio: engine requires an environment, timing, memory and kernel")
	}

	e := &Engine{
		env:          env,
		timing:       timing,
		mem:          mem,
		kernel:       krn,
		host:         host,
		mixFrequency: HardwareRate,
		accum:        make([]int32, BlockSize*2),
		clamped:      make([]int16, BlockSize*2),
		resampled:    make([]int16, BlockSize*2),
		resampler:    resampler.NewResampler(resampler.DefaultCapacity),
		capture:      capture.NewWriter(env),
	}

	for i := range e.channels {
		e.channels[i] = newChannel(i)
	}

	e.updateIntervals()

	e.tickEvent = e.timing.RegisterEvent(tickEventName, e.tickCallback)
	e.hostEvent = e.timing.RegisterEvent(hostEventName, e.hostCallback)

	if err := e.timing.ScheduleEvent(e.tickInterval, e.tickEvent, 0); err != nil {
		return nil, err
	}
	if err := e.timing.ScheduleEvent(e.hostInterval, e.hostEvent, 0); err != nil {
		return nil, err
	}

	e.timing.RegisterMHzChangeCallback(e.updateIntervals)

	e.resampler.SetInputRate(e.mixFrequency)
	e.updateVolume()

	return e, nil
}

// updateIntervals derives the event intervals from the clock frequency
func (e *Engine) updateIntervals() {
	e.tickInterval = e.timing.UsToCycles(1000000) * BlockSize / HardwareRate
	hostBlock := int64(e.env.Prefs.Audio.HostBlockSize.Get().(int))
	e.hostInterval = e.timing.UsToCycles(1000000) * hostBlock / HardwareRate
}

// updateVolume copies the master volume preference to the output resampler
func (e *Engine) updateVolume() {
	e.resampler.SetVolume(e.env.Prefs.Audio.Volume.Get().(int) * format.FullVolume / 100)
}

// TickInterval returns the number of cycles between mix ticks.
func (e *Engine) TickInterval() int64 {
	return e.tickInterval
}

// HostInterval returns the number of cycles between host pokes.
func (e *Engine) HostInterval() int64 {
	return e.hostInterval
}

func (e *Engine) tickCallback(_ uint64, cyclesLate int64) {
	// schedule the next tick before mixing, in case the mixing consumes
	// cycles
	if err := e.timing.ScheduleEvent(e.tickInterval-cyclesLate, e.tickEvent, 0); err != nil {
		logger.Log(e.env, "audio", err)
	}
	e.MixTick()
}

func (e *Engine) hostCallback(_ uint64, cyclesLate int64) {
	if err := e.timing.ScheduleEvent(e.hostInterval-cyclesLate, e.hostEvent, 0); err != nil {
		logger.Log(e.env, "audio", err)
	}
	if e.host != nil {
		e.host.UpdateSound()
	}
}

// SetHost changes the host that is poked periodically. Can be nil.
func (e *Engine) SetHost(host Host) {
	e.host = host
}

func (e *Engine) channel(ch int) (*Channel, error) {
	if ch < 0 || ch >= ChannelCount {
		return nil, errorf(e, InvalidChannel, ch)
	}
	return e.channels[ch], nil
}

// errorf creates a curated error and logs it
func errorf(e *Engine, pattern string, values ...any) error {
	err := curated.Errorf(pattern, values...)
	logger.Log(e.env, "audio", err)
	return err
}

// Channel returns a copy of the channel's current state.
func (e *Engine) Channel(ch int) (Channel, error) {
	c, err := e.channel(ch)
	if err != nil {
		return Channel{}, err
	}
	cp := *c
	cp.Waiting = append([]Waiter{}, c.Waiting...)
	cp.queue = nil
	return cp, nil
}

// Reserve a channel for output. The sample count is the number of frames in
// each output.
//
// A channel number of -1 reserves the first free game channel. Returns the
// channel number.
func (e *Engine) Reserve(ch int, sampleCount int, f Format) (int, error) {
	if ch == -1 {
		for i := GameChannels - 1; i >= 0; i-- {
			if !e.channels[i].Reserved {
				ch = i
				break
			}
		}
		if ch == -1 {
			return 0, errorf(e, NoChannels)
		}
	}

	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}
	if err := validateSampleCount(e, sampleCount); err != nil {
		return 0, err
	}
	if f != Stereo && f != Mono {
		return 0, errorf(e, InvalidFormat, int(f))
	}
	if c.Reserved {
		return 0, errorf(e, ChannelReserved, ch)
	}

	c.clear()
	c.Reserved = true
	c.SampleCount = sampleCount
	c.Format = f

	return ch, nil
}

func validateSampleCount(e *Engine, sampleCount int) error {
	if sampleCount < SampleMin || sampleCount > SampleMax || sampleCount%SampleAlign != 0 {
		return errorf(e, InvalidSize, sampleCount)
	}
	return nil
}

// Release a channel. Threads waiting on the channel are resumed with the
// channel not reserved result. The channel's queue is discarded.
func (e *Engine) Release(ch int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if !c.Reserved {
		return errorf(e, ChannelNotReserved, ch)
	}
	e.WakeWaitingThreads(ch, ResultChannelNotReserved, WakeAll)
	c.clear()
	return nil
}

// SetVolume changes the volume of a channel. Volumes must be in the range 0
// to format.MaxVolume.
func (e *Engine) SetVolume(ch int, left int, right int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if left < 0 || left > format.MaxVolume {
		return errorf(e, IllegalRange, "left volume", left)
	}
	if right < 0 || right > format.MaxVolume {
		return errorf(e, IllegalRange, "right volume", right)
	}
	c.LeftVolume = left
	c.RightVolume = right
	return nil
}

// SetSampleCount changes the number of frames in each output of a reserved
// channel.
func (e *Engine) SetSampleCount(ch int, sampleCount int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if !c.Reserved {
		return errorf(e, ChannelNotReserved, ch)
	}
	if err := validateSampleCount(e, sampleCount); err != nil {
		return err
	}
	c.SampleCount = sampleCount
	return nil
}

// SetFormat changes the format of a reserved channel.
func (e *Engine) SetFormat(ch int, f Format) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	if !c.Reserved {
		return errorf(e, ChannelNotReserved, ch)
	}
	if f != Stereo && f != Mono {
		return errorf(e, InvalidFormat, int(f))
	}
	c.Format = f
	return nil
}

// Output a block of samples to a reserved channel. The address must be zero
// or aligned to a sample. See Enqueue() for the meaning of the blocking
// argument and the return value.
func (e *Engine) Output(ch int, address uint32, blocking bool) (int, error) {
	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}
	if !c.Reserved {
		return 0, errorf(e, ChannelNotReserved, ch)
	}
	if address&1 == 1 {
		return 0, errorf(e, InvalidAddress, address)
	}
	c.SampleAddress = address
	return e.Enqueue(ch, blocking)
}

// OutputPanned is like Output() but also changes the channel volume.
func (e *Engine) OutputPanned(ch int, left int, right int, address uint32, blocking bool) (int, error) {
	if err := e.SetVolume(ch, left, right); err != nil {
		return 0, err
	}
	return e.Output(ch, address, blocking)
}

// RemainingSamples returns the number of frames queued on a reserved
// channel.
func (e *Engine) RemainingSamples(ch int) (int, error) {
	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}
	if !c.Reserved {
		return 0, errorf(e, ChannelNotReserved, ch)
	}
	return c.Queued(), nil
}

// MixFrequency returns the current output mix frequency.
func (e *Engine) MixFrequency() int {
	return e.mixFrequency
}

// SRCFrequency returns the current source frequency of the SRC channel. Zero
// means the SRC channel is not resampled.
func (e *Engine) SRCFrequency() int {
	return e.srcFrequency
}

// SetOutputFrequency changes the mix frequency.
func (e *Engine) SetOutputFrequency(freq int) error {
	if freq <= 0 {
		return errorf(e, IllegalRange, "output frequency", freq)
	}
	if freq != HardwareRate {
		logger.Logf(e.env, "audio", "switching audio frequency to %d", freq)
	}
	e.mixFrequency = freq
	e.resampler.SetInputRate(freq)
	return nil
}

// SetSRCFrequency changes the source frequency of the SRC channel. A
// frequency of zero means that the channel is not resampled.
func (e *Engine) SetSRCFrequency(freq int) error {
	if freq < 0 {
		return errorf(e, IllegalRange, "src frequency", freq)
	}
	e.srcFrequency = freq
	return nil
}

// MixToHost fills out with mixed frames at the host's sample rate. It is safe
// to call from the host audio goroutine. Returns the number of frames
// written.
func (e *Engine) MixToHost(out []int16, frames int, hostRate int) int {
	return e.resampler.Mix(out, frames, hostRate)
}

// PushExternalAudio sends frames directly to the output resampler, bypassing
// the channels. A nil slice clears the output resampler.
func (e *Engine) PushExternalAudio(samples []int32, frames int) {
	if samples == nil {
		e.resampler.Clear()
		return
	}
	e.resampler.PushSamples(samples, frames)
}

// Stats returns the running statistics of the Engine.
func (e *Engine) Stats() Stats {
	return Stats{
		Ticks:     e.ticks,
		Underruns: e.underruns,
		Resampler: e.resampler.Stats(),
	}
}

// DebugString returns a summary of the output resampler suitable for an
// overlay. It is safe to call from the host goroutine.
func (e *Engine) DebugString() string {
	return e.resampler.DebugString()
}

func (e *Engine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("mix %dHz, src %dHz, %d ticks\n", e.mixFrequency, e.srcFrequency, e.ticks))
	for _, c := range e.channels {
		s.WriteString(c.String())
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// Reset returns the Engine to its initial state. Waiting threads have their
// waits cancelled and are not resumed normally. Any capture is stopped.
func (e *Engine) Reset() {
	for _, c := range e.channels {
		for _, w := range c.Waiting {
			if err := e.kernel.CancelWait(w.Thread); err != nil {
				logger.Log(e.env, "audio", err)
			}
		}
		c.clear()
	}
	e.mixFrequency = HardwareRate
	e.srcFrequency = 0
	e.resampler.Clear()
	e.resampler.SetInputRate(e.mixFrequency)
	e.resampler.ResetStats()
	e.ticks = 0
	e.underruns = 0
	e.stopCapture()
}

// Shutdown the Engine. The Engine's events are removed from the virtual
// clock.
func (e *Engine) Shutdown() {
	e.Reset()
	e.timing.UnscheduleEvent(e.tickEvent, 0)
	e.timing.UnscheduleEvent(e.hostEvent, 0)
}
