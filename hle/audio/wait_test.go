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
	"fmt"
	"testing"

	"github.com/jetsetilly/hleaudio/hle/audio"
	"github.com/jetsetilly/hleaudio/hle/audio/queue"
	"github.com/jetsetilly/hleaudio/hle/kernel"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/jetsetilly/hleaudio/test"
)

func (h *harness) thread(name string) kernel.ThreadID {
	id := h.kern.CreateThread(name, nil)
	h.kern.SetCurrentThread(id)
	return id
}

func TestBlockingOutput(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")

	const frames = 256

	_, err := h.eng.Reserve(0, frames, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(frames, 3))

	// queue is empty so the first output does not wait
	n, err := h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, frames)
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)

	// the second output waits but the samples are queued immediately
	n, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, frames)
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), true)

	n, _ = h.eng.RemainingSamples(0)
	test.ExpectEquality(t, n, frames*2)

	c, _ := h.eng.Channel(0)
	test.DemandEquality(t, len(c.Waiting), 1)
	test.ExpectEquality(t, c.Waiting[0].FramesRemaining, frames)

	// the thread is resumed on the tick that takes the drained count to the
	// threshold
	for i := 0; i < frames/audio.BlockSize-1; i++ {
		h.eng.MixTick()
		test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), true, i)
	}
	h.eng.MixTick()
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)
	test.ExpectEquality(t, h.kern.ReturnValue(id), uint32(frames))

	reschedules, reason := h.kern.Reschedules()
	test.ExpectEquality(t, reschedules, 1)
	test.ExpectEquality(t, reason, "audio drain")

	// resumed exactly once
	for range 8 {
		h.eng.MixTick()
	}
	reschedules, _ = h.kern.Reschedules()
	test.ExpectEquality(t, reschedules, 1)

	c, _ = h.eng.Channel(0)
	test.ExpectEquality(t, len(c.Waiting), 0)
}

func TestMinSizeFactor(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")
	test.DemandSuccess(t, h.env.Prefs.Audio.MinSizeFactor.Set(4))

	_, err := h.eng.Reserve(0, 256, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(256, 3))

	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)

	// a quarter of the queue must drain
	h.eng.MixTick()
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)
}

func TestBlockingWithoutDispatch(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")

	_, err := h.eng.Reserve(0, 64, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(64, 3))

	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)

	h.kern.SetDispatchEnabled(false)
	_, err = h.eng.Output(0, addr, true)
	test.ExpectEquality(t, audio.ResultCode(err), audio.ResultChannelBusy)
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)

	n, _ := h.eng.RemainingSamples(0)
	test.ExpectEquality(t, n, 64)
}

func TestReleaseWakesWaiters(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")

	_, err := h.eng.Reserve(0, 64, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(64, 3))

	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), true)

	test.DemandSuccess(t, h.eng.Release(0))
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)
	test.ExpectEquality(t, h.kern.ReturnValue(id), audio.ResultChannelNotReserved)

	c, _ := h.eng.Channel(0)
	test.ExpectEquality(t, c.Reserved, false)
	test.ExpectEquality(t, len(c.Waiting), 0)
}

func TestResetCancelsWaits(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")

	_, err := h.eng.Reserve(0, 64, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(64, 3))

	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)

	h.eng.Reset()
	test.ExpectEquality(t, h.kern.IsWaiting(id, kernel.WaitAudioChannel), false)
	test.ExpectEquality(t, h.kern.ReturnValue(id), kernel.ErrorWaitCancel)

	c, _ := h.eng.Channel(0)
	test.ExpectEquality(t, c.Reserved, false)
}

// a thread that stops waiting for some other reason is forgotten
func TestStaleWaiter(t *testing.T) {
	h := newHarness(t)
	id := h.thread("game")

	_, err := h.eng.Reserve(0, 256, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, ramp(256, 3))

	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)
	_, err = h.eng.Output(0, addr, true)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, h.kern.CancelWait(id))

	h.eng.MixTick()
	c, _ := h.eng.Channel(0)
	test.ExpectEquality(t, len(c.Waiting), 0)
	test.ExpectEquality(t, h.kern.ReturnValue(id), kernel.ErrorWaitCancel)
}

// more than one thread waiting on a channel can push more samples than the
// queue holds. the excess is dropped and logged but the output still
// returns the full count
func TestQueueOverflow(t *testing.T) {
	h := newHarness(t)
	logger.Clear()

	_, err := h.eng.Reserve(0, audio.SampleMax, audio.Stereo)
	test.DemandSuccess(t, err)
	addr := h.samples(t, make([]int16, audio.SampleMax*2))

	for _, name := range []string{"first", "second", "third"} {
		h.thread(name)
		n, err := h.eng.Output(0, addr, true)
		test.ExpectSuccess(t, err, name)
		test.ExpectEquality(t, n, audio.SampleMax, name)
	}

	n, _ := h.eng.RemainingSamples(0)
	test.ExpectEquality(t, n, queue.DefaultCapacity/2)

	dropped := audio.SampleMax*2 - (queue.DefaultCapacity - audio.SampleMax*4)

	w := &test.CompareWriter{}
	logger.Write(w)
	test.ExpectSuccess(t, w.Contains("channel 0: queue full"))
	test.ExpectEquality(t, w.Count("queue full"), 1)
	test.ExpectSuccess(t, w.Contains(fmt.Sprintf("%d samples dropped", dropped)))
}
