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

package sdlaudio

import (
	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// the number of frames queued with every poke. the engine pokes the host at
// a similar interval so the queue should stay short
const bufferLength = 512

// the amount of queued audio, in frames, above which a poke does not queue
// any more audio. prevents latency building up if the emulation runs ahead
const queueLimit = bufferLength * 4

// Mixer is implemented by the audio engine.
type Mixer interface {
	MixToHost(out []int16, frames int, hostRate int) int
}

// Audio outputs sound using SDL. It implements the audio.Host interface.
type Audio struct {
	env   logger.Permission
	mixer Mixer

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	samples []int16
	buffer  []uint8

	// number of pokes that were skipped because the queue was full
	skipped int
}

// NewAudio is the preferred method of initialisation for the Audio type. The
// SDL audio subsystem is initialised if necessary. A rate of zero means 44100.
func NewAudio(env logger.Permission, mixer Mixer, rate int) (*Audio, error) {
	if rate <= 0 {
		rate = 44100
	}

	if sdl.WasInit(sdl.INIT_AUDIO) == 0 {
		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return nil, curated.Errorf("sdlaudio: %v", err)
		}
	}

	aud := &Audio{
		env:     env,
		mixer:   mixer,
		samples: make([]int16, bufferLength*2),
		buffer:  make([]uint8, bufferLength*4),
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(rate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  uint16(bufferLength),
	}

	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, curated.Errorf("sdlaudio: %v", err)
	}

	logger.Logf(env, "sdlaudio", "frequency: %d samples/sec", aud.spec.Freq)
	logger.Logf(env, "sdlaudio", "buffer size: %d samples", aud.spec.Samples)

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// UpdateSound implements the audio.Host interface.
func (aud *Audio) UpdateSound() {
	if sdl.GetQueuedAudioSize(aud.id)/4 > queueLimit {
		aud.skipped++
		return
	}

	n := aud.mixer.MixToHost(aud.samples, bufferLength, int(aud.spec.Freq))
	for i, v := range aud.samples[:n*2] {
		aud.buffer[i*2] = uint8(v)
		aud.buffer[i*2+1] = uint8(v >> 8)
	}

	if err := sdl.QueueAudio(aud.id, aud.buffer[:n*4]); err != nil {
		logger.Log(aud.env, "sdlaudio", err)
	}
}

// Skipped returns the number of pokes that did not queue audio because the
// queue was already full.
func (aud *Audio) Skipped() int {
	return aud.skipped
}

// Close the audio device. Any queued audio is discarded.
func (aud *Audio) Close() error {
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	return nil
}
