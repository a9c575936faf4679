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

package otoaudio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
)

// DefaultRate is the sample rate of the oto context. It is deliberately not
// the hardware rate so that the engine's output resampler is exercised.
const DefaultRate = 48000

// Mixer is implemented by the audio engine.
type Mixer interface {
	MixToHost(out []int16, frames int, hostRate int) int
}

// oto allows only one context per process
var (
	otoCtx     *oto.Context
	otoRate    int
	otoInit    sync.Once
	otoInitErr error
)

func context(rate int) (*oto.Context, error) {
	otoInit.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
		otoRate = rate
	})
	if otoInitErr != nil {
		return nil, curated.Errorf("otoaudio: %v", otoInitErr)
	}
	if rate != otoRate {
		return nil, curated.Errorf("otoaudio: context already created at %dHz", otoRate)
	}
	return otoCtx, nil
}

// Audio is an oto player that pulls from a Mixer. It implements the
// audio.Host interface.
type Audio struct {
	env    logger.Permission
	mixer  Mixer
	rate   int
	player *oto.Player

	// used only by the oto goroutine
	samples []int16

	reads  atomic.Int64
	pokes  atomic.Int64
	closed atomic.Bool
}

// NewAudio is the preferred method of initialisation for the Audio type. A
// rate of zero means DefaultRate.
func NewAudio(env logger.Permission, mixer Mixer, rate int) (*Audio, error) {
	if rate <= 0 {
		rate = DefaultRate
	}

	ctx, err := context(rate)
	if err != nil {
		return nil, err
	}

	aud := &Audio{
		env:   env,
		mixer: mixer,
		rate:  rate,
	}

	aud.player = ctx.NewPlayer(aud)

	// roughly 50ms of buffering in the player
	aud.player.SetBufferSize(rate / 20 * 4)
	aud.player.Play()

	logger.Logf(env, "otoaudio", "playing at %dHz", rate)

	return aud, nil
}

// Read implements the io.Reader interface. It is called by oto.
func (aud *Audio) Read(buf []byte) (int, error) {
	if aud.closed.Load() {
		clear(buf)
		return len(buf) &^ 3, nil
	}

	frames := len(buf) / 4
	if frames == 0 {
		return 0, nil
	}

	if cap(aud.samples) < frames*2 {
		aud.samples = make([]int16, frames*2)
	}
	s := aud.samples[:frames*2]

	n := aud.mixer.MixToHost(s, frames, aud.rate)
	for i, v := range s[:n*2] {
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}

	aud.reads.Add(1)

	return n * 4, nil
}

// UpdateSound implements the audio.Host interface. Oto pulls audio as it
// needs it so the poke is only counted.
func (aud *Audio) UpdateSound() {
	aud.pokes.Add(1)
}

// Counts returns the number of times oto has pulled audio and the number of
// times the engine has poked the host.
func (aud *Audio) Counts() (reads int64, pokes int64) {
	return aud.reads.Load(), aud.pokes.Load()
}

// Close stops playback. The oto context remains open.
func (aud *Audio) Close() error {
	if aud.closed.Swap(true) {
		return nil
	}
	aud.player.Pause()
	if err := aud.player.Close(); err != nil {
		return curated.Errorf("otoaudio: %v", err)
	}
	return nil
}
