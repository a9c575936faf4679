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
	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/hle/audio/capture"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/jetsetilly/hleaudio/paths"
)

// StartCapture begins writing the mixed audio to a WAV file. A capture started
// with this function is not affected by the audio.dump preference.
func (e *Engine) StartCapture(filename string) error {
	e.capture.SetSkipSilence(e.env.Prefs.Audio.SkipSilence.Get().(bool))
	if err := e.capture.Start(filename, HardwareRate); err != nil {
		return err
	}
	e.autoCapture = false
	return nil
}

// StopCapture ends any capture in progress. It is safe to call when there is
// no capture.
func (e *Engine) StopCapture() error {
	return e.stopCapture()
}

func (e *Engine) stopCapture() error {
	e.autoCapture = false
	if err := e.capture.Stop(); err != nil {
		logger.Log(e.env, "audio", err)
		return err
	}
	return nil
}

// IsCapturing returns true if a capture is in progress. The filename of the
// capture is also returned.
func (e *Engine) IsCapturing() (bool, string) {
	return e.capture.IsOpen(), e.capture.Filename()
}

// autoCaptureFilename returns the name of a new file in the audio resource
// directory
func (e *Engine) autoCaptureFilename() (string, error) {
	label := string(e.env.Label)
	if label == "" {
		label = "main"
	}
	return paths.ResourcePath("audio", paths.UniqueFilename("audio", label)+".wav")
}

// updateCapture is called once per tick after the block has been mixed
func (e *Engine) updateCapture() {
	dump := e.env.Prefs.Audio.Dump.Get().(bool)

	if e.resetCapture {
		e.resetCapture = false
		if e.autoCapture && e.env.Prefs.Audio.SaveLoadResetsCapture.Get().(bool) {
			logger.Logf(e.env, "audio", "state loaded: restarting capture")
			_ = e.stopCapture()
		}
	}

	if !e.capture.IsOpen() {
		if !dump {
			return
		}

		fn, err := e.autoCaptureFilename()
		if err != nil {
			logger.Log(e.env, "audio", err)
			return
		}
		e.capture.SetSkipSilence(e.env.Prefs.Audio.SkipSilence.Get().(bool))

		// a failed start is not retried until the preference is set again.
		// otherwise every tick would make another attempt
		if err := e.capture.Start(fn, HardwareRate); err != nil {
			if !curated.Is(err, capture.AlreadyOpen) {
				_ = e.env.Prefs.Audio.Dump.Set(false)
			}
			return
		}
		e.autoCapture = true
		logger.Logf(e.env, "audio", "recording audio to %s", fn)
	} else if e.autoCapture && !dump {
		_ = e.stopCapture()
		return
	}

	format.ClampBlock(e.clamped, e.accum)
	if err := e.capture.AddStereoSamples(e.clamped, BlockSize); err != nil {
		logger.Log(e.env, "audio", err)
	}
}
