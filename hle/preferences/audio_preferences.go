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

package preferences

import (
	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/prefs"
)

// AudioPreferences are the preference values for the audio engine.
type AudioPreferences struct {
	// mixed audio is sent to the host only if EnableSound is true. mixing
	// and capture continue regardless
	EnableSound prefs.Bool

	// start a capture of the mixed audio automatically. the file is created
	// in the audio resource directory
	Dump prefs.Bool

	// blocks of complete silence are not written to a capture file
	SkipSilence prefs.Bool

	// restart any capture when a save state is loaded
	SaveLoadResetsCapture prefs.Bool

	// divisor applied to the queue depth when deciding how long a blocking
	// enqueue should wait. a larger value wakes the waiting thread earlier
	MinSizeFactor prefs.Int

	// number of frames between the host being poked
	HostBlockSize prefs.Int

	// master volume as a percentage
	Volume prefs.Int
}

func newAudioPreferences(dsk *prefs.Disk) (*AudioPreferences, error) {
	p := &AudioPreferences{}

	p.MinSizeFactor.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return curated.Errorf("preferences: audio.minsizefactor must be at least 1")
		}
		return nil
	})
	p.HostBlockSize.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return curated.Errorf("preferences: audio.hostblocksize must be at least 1")
		}
		return nil
	})
	p.Volume.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 || v.(int) > 100 {
			return curated.Errorf("preferences: audio.volume must be between 0 and 100")
		}
		return nil
	})

	err := dsk.Add("audio.enablesound", &p.EnableSound)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.dump", &p.Dump)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.skipsilence", &p.SkipSilence)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.saveloadresetscapture", &p.SaveLoadResetsCapture)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.minsizefactor", &p.MinSizeFactor)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.hostblocksize", &p.HostBlockSize)
	if err != nil {
		return nil, err
	}
	err = dsk.Add("audio.volume", &p.Volume)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all audio settings to default values.
func (p *AudioPreferences) SetDefaults() {
	_ = p.EnableSound.Set(true)
	_ = p.Dump.Set(false)
	_ = p.SkipSilence.Set(false)
	_ = p.SaveLoadResetsCapture.Set(true)
	_ = p.MinSizeFactor.Set(1)
	_ = p.HostBlockSize.Set(512)
	_ = p.Volume.Set(100)
}
