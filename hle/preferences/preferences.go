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
	"github.com/jetsetilly/hleaudio/paths"
	"github.com/jetsetilly/hleaudio/prefs"
)

// DefaultCPUMHz is the clock frequency of the emulated CPU at power on.
const DefaultCPUMHz = 222

// Preferences defines and collates all the preference values used by the
// emulation.
type Preferences struct {
	dsk *prefs.Disk

	// the clock frequency of the emulated CPU in MHz
	CPUMHz prefs.Int

	Audio *AudioPreferences
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The preferences file is in the default resource path.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is like NewPreferences() except that the location of
// the preferences file is specified.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	p.CPUMHz.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return curated.Errorf("preferences: cpu frequency must be positive")
		}
		return nil
	})

	err = p.dsk.Add("hle.cpumhz", &p.CPUMHz)
	if err != nil {
		return nil, err
	}

	p.Audio, err = newAudioPreferences(p.dsk)
	if err != nil {
		return nil, err
	}

	p.SetDefaults()

	err = p.dsk.Load(true)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.CPUMHz.Set(DefaultCPUMHz)
	p.Audio.SetDefaults()
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
