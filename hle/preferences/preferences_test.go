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

package preferences_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/hleaudio/hle/preferences"
	"github.com/jetsetilly/hleaudio/prefs"
	"github.com/jetsetilly/hleaudio/test"
)

func TestDefaults(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := preferences.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.CPUMHz.Get().(int), preferences.DefaultCPUMHz)
	test.ExpectEquality(t, p.Audio.EnableSound.Get().(bool), true)
	test.ExpectEquality(t, p.Audio.Dump.Get().(bool), false)
	test.ExpectEquality(t, p.Audio.MinSizeFactor.Get().(int), 1)
	test.ExpectEquality(t, p.Audio.HostBlockSize.Get().(int), 512)
	test.ExpectEquality(t, p.Audio.Volume.Get().(int), 100)

	// missing file is created with the default values
	_, err = os.Stat(pth)
	test.ExpectSuccess(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := preferences.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, p.Audio.SkipSilence.Set(true))
	test.ExpectSuccess(t, p.Audio.MinSizeFactor.Set(4))
	test.ExpectSuccess(t, p.CPUMHz.Set(333))
	test.DemandSuccess(t, p.Save())

	q, err := preferences.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Audio.SkipSilence.Get().(bool), true)
	test.ExpectEquality(t, q.Audio.MinSizeFactor.Get().(int), 4)
	test.ExpectEquality(t, q.CPUMHz.Get().(int), 333)
	test.ExpectEquality(t, strings.Contains(q.String(), "audio.minsizefactor :: 4"), true)
}

func TestValidation(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := preferences.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)

	test.ExpectFailure(t, p.Audio.MinSizeFactor.Set(0))
	test.ExpectEquality(t, p.Audio.MinSizeFactor.Get().(int), 1)
	test.ExpectFailure(t, p.Audio.Volume.Set(101))
	test.ExpectFailure(t, p.Audio.HostBlockSize.Set(-1))
	test.ExpectFailure(t, p.CPUMHz.Set(0))
	test.ExpectSuccess(t, p.Audio.Volume.Set(0))
}

func TestCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("audio.volume::50")
	defer prefs.PopCommandLineStack()

	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := preferences.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Audio.Volume.Get().(int), 50)
}
