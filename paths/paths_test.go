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

package paths_test

import (
	"os"
	"strings"
	"testing"

	"github.com/jetsetilly/hleaudio/paths"
	"github.com/jetsetilly/hleaudio/test"
)

func TestPaths(t *testing.T) {
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".hleaudio", 0700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".hleaudio/foo/bar/baz")

	// sub-directory has been created
	_, err = os.Stat(".hleaudio/foo/bar")
	test.ExpectSuccess(t, err)

	pth, err = paths.ResourcePath("foo/bar", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".hleaudio/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".hleaudio/baz")

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".hleaudio")
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("audio", "ULUS10041")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "audio_ULUS10041_"))

	fn = paths.UniqueFilename("audio", "  ")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "audio_"))
	test.ExpectEquality(t, strings.Count(fn, "_"), 2)
}
