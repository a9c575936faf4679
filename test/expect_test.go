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

package test_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/hleaudio/test"
)

func TestExpectations(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, nil)
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("failure"))

	test.ExpectEquality(t, 10, 10)
	test.ExpectEquality(t, "foo", "foo")
	test.ExpectInequality(t, int16(-1), int16(1))

	test.ExpectApproximate(t, 100, 101, 1)
	test.ExpectApproximate(t, int16(-100), int16(-98), int16(2))
	test.ExpectApproximate(t, 0.5, 0.5001, 0.001)
}

func TestCompareWriter(t *testing.T) {
	w := &test.CompareWriter{}
	test.ExpectSuccess(t, w.Compare(""))

	fmt.Fprintf(w, "audio: channel %d underrun\n", 2)
	fmt.Fprintf(w, "audio: channel %d underrun\n", 3)
	test.ExpectSuccess(t, w.Contains("channel 3"))
	test.ExpectEquality(t, w.Count("underrun"), 2)

	w.Clear()
	test.ExpectEquality(t, w.String(), "")
}
