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

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package terminal

import (
	"os"

	"github.com/jetsetilly/hleaudio/curated"
)

// Terminal is not supported on this platform.
type Terminal struct{}

// NewTerminal always fails on this platform.
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	return nil, curated.Errorf("terminal: cbreak mode not supported on this platform")
}

// Keys returns a nil channel.
func (pt *Terminal) Keys() <-chan byte {
	return nil
}

// CleanUp does nothing.
func (pt *Terminal) CleanUp() {}

// Status does nothing.
func (pt *Terminal) Status(s string) {}
