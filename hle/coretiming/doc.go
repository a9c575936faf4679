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

// Package coretiming is the virtual clock of the emulation. Events are
// registered once, by name, and can then be scheduled to fire a number of
// emulated CPU cycles into the future.
//
// Events are only fired by Advance(). Advance() moves the clock forward and
// fires every event that has become due. Because an event may be fired some
// cycles after it was due, the callback is told how late it is. A periodic
// event should subtract this lateness from the interval when it reschedules
// itself to prevent drift.
//
// The package is not safe for concurrent use. It should only be used from the
// emulation goroutine.
package coretiming
