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

// Package kernel is a minimal cooperative thread manager for emulated
// threads. It does not use goroutines. A thread is a function that is called
// by RunReady() whenever the thread is ready to run. A thread that needs to
// block, for example waiting for an audio channel to drain, is put into the
// waiting state by the HLE function it called and its function returns. When
// the thread is resumed from the wait, the next call to its function can
// retrieve the result of the wait with ReturnValue().
//
// Waits are identified by a WaitType and a wait ID. The meaning of the wait
// ID depends on the WaitType. A wait ID of zero means the thread is not
// waiting for that WaitType.
package kernel
