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

// Package queue implements the sample queue used by each audio channel. The
// queue is a fixed capacity ring of interleaved 16bit stereo samples.
//
// Pushing and popping is done with spans. Because the ring wraps around the
// data for a single push or pop may not be contiguous, in which case two
// spans are returned. Callers should process both spans in the same way. The
// second span is nil when the data is contiguous.
//
// The queue is not safe for concurrent use. It is owned by the audio engine,
// which is only ever driven from the emulation goroutine.
package queue
