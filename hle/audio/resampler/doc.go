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

// Package resampler sits between the audio engine and the host audio device.
// The engine pushes finished blocks of samples at the hardware rate and the
// host pulls frames at whatever rate and cadence it likes.
//
// The two sides run on different goroutines. The ring buffer between them is
// a single-producer single-consumer ring with atomic read and write indices,
// so neither side ever blocks the other. The producer side is PushSamples()
// and Clear(). The consumer side is Mix().
//
// Starvation on the consumer side is dealt with by repeating the last frame
// that was output. This avoids the audible click of dropping to silence.
package resampler
