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

// Package audio is the high level emulation of the console's audio hardware.
// The Engine type owns a fixed set of audio channels. The emulated program
// reserves a channel and then outputs blocks of samples to it. Each channel
// has a queue of samples that is drained once per mix tick.
//
// The mix tick is an event on the virtual clock and fires every BlockSize
// frames at the hardware sample rate. On every tick, the queue of each
// reserved channel is drained by one block. The secondary channel
// (SRCChannel) can be given a source frequency, in which case it is
// resampled to the mix frequency as it is drained. The drained blocks are
// summed and the result is pushed to the output resampler, and to a capture
// file if one is active.
//
// The host audio device pulls mixed audio from the Engine with MixToHost().
// This is the only Engine function that is safe to call from outside the
// emulation goroutine.
//
// Threads that output to a channel whose queue is not empty can block. The
// blocking thread is recorded as a waiter on the channel and is resumed by a
// later mix tick, when the queue has drained sufficiently.
//
// # Result codes
//
// Errors returned by the Engine are curated errors. The ResultCode()
// function converts an error to the numeric code that is given to the
// emulated program.
package audio
