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

// Package session ties together the virtual clock, emulated memory, the
// thread kernel and the audio engine into a single emulation session.
//
// Audio enters the session through streams. Each stream has a feeder thread
// in the kernel that copies frames from a Source into emulated memory and
// outputs them to an audio channel with a blocking output, just as an
// emulated program would. The feeder sleeps until the channel drains and is
// woken by the audio engine.
//
// The session is advanced in emulated time with Advance() or RunFor(). It is
// not safe to call session functions from more than one goroutine, with the
// exception of the engine's MixToHost() function which is intended for the
// host audio goroutine.
package session
