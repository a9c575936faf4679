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

// Package capture writes the mixed audio stream to disk as a WAV file. The
// file header is written with oversized length fields when the capture
// starts, so that a capture that is never stopped correctly is still a
// playable file. The length fields are corrected when the capture stops.
//
// The Inspect() function reads a capture file and reports basic statistics
// about the audio it contains.
package capture
