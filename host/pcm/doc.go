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

// Package pcm loads audio files into memory as interleaved stereo 16bit
// frames, ready to be played by a session stream.
//
// WAV files are decoded with github.com/go-audio/wav and MP3 files with
// github.com/hajimehoshi/go-mp3. Mono files are duplicated onto both
// channels and files with more than two channels keep only the first two.
package pcm
