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

// Package paths contains functions to prepare paths to hleaudio resources.
//
// The ResourcePath() function prepends the supplied resource with the
// appropriate resource directory. For example, the directory in which audio
// captures are saved is found with:
//
//	d, err := paths.ResourcePath("audio", "")
//
// The policy of ResourcePath() is simple: if the directory ".hleaudio" is
// present in the program's current directory then that is the base path that
// will be used. If it is not present then the user's config directory is used
// (as returned by os.UserConfigDir()). On a modern Linux system the above
// example returns:
//
//	/home/user/.config/hleaudio/audio
package paths
