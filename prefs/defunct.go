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

package prefs

// preference keys that were once written to preferences files but which are
// no longer used. they are dropped when a file is read and so disappear the
// next time the file is saved
var defunct = map[string]bool{
	"audio.maxsizefactor": true,
	"audio.mixfreq":       true,
}

func isDefunct(key string) bool {
	return defunct[key]
}
