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

// Package prefs facilitates the storing and loading of preference values.
//
// Preference values are represented by the Bool, Int, Float and String
// types. The values are atomic and so are safe to read from a different
// goroutine to the one that sets them. The audio host callback for example,
// reads the volume preference outside of the emulation goroutine.
//
// Values are grouped together with a Disk instance. The group is saved to and
// loaded from a single file, in a simple "key :: value" format. A file can be
// shared by more than one Disk instance.
//
// Values can be overridden on the command line. A preference string of the
// form "key::value; key::value" is pushed with PushCommandLineStack() and is
// applied the next time a Disk instance is loaded.
package prefs
