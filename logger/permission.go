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

package logger

// Permission implementations decide whether a log request is turned into a
// log entry. The environment of an emulation implements Permission so that
// background emulations can run without filling the log.
type Permission interface {
	AllowLogging() bool
}

type permission bool

func (p permission) AllowLogging() bool {
	return bool(p)
}

// Allow is a Permission that always allows logging. Use it for log entries
// that do not belong to any one emulation.
var Allow Permission = permission(true)

// a nil Permission never allows logging
func allowed(perm Permission) bool {
	return perm != nil && perm.AllowLogging()
}
