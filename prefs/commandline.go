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

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// group is one set of preference values taken from the command line. values
// are removed from the group as they are used
type group map[string]Value

// parseGroup divides a string of the form "key::value; key::value" into a
// group. Malformed entries are ignored.
func parseGroup(s string) group {
	g := make(group)
	for _, p := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(p, "::")
		if !ok || strings.Contains(v, "::") {
			continue
		}
		g[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return g
}

// String returns the group in the same form as accepted by parseGroup(). Keys
// are sorted.
func (g group) String() string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := make([]string, 0, len(keys))
	for _, k := range keys {
		s = append(s, fmt.Sprintf("%s::%v", k, g[k]))
	}
	return strings.Join(s, "; ")
}

// the stack is read by the Disk type when loading values, which may happen in
// a different goroutine to the one that pushed the group
var (
	commandLineStack []group
	commandLineCrit  sync.Mutex
)

// SizeCommandLineStack returns the number of groups that have been added with
// PushCommandLineStack().
func SizeCommandLineStack() int {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()
	return len(commandLineStack)
}

// PushCommandLineStack parses a preferences string from the command line and
// adds it as a new group. Only the most recent group is used when loading
// preferences.
//
// The string is a list of key/value pairs separated by semicolons. Keys and
// values are separated by a double colon. For example:
//
//	audio.volume::50; hle.cpumhz::333
func PushCommandLineStack(prefs string) {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()
	commandLineStack = append(commandLineStack, parseGroup(prefs))
}

// PopCommandLineStack forgets the most recent group. Returns the entries in
// that group that were never used, in the same form as accepted by
// PushCommandLineStack().
func PopCommandLineStack() string {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()

	n := len(commandLineStack)
	if n == 0 {
		return ""
	}

	g := commandLineStack[n-1]
	commandLineStack = commandLineStack[:n-1]

	return g.String()
}

// GetCommandLinePref returns the value for the key from the most recent group.
// The value is removed from the group when it is returned.
func GetCommandLinePref(key string) (bool, Value) {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()

	n := len(commandLineStack)
	if n == 0 {
		return false, nil
	}

	g := commandLineStack[n-1]
	v, ok := g[key]
	if ok {
		delete(g, key)
	}
	return ok, v
}
