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

package paths

import (
	"os"
	"path/filepath"
)

// the name of the resource directory when it is local to the current working
// directory. the user's config directory is used if it is not present.
const localResourcePath = ".hleaudio"

// the name of the resource directory in the user's config directory.
const configResourcePath = "hleaudio"

// ResourcePath returns the path to a resource. The subPth argument is the
// directory the resource is in and is created if it does not exist. The file
// argument can be empty, in which case the path to the directory is returned.
func ResourcePath(subPth string, file string) (string, error) {
	base, err := getBasePath()
	if err != nil {
		return "", err
	}

	pth := filepath.Join(base, subPth)

	if _, err := os.Stat(pth); err != nil {
		if err := os.MkdirAll(pth, 0700); err != nil {
			return "", err
		}
	}

	return filepath.Join(pth, file), nil
}

func getBasePath() (string, error) {
	if _, err := os.Stat(localResourcePath); err == nil {
		return localResourcePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cnf, configResourcePath), nil
}
