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

package main

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/hleaudio/hle/audio/capture"
	"github.com/urfave/cli"
)

func inspect(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("inspect mode requires at least one file")
	}

	var errs []error
	for _, fn := range c.Args() {
		r, err := capture.Inspect(fn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Println(r)
	}

	return errors.Join(errs...)
}
