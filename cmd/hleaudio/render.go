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
	"fmt"
	"time"

	"github.com/jetsetilly/hleaudio/hle/audio/capture"
	"github.com/urfave/cli"
)

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "output, o",
			Usage: "name of the WAV file to render to",
		},
		cli.DurationFlag{
			Name:  "limit",
			Value: 10 * time.Minute,
			Usage: "the most emulated time to render. required when looping",
		},
		cli.DurationFlag{
			Name:  "step",
			Value: 10 * time.Millisecond,
			Usage: "amount of emulated time between checks for the end of the streams",
		},
	}
}

func render(c *cli.Context) (rerr error) {
	output := c.String("output")
	if output == "" {
		return fmt.Errorf("render mode requires an output file")
	}
	if c.Duration("step") <= 0 {
		return fmt.Errorf("step must be positive")
	}

	env, err := newEnvironment(c)
	if err != nil {
		return err
	}

	// nothing pulls from the output buffer when rendering. the capture is
	// taken from the mixer directly
	if err := env.Prefs.Audio.EnableSound.Set(false); err != nil {
		return err
	}
	if err := env.Prefs.Audio.Dump.Set(false); err != nil {
		return err
	}

	sess, err := newSession(c, env)
	if err != nil {
		return err
	}

	if err := sess.Audio.StartCapture(output); err != nil {
		_ = sess.Shutdown()
		return err
	}

	elapsed, err := sess.RunUntilDone(c.Duration("step"), c.Duration("limit"))
	if err != nil {
		_ = sess.Shutdown()
		return err
	}

	stats := sess.Audio.Stats()

	// shutdown stops the capture
	if err := sess.Shutdown(); err != nil {
		return err
	}

	fmt.Printf("rendered %v of emulated time in %d ticks (%d underruns)\n", elapsed, stats.Ticks, stats.Underruns)

	r, err := capture.Inspect(output)
	if err != nil {
		return err
	}
	fmt.Println(r)

	return nil
}
