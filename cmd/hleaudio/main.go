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

// Command hleaudio plays and renders audio files through the emulated audio
// hardware. Each file is fed to its own audio channel by a kernel thread
// making blocking outputs, exactly as a game would.
//
// Modes:
//
//	play     play files through the host's audio device
//	render   render files to a WAV capture without playing them
//	inspect  report on the contents of a WAV file
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jetsetilly/hleaudio/environment"
	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/session"
	"github.com/jetsetilly/hleaudio/host/pcm"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/jetsetilly/hleaudio/prefs"
	"github.com/jetsetilly/hleaudio/version"
	"github.com/urfave/cli"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		os.Exit(10)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = version.ApplicationName
	app.Usage = "high level emulation of handheld console audio hardware"
	app.Version = version.String()
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "log",
			Usage: "echo the log to stderr",
		},
		cli.StringFlag{
			Name:  "prefs",
			Usage: "preference values overriding the preferences file. eg. \"audio.volume::50; hle.cpumhz::333\"",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "play",
			Usage:     "play audio files through the host's audio device",
			ArgsUsage: "<file> [file...]",
			Flags:     append(streamFlags(), playFlags()...),
			Action:    play,
		},
		{
			Name:      "render",
			Usage:     "render audio files to a WAV capture",
			ArgsUsage: "<file> [file...]",
			Flags:     append(streamFlags(), renderFlags()...),
			Action:    render,
		},
		{
			Name:      "inspect",
			Usage:     "report on the contents of WAV files",
			ArgsUsage: "<file> [file...]",
			Action:    inspect,
		},
	}

	return app
}

// flags shared by the modes that create a session
func streamFlags() []cli.Flag {
	return []cli.Flag{
		cli.Float64Flag{
			Name:  "tone",
			Usage: "add a sine wave of the given frequency as an additional stream",
		},
		cli.DurationFlag{
			Name:  "tone-duration",
			Value: pcm.DefaultToneDuration,
			Usage: "length of the tone",
		},
		cli.IntFlag{
			Name:  "frames",
			Value: 1024,
			Usage: "number of frames in each output of a stream. must be a multiple of 64",
		},
		cli.IntFlag{
			Name:  "volume",
			Value: 100,
			Usage: "channel volume of every stream as a percentage. values over 100 boost the signal",
		},
		cli.BoolFlag{
			Name:  "loop",
			Usage: "loop every file. the session only ends when interrupted",
		},
	}
}

// newEnvironment creates the environment for the main emulation. Values in
// the prefs flag override the values in the preferences file.
func newEnvironment(c *cli.Context) (*environment.Environment, error) {
	if c.GlobalBool("log") {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}

	if p := c.GlobalString("prefs"); p != "" {
		prefs.PushCommandLineStack(p)
	}

	return environment.NewEnvironment(environment.MainEmulation, nil)
}

// newSession creates a session with a stream for every file named on the
// command line and for the tone, if there is one.
func newSession(c *cli.Context, env *environment.Environment) (*session.Session, error) {
	if c.NArg() == 0 && c.Float64("tone") == 0 {
		return nil, fmt.Errorf("%s mode requires at least one file or a tone", c.Command.Name)
	}

	sess, err := session.NewSession(env)
	if err != nil {
		return nil, err
	}

	vol := c.Int("volume")
	if vol <= 0 {
		_ = sess.Shutdown()
		return nil, fmt.Errorf("volume must be positive")
	}
	cfg := session.StreamConfig{
		Frames:      c.Int("frames"),
		LeftVolume:  max(1, vol*format.FullVolume/100),
		RightVolume: max(1, vol*format.FullVolume/100),
	}

	var sources []*pcm.Buffer

	for _, fn := range c.Args() {
		b, err := pcm.Open(env, fn)
		if err != nil {
			_ = sess.Shutdown()
			return nil, err
		}
		sources = append(sources, b)
	}

	if f := c.Float64("tone"); f > 0 {
		sources = append(sources, pcm.NewTone(f, pcm.ToneRate, c.Duration("tone-duration"), 0.5))
	}

	var names []string
	for _, b := range sources {
		b.Loop = c.Bool("loop")
		cfg.Name = b.Name
		if _, err := sess.AddStream(b, cfg); err != nil {
			_ = sess.Shutdown()
			return nil, fmt.Errorf("%s: %w", b.Name, err)
		}
		names = append(names, b.String())
	}

	logger.Logf(env, "hleaudio", "streams: %s", strings.Join(names, ", "))

	return sess, nil
}
