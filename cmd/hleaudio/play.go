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
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/hleaudio/environment"
	"github.com/jetsetilly/hleaudio/hle/audio"
	"github.com/jetsetilly/hleaudio/hle/session"
	"github.com/jetsetilly/hleaudio/host/otoaudio"
	"github.com/jetsetilly/hleaudio/host/sdlaudio"
	"github.com/jetsetilly/hleaudio/host/terminal"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/jetsetilly/hleaudio/paths"
	"github.com/jetsetilly/hleaudio/statsview"
	"github.com/urfave/cli"
)

// how often the session is advanced to catch up with real time
const playInterval = 10 * time.Millisecond

// the most emulated time that will pass in one step. prevents a long stall of
// the process from being followed by a burst of emulation
const maxCatchUp = 100 * time.Millisecond

const playKeys = "[space] pause  [s] save state  [l] load state  [c] capture  [q] quit"

func playFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "sink",
			Value: "oto",
			Usage: "host audio device: oto, sdl or none",
		},
		cli.IntFlag{
			Name:  "rate",
			Usage: "sample rate of the host audio device. zero means the default for the sink",
		},
		cli.StringFlag{
			Name:  "capture",
			Usage: "capture the mixed audio to a WAV file",
		},
		cli.StringFlag{
			Name:  "memviz",
			Usage: "write a graphviz diagram of the audio engine state to file when playback ends",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "run a statsview server for the duration of playback (if available)",
		},
	}
}

func newHost(c *cli.Context, env *environment.Environment, sess *session.Session) (audio.Host, io.Closer, error) {
	switch c.String("sink") {
	case "oto":
		aud, err := otoaudio.NewAudio(env, sess.Audio, c.Int("rate"))
		if err != nil {
			return nil, nil, err
		}
		return aud, aud, nil
	case "sdl":
		aud, err := sdlaudio.NewAudio(env, sess.Audio, c.Int("rate"))
		if err != nil {
			return nil, nil, err
		}
		return aud, aud, nil
	case "none":
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown audio sink (%s)", c.String("sink"))
}

func play(c *cli.Context) (rerr error) {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}

	sess, err := newSession(c, env)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Shutdown(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	host, closer, err := newHost(c, env, sess)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	sess.SetHost(host)

	if fn := c.String("capture"); fn != "" {
		if err := sess.Audio.StartCapture(fn); err != nil {
			return err
		}
	}

	if c.Bool("statsview") {
		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	if fn := c.String("memviz"); fn != "" {
		defer writeMemviz(env, fn, sess)
	}

	var keys <-chan byte
	term, err := terminal.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		logger.Log(env, "hleaudio", err)
	} else {
		defer term.CleanUp()
		keys = term.Keys()
		fmt.Println(playKeys)
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	ticker := time.NewTicker(playInterval)
	defer ticker.Stop()

	var saved bytes.Buffer
	paused := false
	last := time.Now()

	for !sess.Done() {
		select {
		case <-intChan:
			return nil

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch k {
			case 'q', 'Q':
				return nil
			case ' ':
				paused = !paused
			case 's', 'S':
				saved.Reset()
				if err := sess.SaveState(&saved); err != nil {
					logger.Log(env, "hleaudio", err)
				}
			case 'l', 'L':
				if saved.Len() == 0 {
					continue
				}
				if err := sess.LoadState(bytes.NewReader(saved.Bytes())); err != nil {
					logger.Log(env, "hleaudio", err)
				}
			case 'c', 'C':
				toggleCapture(env, sess)
			}

		case now := <-ticker.C:
			d := min(now.Sub(last), maxCatchUp)
			last = now
			if paused {
				continue
			}
			if err := sess.RunFor(d); err != nil {
				return err
			}
			if term != nil {
				term.Status(status(sess, paused))
			}
		}
	}

	// let the host play out what remains in the output buffer
	if host != nil {
		time.Sleep(250 * time.Millisecond)
	}

	return nil
}

func status(sess *session.Session, paused bool) string {
	s := sess.Audio.DebugString()
	if ok, fn := sess.Audio.IsCapturing(); ok {
		s = fmt.Sprintf("%s [capturing %s]", s, fn)
	}
	if paused {
		s = fmt.Sprintf("%s [paused]", s)
	}
	return s
}

func toggleCapture(env *environment.Environment, sess *session.Session) {
	if ok, _ := sess.Audio.IsCapturing(); ok {
		if err := sess.Audio.StopCapture(); err != nil {
			logger.Log(env, "hleaudio", err)
		}
		return
	}

	fn, err := paths.ResourcePath("audio", paths.UniqueFilename("capture", "")+".wav")
	if err != nil {
		logger.Log(env, "hleaudio", err)
		return
	}
	if err := sess.Audio.StartCapture(fn); err != nil {
		logger.Log(env, "hleaudio", err)
	}
}

// writeMemviz writes the saved state of the audio engine as a graphviz
// diagram
func writeMemviz(env *environment.Environment, fn string, sess *session.Session) {
	f, err := os.Create(fn)
	if err != nil {
		logger.Log(env, "hleaudio", err)
		return
	}
	defer f.Close()
	memviz.Map(f, sess.Audio.Snapshot())
}
