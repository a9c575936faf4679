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

//go:build linux || darwin || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is a posix terminal in cbreak mode.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// width of the output terminal in characters
	cols int

	keys chan byte

	// sig/ack channels to control the geometry signal handler
	terminateSig chan bool
	terminateAck chan bool

	crit sync.Mutex
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
// The terminal is put into cbreak mode and remains so until CleanUp() is
// called.
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	if input == nil || output == nil {
		return nil, curated.Errorf("terminal: input and output files are required")
	}

	pt := &Terminal{
		input:        input,
		output:       output,
		keys:         make(chan byte, 16),
		terminateSig: make(chan bool),
		terminateAck: make(chan bool),
	}

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, curated.Errorf("terminal: %v", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr); err != nil {
		return nil, curated.Errorf("terminal: %v", err)
	}

	_ = pt.updateGeometry()

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			pt.terminateAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = pt.updateGeometry()
			case <-pt.terminateSig:
				return
			}
		}
	}()

	// the reading goroutine is left blocked in Read() when the terminal is
	// cleaned up. it ends with the process
	go func() {
		b := make([]byte, 1)
		for {
			n, err := pt.input.Read(b)
			if err != nil {
				close(pt.keys)
				return
			}
			if n == 1 {
				pt.keys <- b[0]
			}
		}
	}()

	return pt, nil
}

// Keys returns a channel on which key presses are sent. The channel is closed
// if the input file can no longer be read.
func (pt *Terminal) Keys() <-chan byte {
	return pt.keys
}

// CleanUp returns the terminal to canonical mode.
func (pt *Terminal) CleanUp() {
	pt.terminateSig <- true
	<-pt.terminateAck
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
	fmt.Fprintln(pt.output)
}

// updateGeometry gets the current width of the output terminal
func (pt *Terminal) updateGeometry() error {
	ws, err := unix.IoctlGetWinsize(int(pt.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return curated.Errorf("terminal: %v", err)
	}

	pt.crit.Lock()
	defer pt.crit.Unlock()
	pt.cols = int(ws.Col)

	return nil
}

// Status overwrites the current line of the output terminal. The status is
// cropped to the width of the terminal.
func (pt *Terminal) Status(s string) {
	pt.crit.Lock()
	cols := pt.cols
	pt.crit.Unlock()

	s = strings.ReplaceAll(s, "\n", " ")
	if cols > 1 && len(s) >= cols {
		s = s[:cols-1]
	}

	fmt.Fprintf(pt.output, "\r\033[K%s", s)
}
