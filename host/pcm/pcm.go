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

package pcm

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
)

// Sentinal errors.
const (
	UnsupportedFile = "pcm: unsupported file type (%s)"
	InvalidFile     = "pcm: %s: %v"
)

const logTag = "pcm"

// ToneRate is the sample rate of buffers created by NewTone() when used from
// the command line.
const ToneRate = 44100

// DefaultToneDuration is the length of a tone when none is specified.
const DefaultToneDuration = 5 * time.Second

// Buffer is a complete audio file held in memory. It implements the
// session.Source interface.
type Buffer struct {
	Name string

	// interleaved stereo samples
	data []int16
	rate int
	pos  int

	// play the buffer from the beginning once the end is reached
	Loop bool
}

// NewBuffer creates a Buffer from interleaved stereo samples.
func NewBuffer(name string, data []int16, rate int) *Buffer {
	return &Buffer{
		Name: name,
		data: data[:len(data)&^1],
		rate: rate,
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s: %d frames @ %dHz (%s)", b.Name, b.Frames(), b.rate, b.Duration().Round(time.Millisecond))
}

// SampleRate returns the sample rate of the audio.
func (b *Buffer) SampleRate() int {
	return b.rate
}

// Frames returns the total number of frames in the buffer.
func (b *Buffer) Frames() int {
	return len(b.data) / 2
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.rate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.rate)
}

// Rewind moves the read position back to the beginning of the buffer.
func (b *Buffer) Rewind() {
	b.pos = 0
}

// ReadFrames implements the session.Source interface.
func (b *Buffer) ReadFrames(out []int16) (int, error) {
	if len(b.data) == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(out)/2 {
		if b.pos >= len(b.data) {
			if !b.Loop {
				break
			}
			b.pos = 0
		}
		c := copy(out[n*2:], b.data[b.pos:])
		c &^= 1
		b.pos += c
		n += c / 2
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Open loads an audio file. The type of file is decided by the file
// extension.
func Open(env logger.Permission, filename string) (*Buffer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(InvalidFile, filename, err)
	}
	defer f.Close()

	var b *Buffer

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		logger.Logf(env, logTag, "loading from wav file: %s", filename)
		b, err = decodeWAV(f)
	case ".mp3":
		logger.Logf(env, logTag, "loading from mp3 file: %s", filename)
		b, err = decodeMP3(f)
	default:
		return nil, curated.Errorf(UnsupportedFile, filepath.Ext(filename))
	}

	if err != nil {
		return nil, curated.Errorf(InvalidFile, filename, err)
	}

	b.Name = filepath.Base(filename)
	logger.Log(env, logTag, b)

	return b, nil
}

func decodeWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	chans := int(dec.NumChans)
	if chans < 1 {
		return nil, fmt.Errorf("no channels")
	}

	// shift applied to each sample to bring it to 16bits
	conv := func(v int) int16 { return int16(v) }
	switch buf.SourceBitDepth {
	case 8:
		conv = func(v int) int16 { return int16((v - 128) << 8) }
	case 16:
	case 24:
		conv = func(v int) int16 { return int16(v >> 8) }
	case 32:
		conv = func(v int) int16 { return int16(v >> 16) }
	default:
		return nil, fmt.Errorf("unsupported bit depth (%d)", buf.SourceBitDepth)
	}

	frames := len(buf.Data) / chans
	data := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		l := conv(buf.Data[i*chans])
		r := l
		if chans > 1 {
			r = conv(buf.Data[i*chans+1])
		}
		data[i*2] = l
		data[i*2+1] = r
	}

	return NewBuffer("", data, int(dec.SampleRate)), nil
}

func decodeMP3(r io.Reader) (*Buffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	// the decoded stream is always 16bit little-endian stereo, even for a
	// single channel file
	var data []int16
	if l := dec.Length(); l > 0 {
		data = make([]int16, 0, l/2)
	}

	chunk := make([]byte, 4096)
	for {
		n, err := dec.Read(chunk)
		for i := 0; i+1 < n; i += 2 {
			data = append(data, int16(uint16(chunk[i])|uint16(chunk[i+1])<<8))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data")
	}

	return NewBuffer("", data, dec.SampleRate()), nil
}

// NewTone creates a Buffer containing a sine wave. The amplitude is in the
// range 0.0 to 1.0.
func NewTone(freq float64, rate int, duration time.Duration, amplitude float64) *Buffer {
	frames := int(duration.Seconds() * float64(rate))
	data := make([]int16, frames*2)
	amplitude = math.Max(0, math.Min(1, amplitude))
	for i := 0; i < frames; i++ {
		v := int16(math.Round(math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) * amplitude * 32767))
		data[i*2] = v
		data[i*2+1] = v
	}
	return NewBuffer(fmt.Sprintf("%.0fHz tone", freq), data, rate)
}
