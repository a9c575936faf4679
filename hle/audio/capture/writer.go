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

package capture

import (
	"encoding/binary"
	"os"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
	"github.com/youpy/go-wav"
)

// SampleRate is the sample rate of all capture files, regardless of the rate
// at which the engine is mixing.
const SampleRate = 44100

// HeaderSize is the size of the WAV header that precedes the sample data.
const HeaderSize = 44

// StagingFrames is the largest number of frames that can be passed to
// AddStereoSamples() in a single call.
const StagingFrames = 8192

// the declared number of frames in the header when the capture starts. large
// enough that a truncated capture will play to the end of whatever was
// written
const placeholderFrames = 25 * 1000 * 1000

// offsets of the length fields in the header
const (
	riffSizeOffset = 4
	dataSizeOffset = 40
)

// Sentinal errors.
const (
	AlreadyOpen     = "capture: already open (%s)"
	StagingOverflow = "capture: too many frames (%d)"
)

// Writer is a WAV capture session. The zero value is an inactive writer.
type Writer struct {
	env logger.Permission

	filename    string
	f           *os.File
	enc         *wav.Writer
	bytes       uint32
	skipSilence bool

	staging []wav.Sample
}

// NewWriter is the preferred method of initialisation for the Writer type.
// Log entries are made with the supplied permission.
func NewWriter(env logger.Permission) *Writer {
	return &Writer{
		env:     env,
		staging: make([]wav.Sample, 0, StagingFrames),
	}
}

// IsOpen returns true if a capture is in progress.
func (w *Writer) IsOpen() bool {
	return w.f != nil
}

// Filename of the capture in progress. Empty if there is no capture.
func (w *Writer) Filename() string {
	return w.filename
}

// AudioBytes returns the number of sample bytes written since the capture
// started.
func (w *Writer) AudioBytes() int {
	return int(w.bytes)
}

// SetSkipSilence sets whether blocks that are entirely silent should be
// discarded.
func (w *Writer) SetSkipSilence(skip bool) {
	w.skipSilence = skip
}

// Start a new capture. The file is created (or truncated) and the header is
// written. It is an error to start a capture when one is already in
// progress.
func (w *Writer) Start(filename string, rate int) error {
	if w.f != nil {
		logger.Logf(w.env, "capture", "%s was already open. the file header will not be written", filename)
		return curated.Errorf(AlreadyOpen, w.filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		logger.Logf(w.env, "capture", "%s could not be opened for writing", filename)
		return curated.Errorf("capture: %v", err)
	}

	if rate <= 0 {
		rate = SampleRate
	}

	w.enc = wav.NewWriter(f, placeholderFrames, 2, uint32(rate), 16)
	if w.enc == nil {
		f.Close()
		return curated.Errorf("capture: %v", "bad parameters for wav encoding")
	}

	w.f = f
	w.filename = filename
	w.bytes = 0

	logger.Logf(w.env, "capture", "writing audio to %s", filename)

	return nil
}

func isSilent(samples []int16) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

// AddStereoSamples appends frames of interleaved stereo samples to the
// capture. The number of frames must not be more than StagingFrames.
//
// Adding samples when there is no capture in progress does nothing.
func (w *Writer) AddStereoSamples(samples []int16, frames int) error {
	if w.f == nil {
		return nil
	}

	if frames > StagingFrames {
		return curated.Errorf(StagingOverflow, frames)
	}

	frames = min(frames, len(samples)/2)
	samples = samples[:frames*2]

	if w.skipSilence && isSilent(samples) {
		return nil
	}

	w.staging = w.staging[:0]
	for i := 0; i < frames; i++ {
		s := wav.Sample{}
		s.Values[0] = int(samples[i*2])
		s.Values[1] = int(samples[i*2+1])
		w.staging = append(w.staging, s)
	}

	if err := w.enc.WriteSamples(w.staging); err != nil {
		return curated.Errorf("capture: %v", err)
	}
	w.bytes += uint32(frames * 4)

	return nil
}

// Stop the capture. The length fields in the header are corrected and the
// file is closed. Calling Stop() when there is no capture in progress does
// nothing.
func (w *Writer) Stop() (rerr error) {
	if w.f == nil {
		return nil
	}

	f := w.f
	w.f = nil
	w.enc = nil

	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("capture: %v", err)
		}
	}()

	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], w.bytes+HeaderSize-8)
	if _, err := f.WriteAt(b[:], riffSizeOffset); err != nil {
		return curated.Errorf("capture: %v", err)
	}

	binary.LittleEndian.PutUint32(b[:], w.bytes)
	if _, err := f.WriteAt(b[:], dataSizeOffset); err != nil {
		return curated.Errorf("capture: %v", err)
	}

	logger.Logf(w.env, "capture", "finished writing %d bytes of audio to %s", w.bytes, w.filename)

	return nil
}
