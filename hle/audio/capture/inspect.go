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
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/hleaudio/curated"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelReport contains statistics for one channel of a capture. Values are
// normalised to the range -1.0 to 1.0.
type ChannelReport struct {
	Peak   float64
	Mean   float64
	StdDev float64
	RMS    float64
}

// Report is the result of inspecting a capture file.
type Report struct {
	Filename   string
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   time.Duration

	// a capture is complete if the length fields in the header agree with the
	// amount of data in the file. an incomplete capture is still readable
	Complete bool

	Channel []ChannelReport
}

func (r Report) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %dHz %dbit %d channels\n", r.Filename, r.SampleRate, r.BitDepth, r.Channels))
	s.WriteString(fmt.Sprintf("%d frames (%v)", r.Frames, r.Duration.Round(time.Millisecond)))
	if !r.Complete {
		s.WriteString(" [incomplete]")
	}
	for i, c := range r.Channel {
		s.WriteString(fmt.Sprintf("\nch%d: peak %.4f rms %.4f mean %.4f stddev %.4f", i, c.Peak, c.RMS, c.Mean, c.StdDev))
	}
	return s.String()
}

// Inspect reads a WAV file and reports on its contents.
func Inspect(filename string) (Report, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Report{}, curated.Errorf("capture: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Report{}, curated.Errorf("capture: %s is not a valid wav file", filename)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Report{}, curated.Errorf("capture: %v", err)
	}

	r := Report{
		Filename:   filename,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	if r.Channels == 0 || r.SampleRate == 0 {
		return Report{}, curated.Errorf("capture: %s has no audio format", filename)
	}

	r.Frames = len(buf.Data) / r.Channels
	r.Duration = time.Duration(r.Frames) * time.Second / time.Duration(r.SampleRate)

	bytesPerSample := (r.BitDepth-1)/8 + 1
	r.Complete = dec.PCMSize == r.Frames*r.Channels*bytesPerSample

	scale := math.Pow(2, float64(r.BitDepth-1))

	r.Channel = make([]ChannelReport, r.Channels)
	ch := make([]float64, r.Frames)
	for c := range r.Channel {
		if r.Frames == 0 {
			continue
		}

		for i := range ch {
			ch[i] = float64(buf.Data[i*r.Channels+c]) / scale
		}

		r.Channel[c].Peak = math.Max(floats.Max(ch), -floats.Min(ch))
		r.Channel[c].Mean, r.Channel[c].StdDev = stat.MeanStdDev(ch, nil)
		r.Channel[c].RMS = math.Sqrt(floats.Dot(ch, ch) / float64(len(ch)))
	}

	return r, nil
}
