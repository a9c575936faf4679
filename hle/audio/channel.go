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

package audio

import (
	"fmt"

	"github.com/jetsetilly/hleaudio/hle/audio/format"
	"github.com/jetsetilly/hleaudio/hle/audio/queue"
	"github.com/jetsetilly/hleaudio/hle/kernel"
)

// Number of game channels. The secondary channel is in addition to these.
const GameChannels = 8

// SRCChannel is the index of the secondary channel. It is the only channel
// that can be resampled and it reports the sample count of a drain-only
// output.
const SRCChannel = GameChannels

// ChannelCount is the total number of channels, including the secondary
// channel.
const ChannelCount = GameChannels + 1

// Limits of the sample count of a channel. The sample count must also be a
// multiple of SampleAlign.
const (
	SampleMin   = 64
	SampleMax   = 65472
	SampleAlign = 64
)

// Format is the layout of samples in emulated memory.
type Format int

// List of valid Format values.
const (
	Stereo Format = 0x00
	Mono   Format = 0x10
)

func (f Format) String() string {
	switch f {
	case Stereo:
		return "stereo"
	case Mono:
		return "mono"
	}
	return "unknown"
}

// samplesPerFrame returns the number of samples in emulated memory for each
// frame
func (f Format) samplesPerFrame() int {
	if f == Mono {
		return 1
	}
	return 2
}

// Waiter is a thread that is waiting for a channel's queue to drain.
type Waiter struct {
	Thread kernel.ThreadID

	// the thread is resumed once this many frames have been drained
	FramesRemaining int
}

// Channel is a single audio channel.
type Channel struct {
	Index int

	Reserved bool

	// address of the next block of samples. an address of zero means that an
	// output only waits for the queue to drain
	SampleAddress uint32

	// number of frames in each output
	SampleCount int

	Format Format

	// volumes are in the range 0 to format.MaxVolume. format.FullVolume
	// means samples are unchanged
	LeftVolume  int
	RightVolume int

	// threads waiting on the queue in the order they started waiting
	Waiting []Waiter

	queue *queue.Queue

	// true while the channel is underrunning. used to limit log entries to
	// one per underrun
	underrun bool
}

func newChannel(idx int) *Channel {
	c := &Channel{
		Index: idx,
		queue: queue.NewQueue(queue.DefaultCapacity),
	}
	c.clear()
	return c
}

func (c *Channel) String() string {
	if !c.Reserved {
		return fmt.Sprintf("%d: free", c.Index)
	}
	return fmt.Sprintf("%d: %s %d frames @ %#08x vol %#x/%#x queue %d frames, %d waiting",
		c.Index, c.Format, c.SampleCount, c.SampleAddress, c.LeftVolume, c.RightVolume,
		c.queue.Size()/2, len(c.Waiting))
}

// clear the channel to its unreserved state. waiting threads are forgotten.
func (c *Channel) clear() {
	c.Reserved = false
	c.SampleAddress = 0
	c.SampleCount = 0
	c.Format = Stereo
	c.LeftVolume = format.FullVolume
	c.RightVolume = format.FullVolume
	c.Waiting = c.Waiting[:0]
	c.underrun = false
	c.queue.Clear()
}

// Queued returns the number of frames in the channel's queue.
func (c *Channel) Queued() int {
	return c.queue.Size() / 2
}
