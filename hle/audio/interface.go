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
	"github.com/jetsetilly/hleaudio/hle/coretiming"
	"github.com/jetsetilly/hleaudio/hle/kernel"
)

// Timing defines the virtual clock functions used by the Engine.
// coretiming.Timing satisfies this interface.
type Timing interface {
	RegisterEvent(name string, callback coretiming.Callback) coretiming.EventType
	RestoreRegisterEvent(ev coretiming.EventType, name string, callback coretiming.Callback)
	ScheduleEvent(cyclesIntoFuture int64, ev coretiming.EventType, userdata uint64) error
	UnscheduleEvent(ev coretiming.EventType, userdata uint64) int64
	UsToCycles(us int64) int64
	RegisterMHzChangeCallback(f func())
}

// Memory defines the emulated memory functions used by the Engine.
// memory.Memory satisfies this interface.
type Memory interface {
	IsValidRange(address uint32, size uint32) bool
	Slice(address uint32, size uint32) []uint8
	Read16(address uint32) uint16
}

// Kernel defines the thread functions used by the Engine. kernel.Kernel
// satisfies this interface.
type Kernel interface {
	IsDispatchEnabled() bool
	CurrentThread() kernel.ThreadID
	WaitCurrentThread(waitType kernel.WaitType, waitID uint32, waitValue uint32, reason string) error
	WaitID(id kernel.ThreadID, waitType kernel.WaitType) (uint32, error)
	WaitValue(id kernel.ThreadID) (uint32, error)
	ResumeThreadFromWait(id kernel.ThreadID, returnValue uint32) error
	CancelWait(id kernel.ThreadID) error
	ReSchedule(reason string)
}

// Host is implemented by host audio sinks that need to be poked
// periodically. The UpdateSound() function is called from the emulation
// goroutine at regular intervals of emulated time.
type Host interface {
	UpdateSound()
}
