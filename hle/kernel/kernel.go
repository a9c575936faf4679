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

package kernel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/hleaudio/curated"
	"github.com/jetsetilly/hleaudio/logger"
)

// ThreadID identifies a thread. The zero value is not a valid thread.
type ThreadID int

// NoThread is the ThreadID used when no thread is current.
const NoThread = ThreadID(0)

// WaitType is the reason a thread is waiting.
type WaitType int

// List of valid WaitType values.
const (
	WaitNone WaitType = iota
	WaitAudioChannel
	WaitDelay
)

func (w WaitType) String() string {
	switch w {
	case WaitNone:
		return "none"
	case WaitAudioChannel:
		return "audio channel"
	case WaitDelay:
		return "delay"
	}
	return "unknown"
}

// Status of a thread.
type Status int

// List of valid Status values.
const (
	Ready Status = iota
	Running
	Waiting
	Dormant
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Waiting:
		return "waiting"
	case Dormant:
		return "dormant"
	}
	return "unknown"
}

// Result codes delivered to threads by the kernel itself.
const (
	// ErrorWaitCancel is the return value of a thread whose wait was cancelled
	ErrorWaitCancel uint32 = 0x800201a9
)

// Sentinal errors.
const (
	UnknownThread = "kernel: unknown thread (%d)"
	NotWaiting    = "kernel: thread %d is not waiting for %v"
	NoCurrent     = "kernel: no current thread"
)

// Entry is the function run by a thread. It is called once for every call to
// RunReady() in which the thread is ready. The thread is marked as dormant if
// the function returns false.
type Entry func(th *Thread) bool

// Thread is a single emulated thread.
type Thread struct {
	ID   ThreadID
	Name string

	status Status
	entry  Entry

	waitType    WaitType
	waitID      uint32
	waitValue   uint32
	waitReason  string
	returnValue uint32
}

func (th *Thread) String() string {
	if th.status == Waiting {
		return fmt.Sprintf("%d %s: %s (%v %d: %s)", th.ID, th.Name, th.status, th.waitType, th.waitID, th.waitReason)
	}
	return fmt.Sprintf("%d %s: %s", th.ID, th.Name, th.status)
}

// Status returns the current status of the thread.
func (th *Thread) Status() Status {
	return th.status
}

// ReturnValue is the value the thread was resumed with after its most recent
// wait.
func (th *Thread) ReturnValue() uint32 {
	return th.returnValue
}

// Kernel is the thread manager.
type Kernel struct {
	env logger.Permission

	threads map[ThreadID]*Thread
	nextID  ThreadID
	current ThreadID

	dispatch bool

	// count of calls to ReSchedule() and the most recent reason
	reschedules    int
	rescheduleWhy  string
	rescheduleWant bool
}

// NewKernel is the preferred method of initialisation for the Kernel type.
func NewKernel(env logger.Permission) *Kernel {
	return &Kernel{
		env:      env,
		threads:  make(map[ThreadID]*Thread),
		nextID:   1,
		dispatch: true,
	}
}

func (k *Kernel) String() string {
	s := strings.Builder{}
	for _, th := range k.sorted() {
		s.WriteString(th.String())
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (k *Kernel) sorted() []*Thread {
	l := make([]*Thread, 0, len(k.threads))
	for _, th := range k.threads {
		l = append(l, th)
	}
	sort.Slice(l, func(i, j int) bool { return l[i].ID < l[j].ID })
	return l
}

// CreateThread adds a new thread in the ready state.
func (k *Kernel) CreateThread(name string, entry Entry) ThreadID {
	th := &Thread{
		ID:     k.nextID,
		Name:   name,
		entry:  entry,
		status: Ready,
	}
	k.threads[th.ID] = th
	k.nextID++
	return th.ID
}

// DeleteThread removes a thread. If the thread is current then there will be
// no current thread.
func (k *Kernel) DeleteThread(id ThreadID) error {
	if _, ok := k.threads[id]; !ok {
		return curated.Errorf(UnknownThread, id)
	}
	delete(k.threads, id)
	if k.current == id {
		k.current = NoThread
	}
	return nil
}

// Thread returns the thread with the ID.
func (k *Kernel) Thread(id ThreadID) (*Thread, bool) {
	th, ok := k.threads[id]
	return th, ok
}

// CurrentThread returns the ID of the current thread. Returns NoThread if no
// thread is running.
func (k *Kernel) CurrentThread() ThreadID {
	return k.current
}

// SetCurrentThread changes the current thread. Mostly useful for testing.
func (k *Kernel) SetCurrentThread(id ThreadID) {
	k.current = id
}

// IsDispatchEnabled returns false if thread switching is currently disabled.
// A thread cannot wait if dispatch is disabled.
func (k *Kernel) IsDispatchEnabled() bool {
	return k.dispatch
}

// SetDispatchEnabled enables or disables thread switching.
func (k *Kernel) SetDispatchEnabled(enabled bool) {
	k.dispatch = enabled
}

// WaitCurrentThread puts the current thread into the waiting state. The wait
// value is remembered and can be retrieved with WaitValue(). It is often used
// as the value the thread is resumed with.
func (k *Kernel) WaitCurrentThread(waitType WaitType, waitID uint32, waitValue uint32, reason string) error {
	th, ok := k.threads[k.current]
	if !ok {
		return curated.Errorf(NoCurrent)
	}
	th.status = Waiting
	th.waitType = waitType
	th.waitID = waitID
	th.waitValue = waitValue
	th.waitReason = reason
	return nil
}

// WaitID returns the wait ID of the thread if it is waiting for the wait
// type. Returns zero if it is not waiting for that type.
func (k *Kernel) WaitID(id ThreadID, waitType WaitType) (uint32, error) {
	th, ok := k.threads[id]
	if !ok {
		return 0, curated.Errorf(UnknownThread, id)
	}
	if th.status != Waiting || th.waitType != waitType {
		return 0, nil
	}
	return th.waitID, nil
}

// WaitValue returns the wait value of a waiting thread.
func (k *Kernel) WaitValue(id ThreadID) (uint32, error) {
	th, ok := k.threads[id]
	if !ok {
		return 0, curated.Errorf(UnknownThread, id)
	}
	return th.waitValue, nil
}

// IsWaiting returns true if the thread is waiting for the wait type.
func (k *Kernel) IsWaiting(id ThreadID, waitType WaitType) bool {
	th, ok := k.threads[id]
	return ok && th.status == Waiting && th.waitType == waitType
}

// ReturnValue returns the value the thread was resumed with.
func (k *Kernel) ReturnValue(id ThreadID) uint32 {
	if th, ok := k.threads[id]; ok {
		return th.returnValue
	}
	return 0
}

func (k *Kernel) endWait(th *Thread, returnValue uint32) {
	th.status = Ready
	th.waitType = WaitNone
	th.waitID = 0
	th.waitReason = ""
	th.returnValue = returnValue
}

// ResumeThreadFromWait ends the wait of a waiting thread. The thread will be
// run again by the next call to RunReady().
func (k *Kernel) ResumeThreadFromWait(id ThreadID, returnValue uint32) error {
	th, ok := k.threads[id]
	if !ok {
		return curated.Errorf(UnknownThread, id)
	}
	if th.status != Waiting {
		return curated.Errorf(NotWaiting, id, th.waitType)
	}
	k.endWait(th, returnValue)
	return nil
}

// CancelWait ends the wait of a waiting thread with the ErrorWaitCancel
// return value. Other parts of the emulation that are tracking the wait will
// see a wait ID of zero and should stop tracking it.
func (k *Kernel) CancelWait(id ThreadID) error {
	th, ok := k.threads[id]
	if !ok {
		return curated.Errorf(UnknownThread, id)
	}
	if th.status != Waiting {
		return nil
	}
	logger.Logf(k.env, "kernel", "wait cancelled for thread %d (%s)", id, th.waitReason)
	k.endWait(th, ErrorWaitCancel)
	return nil
}

// ReSchedule is a request that other threads be given a chance to run. In
// this kernel the request is noted and honoured by RunReady().
func (k *Kernel) ReSchedule(reason string) {
	k.reschedules++
	k.rescheduleWhy = reason
	k.rescheduleWant = true
}

// Reschedules returns the number of times ReSchedule() has been called and
// the most recent reason.
func (k *Kernel) Reschedules() (int, string) {
	return k.reschedules, k.rescheduleWhy
}

// RunReady runs every thread in the ready state, in ID order. Returns the
// number of threads that were run. A thread is run at most once per call.
//
// If a thread causes a reschedule then threads that became ready as a result
// are run in the same call.
func (k *Kernel) RunReady() int {
	ran := make(map[ThreadID]bool)
	k.rescheduleWant = true
	for k.rescheduleWant {
		k.rescheduleWant = false
		for _, th := range k.sorted() {
			if ran[th.ID] || th.status != Ready || th.entry == nil {
				continue
			}
			ran[th.ID] = true
			th.status = Running
			k.current = th.ID
			cont := th.entry(th)
			k.current = NoThread
			if th.status == Running {
				if cont {
					th.status = Ready
				} else {
					th.status = Dormant
				}
			}
		}
	}
	return len(ran)
}

// Reset removes all threads.
func (k *Kernel) Reset() {
	clear(k.threads)
	k.current = NoThread
	k.nextID = 1
	k.dispatch = true
	k.reschedules = 0
	k.rescheduleWhy = ""
}
