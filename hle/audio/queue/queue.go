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

package queue

import "fmt"

// DefaultCapacity is the number of int16 samples a queue can hold if no
// capacity is specified to NewQueue().
const DefaultCapacity = 8 * 32768

// Queue is a ring of int16 samples.
type Queue struct {
	data []int16

	// head is the index of the next sample to be popped. size is the number
	// of samples currently in the queue
	head int
	size int
}

// NewQueue is the preferred method of initialisation for the Queue type. A
// capacity of zero or less means DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		data: make([]int16, capacity),
	}
}

func (q *Queue) String() string {
	return fmt.Sprintf("%d/%d", q.size, len(q.data))
}

// Size returns the number of samples in the queue.
func (q *Queue) Size() int {
	return q.size
}

// Capacity returns the maximum number of samples the queue can hold.
func (q *Queue) Capacity() int {
	return len(q.data)
}

// Free returns the number of samples that can be pushed before the queue is
// full.
func (q *Queue) Free() int {
	return len(q.data) - q.size
}

// Clear removes all samples from the queue.
func (q *Queue) Clear() {
	q.head = 0
	q.size = 0
}

// spans returns the one or two spans covering n samples starting at index
func (q *Queue) spans(idx int, n int) ([]int16, []int16) {
	if n == 0 {
		return nil, nil
	}
	end := idx + n
	if end <= len(q.data) {
		return q.data[idx:end:end], nil
	}
	end -= len(q.data)
	return q.data[idx:], q.data[:end:end]
}

// PushSpans reserves space for n samples at the tail of the queue and
// returns the spans that should be filled by the caller. The samples are
// counted as being in the queue immediately.
//
// The queue never overwrites data that has not been popped. If n is larger
// than the free space then the push is truncated. The length of the spans
// indicates how many samples were reserved.
func (q *Queue) PushSpans(n int) ([]int16, []int16) {
	n = max(0, min(n, q.Free()))
	tail := (q.head + q.size) % len(q.data)
	q.size += n
	return q.spans(tail, n)
}

// Push a single sample to the tail of the queue. Returns false if the queue
// is full.
func (q *Queue) Push(s int16) bool {
	a, _ := q.PushSpans(1)
	if len(a) == 0 {
		return false
	}
	a[0] = s
	return true
}

// PushSamples copies samples into the queue. Returns the number of samples
// that were copied.
func (q *Queue) PushSamples(s []int16) int {
	a, b := q.PushSpans(len(s))
	n := copy(a, s)
	n += copy(b, s[n:])
	return n
}

// PopSpans removes up to n samples from the head of the queue and returns
// the spans containing them. The spans remain valid until the next push.
func (q *Queue) PopSpans(n int) ([]int16, []int16) {
	n = max(0, min(n, q.size))
	a, b := q.spans(q.head, n)
	q.head = (q.head + n) % len(q.data)
	q.size -= n
	if q.size == 0 {
		q.head = 0
	}
	return a, b
}

// Pop a single sample from the head of the queue. Returns false if the queue
// is empty.
func (q *Queue) Pop() (int16, bool) {
	a, _ := q.PopSpans(1)
	if len(a) == 0 {
		return 0, false
	}
	return a[0], true
}
