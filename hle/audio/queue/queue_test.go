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

package queue_test

import (
	"testing"

	"github.com/jetsetilly/hleaudio/hle/audio/queue"
	"github.com/jetsetilly/hleaudio/test"
)

func TestEmpty(t *testing.T) {
	q := queue.NewQueue(0)
	test.ExpectEquality(t, q.Capacity(), queue.DefaultCapacity)
	test.ExpectEquality(t, q.Size(), 0)

	a, b := q.PopSpans(10)
	test.ExpectEquality(t, len(a), 0)
	test.ExpectEquality(t, len(b), 0)

	_, ok := q.Pop()
	test.ExpectEquality(t, ok, false)
}

func TestPushPop(t *testing.T) {
	q := queue.NewQueue(8)
	for i := range 8 {
		test.ExpectEquality(t, q.Push(int16(i)), true)
	}
	test.ExpectEquality(t, q.Push(100), false)
	test.ExpectEquality(t, q.String(), "8/8")

	for i := range 8 {
		v, ok := q.Pop()
		test.ExpectEquality(t, ok, true)
		test.ExpectEquality(t, v, int16(i))
	}
	test.ExpectEquality(t, q.Size(), 0)
}

func TestWrapAround(t *testing.T) {
	q := queue.NewQueue(8)

	test.ExpectEquality(t, q.PushSamples([]int16{1, 2, 3, 4, 5, 6}), 6)
	a, b := q.PopSpans(4)
	test.ExpectEquality(t, len(a), 4)
	test.ExpectEquality(t, len(b), 0)

	// push of six samples starting at index 6 must wrap
	a, b = q.PushSpans(6)
	test.ExpectEquality(t, len(a), 2)
	test.ExpectEquality(t, len(b), 4)
	for i := range a {
		a[i] = int16(10 + i)
	}
	for i := range b {
		b[i] = int16(12 + i)
	}
	test.ExpectEquality(t, q.Size(), 8)

	// the pop also wraps. the first span is the remaining original data plus
	// the tail of the array
	a, b = q.PopSpans(8)
	test.ExpectEquality(t, len(a)+len(b), 8)
	expected := []int16{5, 6, 10, 11, 12, 13, 14, 15}
	got := append(append([]int16{}, a...), b...)
	for i := range expected {
		test.ExpectEquality(t, got[i], expected[i], i)
	}
}

func TestTruncatedPush(t *testing.T) {
	q := queue.NewQueue(8)
	test.ExpectEquality(t, q.PushSamples([]int16{1, 2, 3, 4, 5}), 5)
	test.ExpectEquality(t, q.PushSamples([]int16{6, 7, 8, 9, 10}), 3)
	test.ExpectEquality(t, q.Free(), 0)

	a, b := q.PushSpans(4)
	test.ExpectEquality(t, len(a), 0)
	test.ExpectEquality(t, len(b), 0)

	// unread data is never overwritten
	v, _ := q.Pop()
	test.ExpectEquality(t, v, int16(1))
}

func TestOverPop(t *testing.T) {
	q := queue.NewQueue(8)
	q.PushSamples([]int16{1, 2, 3})
	a, b := q.PopSpans(100)
	test.ExpectEquality(t, len(a), 3)
	test.ExpectEquality(t, len(b), 0)
	test.ExpectEquality(t, q.Size(), 0)

	a, b = q.PopSpans(-1)
	test.ExpectEquality(t, len(a), 0)
	test.ExpectEquality(t, len(b), 0)
}

func TestClear(t *testing.T) {
	q := queue.NewQueue(8)
	q.PushSamples([]int16{1, 2, 3})
	q.Clear()
	test.ExpectEquality(t, q.Size(), 0)
	test.ExpectEquality(t, q.Free(), 8)

	// a whole capacity push after a clear is a single span
	a, b := q.PushSpans(8)
	test.ExpectEquality(t, len(a), 8)
	test.ExpectEquality(t, len(b), 0)
}
