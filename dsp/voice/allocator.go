package voice

import (
	"container/heap"
	"fmt"
)

// Event is one note press or release with velocity.
type Event struct {
	Note     int
	Pressed  bool
	Velocity float64
}

// Events is the ordered collection of events arriving on one sample.
type Events []Event

type freeVoice struct {
	releaseBatch uint64
	index        int
}

// freeQueue orders free voices so the voice released longest ago is reused
// first. Voices that have never been used carry releaseBatch 0 and are
// always drained before any recently released voice.
type freeQueue []freeVoice

func (q freeQueue) Len() int { return len(q) }

func (q freeQueue) Less(i, j int) bool {
	if q[i].releaseBatch != q[j].releaseBatch {
		return q[i].releaseBatch < q[j].releaseBatch
	}

	return q[i].index < q[j].index
}

func (q freeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *freeQueue) Push(x any) { *q = append(*q, x.(freeVoice)) }

func (q *freeQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]

	return v
}

type usedVoice struct {
	note  int
	index int
}

// Allocator maps note identities to voice indices in a fixed pool.
// Every voice index appears in exactly one of the free queue and the
// used list at all times.
type Allocator struct {
	free freeQueue
	used []usedVoice
	size int
}

// NewAllocator constructs a pool of size voices, all free.
func NewAllocator(size int) (*Allocator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("voice: pool size must be > 0: %d", size)
	}

	a := &Allocator{
		free: make(freeQueue, size),
		used: make([]usedVoice, 0, size),
		size: size,
	}

	for i := range a.free {
		a.free[i] = freeVoice{index: i}
	}

	heap.Init(&a.free)

	return a, nil
}

// Size returns the pool size.
func (a *Allocator) Size() int { return a.size }

// Free returns the number of unallocated voices.
func (a *Allocator) Free() int { return len(a.free) }

// InUse returns the number of allocated voices.
func (a *Allocator) InUse() int { return len(a.used) }

// Allocate claims the free voice released longest ago for note. The second
// result is false when the pool is exhausted; callers drop the event and
// keep audio flowing for existing voices.
func (a *Allocator) Allocate(note int) (int, bool) {
	if len(a.free) == 0 {
		return 0, false
	}

	v := heap.Pop(&a.free).(freeVoice)
	a.used = append(a.used, usedVoice{note: note, index: v.index})

	return v.index, true
}

// Release frees every voice currently mapped to note, stamps each with
// batchIndex, and returns their indices so the caller can route note-off
// events to exactly those voices. Rapid retriggering can map several
// voices to one note; all of them are freed.
func (a *Allocator) Release(note int, batchIndex uint64) []int {
	var released []int

	kept := a.used[:0]

	for _, u := range a.used {
		if u.note != note {
			kept = append(kept, u)
			continue
		}

		heap.Push(&a.free, freeVoice{releaseBatch: batchIndex, index: u.index})
		released = append(released, u.index)
	}

	a.used = kept

	return released
}
