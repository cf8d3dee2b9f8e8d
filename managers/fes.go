// vi: sw=4 ts=4:

/*

	Mnemonic:	fes
	Abstract:	The Future Event Set (spec §4.E): a 1-based binary heap ordered
				lexicographically by (arrivalTime, priority, insertion-order),
				augmented with a back-link on every event so cancelEvent can
				remove an arbitrary element in O(log n) rather than scanning.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package managers

import (
	"github.com/att/nsim/gizmos"
)

/*
	Event is anything the FES can hold: a message, or any other timed
	callback (spec §4.E: "the FES stores events, not just messages").
*/
type Event interface {
	ArrivalTime() float64
	Priority() int
}

// fes_slot pairs an event with its insertion-order counter, the stable
// FIFO tiebreaker (spec §4.E rule 3).
type fes_slot struct {
	ev    Event
	order int64
	index int // current position in the heap array; -1 once removed
}

/*
	Fes is the future event set itself. Not safe for concurrent use --
	per spec §5 it is touched only from the simulation thread.
*/
type Fes struct {
	heap     []*fes_slot
	byEvent  map[Event]*fes_slot
	nextOrder int64
}

func Mk_fes() *Fes {
	return &Fes{heap: make([]*fes_slot, 1, 64), byEvent: map[Event]*fes_slot{}} // index 0 unused (1-based heap)
}

func (f *Fes) Len() int { return len(f.heap) - 1 }

func less(a, b *fes_slot) bool {
	if a.ev.ArrivalTime() != b.ev.ArrivalTime() {
		return a.ev.ArrivalTime() < b.ev.ArrivalTime()
	}
	if a.ev.Priority() != b.ev.Priority() {
		return a.ev.Priority() < b.ev.Priority()
	}
	return a.order < b.order
}

func (f *Fes) swap(i, j int) {
	f.heap[i], f.heap[j] = f.heap[j], f.heap[i]
	f.heap[i].index = i
	f.heap[j].index = j
}

func (f *Fes) siftUp(i int) {
	for i > 1 {
		parent := i / 2
		if !less(f.heap[i], f.heap[parent]) {
			return
		}
		f.swap(i, parent)
		i = parent
	}
}

func (f *Fes) siftDown(i int) {
	n := len(f.heap) - 1
	for {
		l, r, smallest := 2*i, 2*i+1, i
		if l <= n && less(f.heap[l], f.heap[smallest]) {
			smallest = l
		}
		if r <= n && less(f.heap[r], f.heap[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		f.swap(i, smallest)
		i = smallest
	}
}

/*
	Insert adds ev to the FES, per spec §4.E: O(log n), assigns the next
	insertion-order counter. currentSimTime is supplied by the caller so
	the "arrivalTime >= currentSimTime" invariant can be asserted here
	rather than trusted blindly.
*/
func (f *Fes) Insert(ev Event, currentSimTime float64) error {
	if ev.ArrivalTime() < currentSimTime {
		return gizmos.New_error(gizmos.InternalError, "event arrival time %g is before current sim time %g", ev.ArrivalTime(), currentSimTime)
	}
	slot := &fes_slot{ev: ev, order: f.nextOrder}
	f.nextOrder++
	f.heap = append(f.heap, slot)
	slot.index = len(f.heap) - 1
	f.byEvent[ev] = slot
	f.siftUp(slot.index)
	return nil
}

/*
	PeekFirst returns the earliest-ordered event without removing it, or
	nil if the FES is empty (spec §4.E: O(1)).
*/
func (f *Fes) PeekFirst() Event {
	if len(f.heap) <= 1 {
		return nil
	}
	return f.heap[1].ev
}

/*
	RemoveFirst pops and returns the earliest-ordered event (spec §4.E:
	O(log n)). The caller is expected to advance simulation time to the
	returned event's arrival time (spec §4.E invariant).
*/
func (f *Fes) RemoveFirst() Event {
	if len(f.heap) <= 1 {
		return nil
	}
	top := f.heap[1]
	last := len(f.heap) - 1
	f.swap(1, last)
	f.heap = f.heap[:last]
	if len(f.heap) > 1 {
		f.siftDown(1)
	}
	delete(f.byEvent, top.ev)
	top.index = -1
	return top.ev
}

/*
	Remove deletes ev from the FES if present, needed for cancelEvent
	(spec §4.E). Safe (no-op) if ev is not currently scheduled.
*/
func (f *Fes) Remove(ev Event) bool {
	slot, ok := f.byEvent[ev]
	if !ok {
		return false
	}
	i := slot.index
	last := len(f.heap) - 1
	f.swap(i, last)
	f.heap = f.heap[:last]
	if i <= len(f.heap)-1 {
		f.siftDown(i)
		f.siftUp(i)
	}
	delete(f.byEvent, ev)
	slot.index = -1
	return true
}

func (f *Fes) Contains(ev Event) bool {
	_, ok := f.byEvent[ev]
	return ok
}

/*
	Clear empties the FES. Per spec §5's memory discipline, events still
	resident in the FES are owned by it; Clear deletes any that expose a
	Destroy method.
*/
func (f *Fes) Clear() {
	for _, slot := range f.heap[1:] {
		if d, ok := slot.ev.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
	f.heap = f.heap[:1]
	f.byEvent = map[Event]*fes_slot{}
}
