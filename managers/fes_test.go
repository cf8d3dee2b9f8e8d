// vi: sw=4 ts=4:

package managers

import (
	"testing"

	"github.com/att/nsim/gizmos"
)

func mkmsg(t *testing.T, name string, arrival float64, prio int) *gizmos.Message {
	t.Helper()
	m := gizmos.Mk_message(name, 0)
	m.SetArrivalTime(arrival)
	m.SetPriority(prio)
	return m
}

func TestFesOrdersByArrivalTime(t *testing.T) {
	f := Mk_fes()
	m1 := mkmsg(t, "m1", 5, 0)
	m2 := mkmsg(t, "m2", 1, 0)
	m3 := mkmsg(t, "m3", 3, 0)
	f.Insert(m1, 0)
	f.Insert(m2, 0)
	f.Insert(m3, 0)

	if f.RemoveFirst() != Event(m2) {
		t.Fatalf("expected m2 first")
	}
	if f.RemoveFirst() != Event(m3) {
		t.Fatalf("expected m3 second")
	}
	if f.RemoveFirst() != Event(m1) {
		t.Fatalf("expected m1 third")
	}
}

func TestFesFifoTiebreak(t *testing.T) {
	f := Mk_fes()
	m1 := mkmsg(t, "m1", 5, 0)
	m2 := mkmsg(t, "m2", 5, 0)
	m3 := mkmsg(t, "m3", 5, 0)
	f.Insert(m1, 0)
	f.Insert(m2, 0)
	f.Insert(m3, 0)

	got := []Event{f.RemoveFirst(), f.RemoveFirst(), f.RemoveFirst()}
	want := []Event{m1, m2, m3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestFesPriorityTiebreak(t *testing.T) {
	f := Mk_fes()
	mLo := mkmsg(t, "lo", 5, 10)
	mHi := mkmsg(t, "hi", 5, 0)
	f.Insert(mLo, 0)
	f.Insert(mHi, 0)

	if f.RemoveFirst() != Event(mHi) {
		t.Fatalf("expected high-priority (low number) message first")
	}
}

func TestFesCancelRemovesArbitraryEvent(t *testing.T) {
	f := Mk_fes()
	m1 := mkmsg(t, "m1", 1, 0)
	m2 := mkmsg(t, "m2", 2, 0)
	m3 := mkmsg(t, "m3", 3, 0)
	f.Insert(m1, 0)
	f.Insert(m2, 0)
	f.Insert(m3, 0)

	if !f.Remove(m2) {
		t.Fatalf("expected Remove(m2) to succeed")
	}
	if f.Remove(m2) {
		t.Fatalf("expected second Remove(m2) to be a no-op returning false")
	}

	got := []Event{f.RemoveFirst(), f.RemoveFirst()}
	if got[0] != Event(m1) || got[1] != Event(m3) {
		t.Fatalf("expected m1,m3 remaining in order, got %v", got)
	}
}

func TestFesInsertBeforeCurrentTimeFails(t *testing.T) {
	f := Mk_fes()
	m := mkmsg(t, "m", 1, 0)
	if err := f.Insert(m, 5); err == nil {
		t.Fatalf("expected error inserting an event before current sim time")
	}
}

func TestFesPeekDoesNotRemove(t *testing.T) {
	f := Mk_fes()
	m := mkmsg(t, "m", 1, 0)
	f.Insert(m, 0)
	if f.PeekFirst() != Event(m) {
		t.Fatalf("expected peek to return m")
	}
	if f.Len() != 1 {
		t.Fatalf("expected peek to leave the FES untouched, len=%d", f.Len())
	}
}
