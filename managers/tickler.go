// vi: sw=4 ts=4:

/*

	Mnemonic:	tickler
	Abstract:	Periodic/delayed self-message primitive (spec §4.D, §4.J
				timer support). Grounded directly on the teacher's own
				tickler usage in this package's retired network.go, e.g.
				`tklr.Add_spot(2, nch, REQ_CHOSTLIST, nil, 1)` to fire once
				shortly after start and `tklr.Add_spot(cfg.refresh, nch,
				REQ_NETUPDATE, nil, ipc.FOREVER)` to fire forever thereafter
				-- Add_spot here keeps that exact (first-delay, period,
				repeat-count) shape, re-expressed against the FES instead of
				a real-time channel.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the real-time tickler spot into a
					simulation-time FES entry.
*/

package managers

import "github.com/att/nsim/gizmos"

// Forever marks a tickler that re-arms indefinitely, mirroring the
// teacher's ipc.FOREVER repeat count.
const Forever int64 = -1

/*
	Tickler is an FES entry that, on firing, delivers a self-message of
	kind to its module and then re-arms itself every period seconds,
	Count times (or forever). It implements Event directly so the FES
	treats it exactly like any other scheduled item.
*/
type Tickler struct {
	mod    *Module
	kind   gizmos.Kind
	period float64

	remaining int64 // Forever, or a positive count of firings left
	arrival   float64
	priority  int
}

func (t *Tickler) ArrivalTime() float64 { return t.arrival }
func (t *Tickler) Priority() int        { return t.priority }

/*
	Add_spot schedules mod to receive a self-message of kind firstDelay
	seconds from now, then every period seconds thereafter, count times
	(Forever for unbounded, 1 for a single shot). Matches the teacher's
	Add_spot(delay, chan, msgtype, data, count) signature with the
	real-time channel replaced by simulation scheduling.
*/
func (k *Kernel) Add_spot(mod *Module, firstDelay float64, kind gizmos.Kind, period float64, count int64) *Tickler {
	t := &Tickler{
		mod:       mod,
		kind:      kind,
		period:    period,
		remaining: count,
		arrival:   k.simTime + firstDelay,
		priority:  -1, // ticklers run ahead of ordinary zero-priority events at the same instant
	}
	k.fes.Insert(t, k.simTime)
	return t
}

// Cancel_spot removes a tickler from the FES before it next fires; a no-op if
// it already fired for the last time.
func (k *Kernel) Cancel_spot(t *Tickler) bool {
	return k.fes.Remove(Event(t))
}

// fire_tickler delivers one self-message for t and, if it has firings
// left, re-inserts it at the next period boundary.
func (k *Kernel) fire_tickler(t *Tickler) error {
	msg := gizmos.Mk_message(t.mod.Name()+"-tick", t.kind)
	msg.SetArrival(t.mod.ID(), -1)
	msg.SetArrivalTime(k.simTime)

	if err := k.deliver(t.mod, msg); err != nil {
		return err
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining != 0 {
		t.arrival = k.simTime + t.period
		k.fes.Insert(t, k.simTime)
	}
	return nil
}
