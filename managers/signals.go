// vi: sw=4 ts=4:

/*

	Mnemonic:	signals
	Abstract:	Signal emission/subscription (spec §4.J): a module emits a
				named signal carrying a value; any module in the emitting
				module's owner chain that subscribed to that name is
				notified, upward from the emitter toward the root. Grounded
				on this package's own retired events.go: the teacher kept a
				registered-listener table per topic and walked it calling
				each registered function on msgrtr dispatch -- the signal
				bus keeps that registration-table shape, with "topic" turned
				into "signal name" and "global listener" narrowed to "listener
				visible on the emitter's owner chain."
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the msgrtr event-listener table into
					the simulation core's signal bus.
*/

package managers

import "github.com/att/nsim/gizmos"

// Signal_listener is notified when a subscribed signal fires.
type Signal_listener func(source *Module, name string, value gizmos.Value)

/*
	Signal_bus tracks subscriptions keyed by signal name and fires
	them upward through the emitter's owner chain (spec §4.J: "ancestors
	of the emitting module may subscribe without the emitter needing to
	know about them").
*/
type Signal_bus struct {
	// subs[name] is the list of (subscriber, listener) pairs for that
	// signal name, across every module that ever subscribed to it.
	subs map[string][]subscription

	finishing bool
}

type subscription struct {
	subscriber *Module
	fn         Signal_listener
}

func Mk_signal_bus() *Signal_bus {
	return &Signal_bus{subs: map[string][]subscription{}}
}

/*
	Subscribe registers fn on sub for signal name. Rejected with
	InvalidDeletion once finish() has begun (resolves the re-entrancy
	Open Question recorded in the design ledger: finish must not grow the
	subscriber table while it is being walked).
*/
func (b *Signal_bus) Subscribe(sub *Module, name string, fn Signal_listener) error {
	if b.finishing {
		return gizmos.New_error(gizmos.InvalidDeletion, "cannot subscribe to %q while finish() is running", name)
	}
	b.subs[name] = append(b.subs[name], subscription{subscriber: sub, fn: fn})
	return nil
}

/*
	Unsubscribe removes every subscription sub holds on name.
*/
func (b *Signal_bus) Unsubscribe(sub *Module, name string) {
	list := b.subs[name]
	out := list[:0]
	for _, s := range list {
		if s.subscriber != sub {
			out = append(out, s)
		}
	}
	b.subs[name] = out
}

/*
	unsubscribe_all drops every subscription sub holds, across every
	signal name, called once when sub is deleted (spec §4.F teardown)
	so a dangling subscriber can never be notified after its module is
	gone.
*/
func (b *Signal_bus) unsubscribe_all(sub *Module) {
	for name := range b.subs {
		b.Unsubscribe(sub, name)
	}
}

/*
	Emit fires name with value from source, notifying every subscriber
	that lies on source's owner chain -- including source itself -- from
	source upward to the root (spec §4.J ordering: "nearest subscriber is
	notified first").
*/
func (b *Signal_bus) Emit(source *Module, name string, value gizmos.Value) {
	list := b.subs[name]
	if len(list) == 0 {
		return
	}

	for m := source; m != nil; {
		for _, s := range list {
			if s.subscriber == m {
				s.fn(source, name, value)
			}
		}
		owner, ok := m.Owner().(*Module)
		if !ok {
			break
		}
		m = owner
	}
}

func (b *Signal_bus) begin_finish() { b.finishing = true }
func (b *Signal_bus) end_finish()   { b.finishing = false }
