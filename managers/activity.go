// vi: sw=4 ts=4:

/*

	Mnemonic:	activity
	Abstract:	Coroutine-style module execution (spec §4.G.2): a single
				long-running function runs on its own goroutine and suspends
				at Receive/WaitFor; the kernel's dispatch loop and the
				activity goroutine hand control back and forth over a pair
				of unbuffered channels so exactly one of them ever touches
				simulation state at a time. Grounded on this package's own
				retired agent.go: the teacher ran one goroutine per agent
				connection, blocking in a read loop and handing each parsed
				message back to the manager over a channel -- the same
				goroutine-per-unit, channel-handshake shape, narrowed here to
				a strict ping-pong so the kernel stays single-threaded over
				sim state.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the agent connection handler into
					the simulation core's coroutine runtime.
*/

package managers

import (
	"github.com/att/nsim/gizmos"
)

/*
	Termination is the distinguished non-error condition raised inside an
	activity coroutine when its module is cancelled out from under it
	(spec §4.G: "cancellation of the module raises a distinguished
	terminated condition inside the coroutine, which must unwind via
	normal scoped cleanup"). It satisfies error only so user cleanup code
	written as `defer func() { if err := recover(); ... }` can inspect it
	uniformly; the scheduler never logs it as a fault.
*/
type Termination struct{}

func (Termination) Error() string { return "activity terminated" }

// cancelToken is delivered through resume in place of a real message to
// signal cancellation; receiveRaw recognizes it by identity and panics
// with Termination inside the coroutine's own goroutine so the user's
// deferred cleanup runs in the right stack. A bare zero-value pointer,
// never passed through Mk_message, so cancellation never perturbs the
// live-message counters metrics.go exposes.
var cancelToken = &gizmos.Message{}

/*
	Activity_handle is the coroutine's only window onto the kernel. It is
	passed to the user's Activity_func and must not be used from any
	goroutine other than the one it was created for.
*/
type Activity_handle struct {
	mod    *Module
	kernel *Kernel

	resume chan *gizmos.Message
	yield  chan struct{}

	pending    []*gizmos.Message
	terminated bool
}

func (h *Activity_handle) Module() *Module { return h.mod }
func (h *Activity_handle) Kernel() *Kernel { return h.kernel }

/*
	Receive blocks the calling coroutine until the next message addressed
	to its module arrives, yielding control back to the kernel's
	dispatch loop in the interim (spec §4.G.2 "coroutine modules suspend
	at receive and resume when an event for them is dispatched").
*/
func (h *Activity_handle) Receive() *gizmos.Message {
	if len(h.pending) > 0 {
		msg := h.pending[0]
		h.pending = h.pending[1:]
		return msg
	}
	return h.receiveRaw()
}

// receiveRaw suspends unconditionally, bypassing the pending queue. WaitFor
// uses this rather than Receive: a message requeued mid-wait must not be
// handed straight back out on the very next loop iteration, or the wait
// would livelock re-queuing the same message forever.
func (h *Activity_handle) receiveRaw() *gizmos.Message {
	h.yield <- struct{}{}
	msg := <-h.resume
	if msg == cancelToken {
		panic(Termination{})
	}
	return msg
}

/*
	WaitFor suspends the coroutine for delaySecs of simulation time,
	sending itself a private wakeup message via Send_direct and looping
	on receiveRaw until it comes back; any other message that arrives during the wait is queued
	(FIFO) and returned by the next ordinary Receive call, preserving
	arrival order (spec §4.G.2, the "coroutine wait" scenario -- a wait
	is only interruptible by the scheduled timeout, never by an
	unrelated arrival).
*/
func (h *Activity_handle) WaitFor(delaySecs float64) {
	token := gizmos.Mk_message(h.mod.Name()+"-wait", gizmos.KindSelfWakeup)
	defer token.Destroy()

	h.kernel.Send_direct(token, h.mod, delaySecs)

	for {
		msg := h.receiveRaw()
		if msg == token {
			return
		}
		h.pending = append(h.pending, msg)
	}
}

/*
	Terminated reports whether this handle's coroutine has already
	returned; a delivery arriving after termination is dropped rather
	than deadlocking the kernel.
*/
func (h *Activity_handle) Terminated() bool { return h.terminated }

// start_activity launches m's Activity_func on its own goroutine and
// blocks until it reaches its first suspend point, so the kernel never
// races ahead of a coroutine that hasn't started listening yet.
func start_activity(k *Kernel, m *Module) {
	h := &Activity_handle{
		mod:    m,
		kernel: k,
		resume: make(chan *gizmos.Message),
		yield:  make(chan struct{}),
	}
	m.activityH = h

	go func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(Termination); ok {
					eng_sheep.Baa(2, "activity %s cancelled", m.FullPath())
				} else {
					eng_sheep.Baa(1, "activity %s terminated on panic: %v", m.FullPath(), r)
				}
			}
			h.terminated = true
			h.yield <- struct{}{}
		}()
		m.activityFn(h)
	}()

	<-h.yield
}

// cancel_activity raises Termination inside m's coroutine and blocks
// until it has unwound (or was already terminated), the activity-style
// counterpart of Kernel.Delete_module's teardown of a handler-style
// module. A no-op if the coroutine never started or already exited.
func cancel_activity(m *Module) {
	h := m.activityH
	if h == nil || h.terminated {
		return
	}
	h.resume <- cancelToken
	<-h.yield
}

// deliver_to_activity hands msg to m's coroutine and blocks until it
// suspends again (or terminates), keeping the kernel's dispatch loop and
// every coroutine mutually exclusive over simulation state.
func deliver_to_activity(m *Module, msg *gizmos.Message) {
	h := m.activityH
	if h == nil || h.terminated {
		eng_sheep.Baa(2, "message %s delivered to terminated/unstarted activity %s, dropped", msg.Name(), m.FullPath())
		return
	}
	h.resume <- msg
	<-h.yield
}
