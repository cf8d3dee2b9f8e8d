// vi: sw=4 ts=4:

/*

	Mnemonic:	kernel
	Abstract:	The simulation kernel (spec §4.H): owns the module tree root,
				the Future Event Set, simulation time, and the main loop that
				pops the earliest event and dispatches it to its destination
				module. Grounded on the teacher's Network_mgr goroutine in
				this file's former life as network.go -- that goroutine held
				a `select{}` loop pulling *ipc.Chmsg off a channel and
				dispatching by msg type; the kernel's Run loop is the same
				shape with the FES standing in for the request channel and
				simulation time standing in for real time.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the network-graph manager into the
					simulation kernel main loop.
*/

package managers

import (
	"fmt"
	"sync/atomic"

	"github.com/att/gopkgs/ipc"

	"github.com/att/nsim/gizmos"
)

// Control request codes carried over Kernel.Ctl (spec §4.H's "external
// control channel"), mirroring the teacher's REQ_* constants dispatched
// in network.go's main select loop.
const (
	ReqPause  = iota // suspend the run loop until ReqResume or ReqStop arrives
	ReqResume        // release a ReqPause wait
	ReqStop          // end the run, same effect as Kernel.Stop()
	ReqInject        // Req_data is a *gizmos.Message to schedule at the current sim time
)

// Termination_reason classifies why Run stopped (spec §4.H, §4.I).
type Termination_reason int

const (
	Running Termination_reason = iota
	FinishedNormally                    // FES emptied
	FinishedByEventLimit                // hit the configured event-count limit
	FinishedByEndTime                   // reached sim-time-limit
	FinishedByCancel                    // endSimulation() called
	FinishedByError                     // a module's handler/activity returned/panicked with an error
)

func (r Termination_reason) String() string {
	switch r {
	case Running:
		return "running"
	case FinishedNormally:
		return "finished-normally"
	case FinishedByEventLimit:
		return "finished-by-event-limit"
	case FinishedByEndTime:
		return "finished-by-end-time"
	case FinishedByCancel:
		return "finished-by-cancel"
	case FinishedByError:
		return "finished-by-error"
	}
	return "unknown"
}

/*
	Run_limits bounds a run (spec §4.H): any zero/negative field is
	"unbounded."
*/
type Run_limits struct {
	EndTime    float64
	EventLimit int64
}

/*
	Kernel is the simulation engine. One Kernel drives exactly one run;
	the caller builds a fresh Kernel from the same config for repeat runs
	(spec §4.I "multiple runs in one process").
*/
type Kernel struct {
	root *Module
	fes  *Fes

	simTime  float64
	eventCnt int64
	reason   Termination_reason
	termErr  error

	state Run_state

	masterSeed int64

	nextModID int64
	nextRngID int64

	limits Run_limits

	// control channel: external callers (CLI, ui adapter) post requests
	// here rather than touching kernel state directly from another
	// goroutine, mirroring the teacher's nch *ipc.Chmsg convention.
	Ctl chan *ipc.Chmsg

	modsByID map[int]*Module

	sig *Signal_bus

	stop chan struct{}

	logger  *Event_logger
	metrics *Kernel_metrics

	currentTarget *Module // the module a dispatch is in progress for, if any
}

// Set_event_logger attaches el; every delivered event is appended to it.
func (k *Kernel) Set_event_logger(el *Event_logger) { k.logger = el }

// Set_metrics attaches a Prometheus collector bundle; Observe/Record_*
// are called once per delivered event.
func (k *Kernel) Set_metrics(m *Kernel_metrics) { k.metrics = m }

/*
	Mk_kernel allocates a kernel with the given master seed (spec §4.H,
	§8: "identical master seed plus identical config yields an identical
	event trace").
*/
func Mk_kernel(masterSeed int64) *Kernel {
	k := &Kernel{
		fes:        Mk_fes(),
		masterSeed: masterSeed,
		Ctl:        make(chan *ipc.Chmsg, 128),
		modsByID:   map[int]*Module{},
		stop:       make(chan struct{}),
	}
	k.sig = Mk_signal_bus()
	k.root = k.Mk_module("root", true)
	k.modsByID[k.root.ID()] = k.root
	return k
}

func (k *Kernel) Root() *Module { return k.root }

func (k *Kernel) next_module_id() int {
	id := int(atomic.AddInt64(&k.nextModID, 1))
	return id
}

func (k *Kernel) next_rng_id() int64 {
	return atomic.AddInt64(&k.nextRngID, 1)
}

func (k *Kernel) register_module(m *Module) {
	k.modsByID[m.ID()] = m
}

func (k *Kernel) Find_module(id int) *Module { return k.modsByID[id] }

func (k *Kernel) SimTime() float64           { return k.simTime }
func (k *Kernel) EventCount() int64          { return k.eventCnt }
func (k *Kernel) Reason() Termination_reason { return k.reason }
func (k *Kernel) Err() error                 { return k.termErr }
func (k *Kernel) Signals() *Signal_bus       { return k.sig }

func (k *Kernel) Set_limits(l Run_limits) { k.limits = l }

/*
	Schedule_at inserts msg into the FES to arrive at simTime (spec §4.D
	scheduleAt). Fails with InternalError if simTime is in the past, and
	with AlreadyScheduled if msg is still resident in the FES from an
	earlier, uncancelled schedule -- double-inserting the same message
	would orphan its first heap slot (Cancel_event/Remove would only ever
	find the newer one) and deliver it twice.
*/
func (k *Kernel) Schedule_at(msg *gizmos.Message, simTime float64) error {
	if msg.IsScheduled() {
		return gizmos.New_error(gizmos.AlreadyScheduled, "message %s is already scheduled", msg.Name())
	}
	msg.SetArrivalTime(simTime)
	if err := k.fes.Insert(msg, k.simTime); err != nil {
		return err
	}
	msg.SetScheduled(true)
	return nil
}

/*
	Cancel_event removes msg from the FES if it is still pending (spec
	§4.D cancelEvent). Returns false if msg had already been delivered or
	was never scheduled.
*/
func (k *Kernel) Cancel_event(msg *gizmos.Message) bool {
	ok := k.fes.Remove(Event(msg))
	if ok {
		msg.SetScheduled(false)
	}
	return ok
}

/*
	CancelAndDelete cancels msg if still scheduled and destroys it (spec
	§4.D cancelAndDelete): the two-step "take it out of the FES, then
	free it" combination collapsed into one call for the common case.
*/
func (k *Kernel) CancelAndDelete(msg *gizmos.Message) {
	k.Cancel_event(msg)
	msg.Destroy()
}

/*
	Delete_module recursively tears down m and every submodule, leaves
	first (spec §4.F "recursive delete of submodules (bottom-up), which
	disconnects their gates along the way"): an activity-style module's
	coroutine is cancelled (raising Termination so its own deferred
	cleanup runs), every gate is disconnected, and the module is dropped
	from both the id registry and its parent's submodule list. Deleting
	the module that is the current event's dispatch target fails with
	InvalidDeletion (spec §4.F) rather than corrupting the in-flight
	delivery.
*/
func (k *Kernel) Delete_module(m *Module) error {
	if m == k.currentTarget {
		return gizmos.New_error(gizmos.InvalidDeletion, "cannot delete module %s: it is the current event's target", m.FullPath())
	}

	for _, c := range append([]*Module(nil), m.submodules...) {
		if err := k.Delete_module(c); err != nil {
			return err
		}
	}

	if m.Is_activity_style() {
		cancel_activity(m)
	}
	m.Gates().DisconnectAll()
	k.sig.unsubscribe_all(m)

	delete(k.modsByID, m.ID())
	if parent, ok := m.Owner().(*Module); ok {
		parent.remove_submodule(m)
	}
	m.deleted = true
	return nil
}

/*
	Send delivers msg along the gate chain starting at srcGate (spec
	§4.D): walks Gate.Next across every intervening channel, adding each
	channel's propagation delay, and schedules arrival at the terminal
	gate's owning module. msg is a *gizmos.Message, never a
	*gizmos.Packet, so Channel.ProcessMessage is not reached: data-rate
	duration, the busy check, the error model and the Disabled flag are
	not applied on this path.
*/
func (k *Kernel) Send(msg *gizmos.Message, srcGate *gizmos.Gate) error {
	if srcGate == nil {
		return gizmos.New_error(gizmos.GateMismatch, "send: nil source gate")
	}
	g := srcGate
	arrival := k.simTime

	for {
		if g.Channel() != nil {
			pkt, isPacket := interface{}(msg).(*gizmos.Packet)
			var duration float64
			var discarded bool
			var err error
			if isPacket {
				var a float64
				a, duration, discarded, err = g.Channel().ProcessMessage(pkt, k.simTime)
				if err != nil {
					return err
				}
				arrival = a
			} else {
				arrival += g.Channel().PropDelay
			}
			_ = duration
			if discarded {
				eng_sheep.Baa(2, "message %s discarded in channel at gate %s", msg.Name(), g.FullPath())
				return nil
			}
		}
		nxt := g.Next()
		if nxt == nil {
			break
		}
		g = nxt
	}

	dest, ok := g.Owner().(*Module)
	if !ok {
		return gizmos.New_error(gizmos.InternalError, "send: terminal gate %s has no module owner", g.FullPath())
	}
	msg.SetArrival(dest.ID(), int(g.ID()))
	return k.Schedule_at(msg, arrival)
}

/*
	Send_direct delivers msg straight to destMod bypassing any gate chain
	(spec §4.D sendDirect), arriving delaySecs after the current sim
	time.
*/
func (k *Kernel) Send_direct(msg *gizmos.Message, destMod *Module, delaySecs float64) error {
	msg.SetArrival(destMod.ID(), -1)
	return k.Schedule_at(msg, k.simTime+delaySecs)
}

/*
	Build_init runs the multi-stage initialization pass over the whole
	module tree (spec §4.F): repeats stage N across every module in the
	tree (parents before their submodules, per the teacher's build()
	walking the endpoint list top-down) until every module's
	NumInitStages is exhausted.
*/
func (k *Kernel) Build_init() {
	maxStage := 0
	var walk func(m *Module)
	walk = func(m *Module) {
		if n := m.num_init_stages(); n > maxStage {
			maxStage = n
		}
		for _, c := range m.submodules {
			walk(c)
		}
	}
	walk(k.root)

	for stage := 0; stage < maxStage; stage++ {
		var initStage func(m *Module)
		initStage = func(m *Module) {
			if stage < m.num_init_stages() {
				m.init_stage(stage)
			}
			for _, c := range m.submodules {
				initStage(c)
			}
		}
		initStage(k.root)
	}

	var markDone func(m *Module)
	markDone = func(m *Module) {
		m.mark_initialized()
		for _, c := range m.submodules {
			markDone(c)
		}
	}
	markDone(k.root)
}

/*
	Run executes the main scheduler loop (spec §4.H): pop earliest event,
	advance sim time to its arrival time, dispatch to the owning module's
	handler or wake its activity coroutine, repeat until the FES empties
	or a Run_limits bound is hit.
*/
func (k *Kernel) Run() Termination_reason {
	k.reason = Running
	if k.metrics != nil {
		defer func() { k.metrics.Record_termination(k.reason) }()
	}
	for {
		select {
		case <-k.stop:
			k.reason = FinishedByCancel
			return k.reason
		case req := <-k.Ctl:
			if k.handle_ctl(req) {
				k.reason = FinishedByCancel
				return k.reason
			}
			continue
		default:
		}

		if k.limits.EventLimit > 0 && k.eventCnt >= k.limits.EventLimit {
			k.reason = FinishedByEventLimit
			return k.reason
		}

		ev := k.fes.PeekFirst()
		if ev == nil {
			k.reason = FinishedNormally
			return k.reason
		}
		if k.limits.EndTime > 0 && ev.ArrivalTime() > k.limits.EndTime {
			k.reason = FinishedByEndTime
			return k.reason
		}

		k.fes.RemoveFirst()
		k.simTime = ev.ArrivalTime()
		k.eventCnt++

		switch e := ev.(type) {
		case *gizmos.Message:
			e.SetScheduled(false)
			destModID, _ := e.Arrival()
			dest := k.Find_module(destModID)
			if dest == nil {
				eng_sheep.Baa(1, "event for unknown module-id %d dropped", destModID)
				continue
			}
			if k.logger != nil {
				k.logger.Log(k, dest, e)
			}
			if err := k.deliver(dest, e); err != nil {
				k.reason = FinishedByError
				k.termErr = err
				return k.reason
			}
			if k.metrics != nil {
				k.metrics.Record_event()
				k.metrics.Observe(k)
			}

		case *Tickler:
			if err := k.fire_tickler(e); err != nil {
				k.reason = FinishedByError
				k.termErr = err
				return k.reason
			}
		}
	}
}

func (k *Kernel) deliver(dest *Module, msg *gizmos.Message) (rerr error) {
	k.currentTarget = dest
	defer func() { k.currentTarget = nil }()

	defer func() {
		if r := recover(); r != nil {
			if ks, ok := r.(*gizmos.Kernel_error); ok {
				rerr = ks
				return
			}
			rerr = gizmos.New_error(gizmos.InternalError, "module %s panicked: %v", dest.FullPath(), r)
		}
	}()

	switch {
	case dest.Is_activity_style():
		deliver_to_activity(dest, msg)
	case dest.Is_handler_style():
		dest.handler.HandleMessage(dest, msg)
	default:
		eng_sheep.Baa(2, "message %s delivered to module %s with no behavior installed", msg.Name(), dest.FullPath())
	}
	return nil
}

/*
	Stop requests the run loop exit at the next iteration boundary (spec
	§4.H endSimulation()).
*/
func (k *Kernel) Stop() {
	select {
	case <-k.stop:
	default:
		close(k.stop)
	}
}

// handle_ctl processes one request off Ctl (CLI or ui adapter traffic,
// spec §5 "external GUI or telemetry... must marshal through an
// explicit queue"), answering it over Response_ch if the caller wants
// one, and reports whether Run should stop.
func (k *Kernel) handle_ctl(req *ipc.Chmsg) bool {
	stop := false
	switch req.Msg_type {
	case ReqPause:
		k.wait_paused()
	case ReqResume:
		// resume with nothing paused is a no-op; a resume that ends a
		// pause is consumed by wait_paused on this same run loop.
	case ReqStop:
		stop = true
	case ReqInject:
		if msg, ok := req.Req_data.(*gizmos.Message); ok {
			k.Schedule_at(msg, k.simTime)
		}
	}
	if req.Response_ch != nil {
		req.Response_ch <- req
	}
	return stop
}

// wait_paused blocks the run loop on Ctl alone until ReqResume or
// ReqStop arrives, the run-time effect of a ReqPause request.
func (k *Kernel) wait_paused() {
	for {
		req := <-k.Ctl
		switch req.Msg_type {
		case ReqResume:
			if req.Response_ch != nil {
				req.Response_ch <- req
			}
			return
		case ReqStop:
			k.Stop()
			if req.Response_ch != nil {
				req.Response_ch <- req
			}
			return
		default:
			if req.Response_ch != nil {
				req.Response_ch <- req
			}
		}
	}
}

/*
	Finish runs Behavior.Finish across the whole module tree, leaves
	first (spec §4.I: "finish() is called bottom-up so a parent's
	summary can read its children's final state"). No new subscriptions
	may be added during finish (resolves the Open Question recorded in
	the design ledger): Signal_bus.Subscribe rejects calls once
	k.sig.begin_finish has set the bus's finishing flag.
*/
func (k *Kernel) Finish() {
	k.sig.begin_finish()
	var walk func(m *Module)
	walk = func(m *Module) {
		for _, c := range m.submodules {
			walk(c)
		}
		m.run_finish()
	}
	walk(k.root)
	k.sig.end_finish()
}

/*
	Summary renders a one-line human-readable run summary, grounded on
	the teacher's to_json()-style small-report helpers.
*/
func (k *Kernel) Summary() string {
	return fmt.Sprintf("sim-time=%g events=%d reason=%s", k.simTime, k.eventCnt, k.reason)
}
