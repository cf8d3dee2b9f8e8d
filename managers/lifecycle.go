// vi: sw=4 ts=4:

/*

	Mnemonic:	lifecycle
	Abstract:	The kernel's run-state machine (spec §4.I): New -> Ready ->
				Running -> Terminated|ErrorState -> FinishCalled. Grounded on
				this package's own retired res_mgr.go: the teacher tracked a
				reservation's push-state (pending/pushed/error) and refused
				out-of-order transitions (can't re-push something already
				pushed); the same "small enum plus a guard on every
				transition" shape generalized from a reservation's push
				lifecycle to a whole run's lifecycle.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the reservation push-state machine
					into the simulation core's run lifecycle.
*/

package managers

import "github.com/att/nsim/gizmos"

/*
	Run_state is the kernel's position in its lifecycle (spec §4.I). A
	fresh Mk_kernel starts in New.
*/
type Run_state int

const (
	New Run_state = iota
	Ready
	RunningState
	Terminated
	ErrorState
	FinishCalled
)

func (s Run_state) String() string {
	switch s {
	case New:
		return "new"
	case Ready:
		return "ready"
	case RunningState:
		return "running"
	case Terminated:
		return "terminated"
	case ErrorState:
		return "error"
	case FinishCalled:
		return "finish-called"
	}
	return "unknown"
}

func (k *Kernel) State() Run_state { return k.state }

func bad_transition(from Run_state, op string) error {
	return gizmos.New_error(gizmos.InternalError, "cannot %s from lifecycle state %s", op, from)
}

/*
	Build moves New -> Ready: runs the multi-stage init pass over the
	module tree and starts every activity-style module's coroutine (spec
	§4.F, §4.G.2). Calling Build twice, or calling it after the module
	tree has already started running, is a lifecycle error.
*/
func (k *Kernel) Build() error {
	if k.state != New {
		return bad_transition(k.state, "build")
	}
	k.Build_init()
	k.start_activities()
	k.state = Ready
	return nil
}

/*
	Execute moves Ready -> Running -> {Terminated, ErrorState}: runs the
	main scheduler loop to completion and records why it stopped (spec
	§4.H, §4.I). Returns the termination reason and, if the run ended in
	ErrorState, the error that caused it.
*/
func (k *Kernel) Execute() (Termination_reason, error) {
	if k.state != Ready {
		return k.reason, bad_transition(k.state, "execute")
	}
	k.state = RunningState
	reason := k.Run()
	if reason == FinishedByError {
		k.state = ErrorState
		return reason, k.termErr
	}
	k.state = Terminated
	return reason, nil
}

/*
	Finalize moves {Terminated, ErrorState} -> FinishCalled: runs
	Behavior.Finish bottom-up across the module tree exactly once (spec
	§4.I). Finalizing twice, or finalizing a run that never executed, is
	a lifecycle error.
*/
func (k *Kernel) Finalize() error {
	if k.state != Terminated && k.state != ErrorState {
		return bad_transition(k.state, "finalize")
	}
	k.Finish()
	k.state = FinishCalled
	return nil
}

// start_activities launches every activity-style module's coroutine,
// depth first, parents before children (mirrors Build_init's walk order).
func (k *Kernel) start_activities() {
	var walk func(m *Module)
	walk = func(m *Module) {
		if m.Is_activity_style() {
			start_activity(k, m)
		}
		for _, c := range m.submodules {
			walk(c)
		}
	}
	walk(k.root)
}
