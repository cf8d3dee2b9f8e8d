// vi: sw=4 ts=4:

/*

	Mnemonic:	errors
	Abstract:	The structured error taxonomy used across the simulation core
				(spec §7). Every fault a module, the FES, or the scheduler can
				raise carries a stable Kind string so callers can test with
				errors.As rather than string matching, while still reading like
				an ordinary wrapped Go error at the call site.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stable error kinds, per spec §7's table. TerminationException is handled
// by managers.Termination instead -- it is not a fault and never appears here.
const (
	ParameterUnassigned = "ParameterUnassigned"
	UnitMismatch        = "UnitMismatch"
	CircularReference   = "CircularReference"
	GateMismatch        = "GateMismatch"
	GateStillConnected  = "GateStillConnected"
	AlreadyScheduled    = "AlreadyScheduled"
	InvalidDeletion     = "InvalidDeletion"
	ChannelBusy         = "ChannelBusy"
	StackOverflow       = "StackOverflow"
	InternalError       = "InternalError"
	ConfigKeyNotFound   = "ConfigKeyNotFound"
)

/*
	Kernel_error is the concrete error type for every fault raised by the
	core. kind is one of the constants above; err is the underlying error,
	wrapped via github.com/pkg/errors so a stack trace is retained (useful
	for InternalError/StackOverflow, which are bugs rather than expected
	conditions). Cause returns the original, unwrapped failure.
*/
type Kernel_error struct {
	kind string
	err  error
}

/*
	New_error builds a Kernel_error of the given kind with an fmt.Errorf-style
	message. This is the constructor every gizmos/managers fault path uses,
	mirroring the teacher's own Mk_pledge-style "(obj, err error)" idiom.
*/
func New_error(kind string, format string, args ...interface{}) *Kernel_error {
	return &Kernel_error{
		kind: kind,
		err:  errors.Wrap(fmt.Errorf(format, args...), kind),
	}
}

/*
	Wrap_error attaches a Kind to an existing error, preserving it as the
	cause so errors.Cause(e) still reaches the original failure.
*/
func Wrap_error(kind string, cause error) *Kernel_error {
	return &Kernel_error{kind: kind, err: errors.Wrap(cause, kind)}
}

func (e *Kernel_error) Error() string { return e.err.Error() }

func (e *Kernel_error) Kind() string { return e.kind }

func (e *Kernel_error) Unwrap() error { return e.err }

func (e *Kernel_error) Cause() error { return errors.Cause(e.err) }

/*
	Is_kind reports whether err is a Kernel_error of the given kind; the
	helper shape tests in this repo (and any user module) use to branch on
	the taxonomy in spec §7.
*/
func Is_kind(err error, kind string) bool {
	ke, ok := err.(*Kernel_error)
	if !ok {
		return false
	}
	return ke.kind == kind
}
