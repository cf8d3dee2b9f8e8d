// vi: sw=4 ts=4:

/*

	Mnemonic:	param
	Abstract:	Typed parameters attached to a module or channel (spec §3, §4.B):
				bool, integer, double-with-unit, string, xml-element-reference,
				or object-reference. A parameter is unassigned, assigned-constant,
				or assigned-expression (lazy unless mutable=false, in which case
				the first evaluated value is memoized).
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

import (
	"fmt"

	"github.com/att/gopkgs/clike"
)

// Value kinds, per spec §3's parameter type list.
type VKind int

const (
	VBool VKind = iota
	VInt
	VDouble
	VString
	VXML
	VObject
)

/*
	Value is the tagged union every Parameter read produces. Only the
	field matching Kind is meaningful; Unit is only set for VDouble.
*/
type Value struct {
	Kind VKind
	B    bool
	I    int64
	D    float64
	S    string
	Unit *string // interned, per units.go; nil means dimensionless
	X    interface{}
}

func (v Value) AsBool() bool {
	switch v.Kind {
	case VBool:
		return v.B
	case VInt:
		return v.I != 0
	case VDouble:
		return v.D != 0
	case VString:
		return v.S != ""
	}
	return false
}

func (v Value) AsDouble() float64 {
	switch v.Kind {
	case VInt:
		return float64(v.I)
	case VDouble:
		return v.D
	case VBool:
		if v.B {
			return 1
		}
		return 0
	case VString:
		return float64(clike.Atoi64(v.S))
	}
	return 0
}

func (v Value) AsInt() int64 {
	switch v.Kind {
	case VInt:
		return v.I
	case VDouble:
		return int64(v.D)
	case VBool:
		if v.B {
			return 1
		}
		return 0
	case VString:
		return clike.Atoi64(v.S)
	}
	return 0
}

func (v Value) AsString() string {
	switch v.Kind {
	case VString:
		return v.S
	case VBool:
		if v.B {
			return "true"
		}
		return "false"
	case VInt:
		return fmt.Sprintf("%d", v.I)
	case VDouble:
		if v.Unit != nil {
			return fmt.Sprintf("%g%s", v.D, *v.Unit)
		}
		return fmt.Sprintf("%g", v.D)
	}
	return fmt.Sprintf("%v", v.X)
}

// assignment state of a Parameter.
type param_state int

const (
	pUnassigned param_state = iota
	pConstant
	pExpression
)

/*
	Parameter is one typed, possibly-lazy value attached to a Module or
	Channel. Mutable=false expressions are memoized on first read;
	mutable=true (the default) ones re-evaluate every read.
*/
type Parameter struct {
	Base
	kind    VKind
	state   param_state
	value   Value
	expr    *Expr
	mutable bool
	memoed  bool
	memo    Value
	ctx     Expr_context // the owning module/channel, used to resolve sibling refs
}

/*
	Mk_parameter constructs an unassigned parameter of the given kind,
	named per spec §4.B. No Expr_context is installed: until Bind_context
	supplies the owning component (during the build/finalizeParameters
	phase, §4.F), evaluating an expression-valued parameter fails.
*/
func Mk_parameter(name string, kind VKind) *Parameter {
	p := &Parameter{kind: kind, mutable: true}
	p.name = name
	return p
}

/*
	Bind_context attaches the owning component (module/channel) as the
	expression-evaluation context, so sibling/ancestor parameter
	references and RNG functions resolve against the right scope.
*/
func (p *Parameter) Bind_context(ctx Expr_context) { p.ctx = ctx }

/*
	Set_const assigns a constant value, clearing any previous expression.
*/
func (p *Parameter) Set_const(v Value) {
	p.state = pConstant
	p.value = v
	p.memoed = false
}

/*
	Set_expr assigns a lazily-evaluated expression. mutable=false pins the
	first evaluated value (spec §4.B); mutable=true (default) re-evaluates
	on every ReadPar.
*/
func (p *Parameter) Set_expr(e *Expr, mutable bool) {
	p.state = pExpression
	p.expr = e
	p.mutable = mutable
	p.memoed = false
}

/*
	ReadPar returns the parameter's current value. Reading an unassigned
	parameter fails with ParameterUnassigned (spec §4.B); the caller
	(typically the lifecycle layer, §4.I) may resolve interactively or
	report and abort.
*/
func (p *Parameter) ReadPar() (Value, error) {
	switch p.state {
	case pUnassigned:
		return Value{}, New_error(ParameterUnassigned, "parameter %q has no value and no default", p.FullPath())

	case pConstant:
		return p.value, nil

	case pExpression:
		if !p.mutable && p.memoed {
			return p.memo, nil
		}
		v, err := p.evalWith(p.ctx, map[string]bool{})
		if err != nil {
			return Value{}, err
		}
		if !p.mutable {
			p.memo = v
			p.memoed = true
		}
		return v, nil
	}
	return Value{}, New_error(InternalError, "parameter %q in unknown state", p.FullPath())
}

// evalWith is Expr.Eval with a caller-supplied seen-set, so a reference
// chain through several parameters can detect a cycle (§4.B CircularReference).
func (p *Parameter) evalWith(ctx Expr_context, seen map[string]bool) (Value, error) {
	if p.state != pExpression {
		return p.ReadPar()
	}
	if ctx == nil {
		return Value{}, New_error(InternalError, "parameter %q has no evaluation context bound", p.FullPath())
	}
	return p.expr.eval(ctx, seen)
}

func (p *Parameter) Is_assigned() bool { return p.state != pUnassigned }
