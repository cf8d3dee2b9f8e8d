// vi: sw=4 ts=4:

/*

	Mnemonic:	module
	Abstract:	Module/compound-module tree: gate tables, parameter table,
				submodule list, multi-stage init/finish, module-id registry
				(spec §3 "Module", §4.F). Grounded on this package's own
				retired network.go: the teacher's Network_mgr goroutine built
				"act_net" from a config and an endpoint list via build()
				before entering its event loop -- the same shape generalized
				from "build a network graph from openstack/config data" to
				"build a module tree from a config and a type factory."
	Date:		24 November 2013
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the network-graph builder into the
					simulation core's module tree.
*/

package managers

import (
	"math/rand"

	"github.com/att/nsim/gizmos"
)

/*
	Behavior is the user-code contract a simple module implements.
	NumInitStages defaults to 1 via Base_behavior; modules needing more
	stages (spec §4.F: "a module may send in stage 0, requiring channels
	to have completed stage 0 first") embed Base_behavior and override it.
*/
type Behavior interface {
	NumInitStages() int
	InitStage(self *Module, stage int)
	Finish(self *Module)
}

/*
	Base_behavior gives every Behavior a single-stage init and a no-op
	finish for free; embed it and override only what's needed.
*/
type Base_behavior struct{}

func (Base_behavior) NumInitStages() int                { return 1 }
func (Base_behavior) InitStage(self *Module, stage int) {}
func (Base_behavior) Finish(self *Module)               {}

/*
	Handler is the event-handler execution style (spec §4.G.1): the
	scheduler invokes HandleMessage synchronously for every event
	addressed to the module.
*/
type Handler interface {
	Behavior
	HandleMessage(self *Module, msg *gizmos.Message)
}

/*
	Activity_func is the coroutine-style execution style (spec §4.G.2): a
	single long-running function given a handle it blocks on at Receive/
	WaitFor. It executes on its own goroutine, managed by activity.go.
*/
type Activity_func func(h *Activity_handle)

/*
	Module is either simple (a leaf running user Behavior) or compound (a
	container of submodules with internal connections). Fields follow
	spec §3's Module field list.
*/
type Module struct {
	gizmos.Soft_owner

	id int // module-id: unique, stable from creation until deletion (spec §8)

	gates  *gizmos.Gate_table
	params map[string]*gizmos.Parameter

	compound   bool
	submodules []*Module // insertion order preserved (spec §3)

	behavior   Behavior
	handler    Handler
	activityFn Activity_func
	activityH  *Activity_handle

	built       bool
	initialized bool
	deleted     bool

	rngID      int64
	masterSeed int64
	rng        *rand.Rand

	displayString string
}

/*
	Mk_module allocates a module object and assigns its unique module-id;
	it is the first half of the network factory's step 1 (spec §4.F). It
	does not attach the module to any parent: the caller does that with
	Add_submodule, which records it in the parent's submodule list and
	takes ownership of it via TakeAs.
*/
func (k *Kernel) Mk_module(name string, compound bool) *Module {
	m := &Module{
		id:         k.next_module_id(),
		params:     map[string]*gizmos.Parameter{},
		compound:   compound,
		masterSeed: k.masterSeed,
	}
	m.SetName(name)
	m.gates = gizmos.Mk_gate_table(m)
	m.rngID = k.next_rng_id()
	m.rng = rand.New(rand.NewSource(m.masterSeed ^ (m.rngID * 0x2545F4914F6CDD1D)))
	return m
}

func (m *Module) ID() int           { return m.id }
func (m *Module) IsCompound() bool  { return m.compound }
func (m *Module) Gates() *gizmos.Gate_table { return m.gates }
func (m *Module) Rand() *rand.Rand  { return m.rng }

func (m *Module) DisplayString() string     { return m.displayString }
func (m *Module) SetDisplayString(s string) { m.displayString = s }

/*
	Add_submodule appends child to this (compound) module's submodule
	list and takes ownership, preserving insertion order (spec §3/§4.F
	step 1).
*/
func (m *Module) Add_submodule(child *Module) {
	m.submodules = append(m.submodules, child)
	m.Soft_owner.TakeAs(child, m)
}

func (m *Module) Submodules() []*Module { return m.submodules }

// remove_submodule drops child from this module's submodule list and
// releases the soft-owner claim on it (spec §4.F teardown). Called only
// by Kernel.Delete_module, which has already recursed into child's own
// submodules first.
func (m *Module) remove_submodule(child *Module) {
	for i, c := range m.submodules {
		if c == child {
			m.submodules = append(m.submodules[:i], m.submodules[i+1:]...)
			break
		}
	}
	m.Soft_owner.Drop(child)
}

/*
	Declare_param copies a parameter declaration onto this module (spec
	§4.F step 2, "copy parameter declarations"). The parameter's
	expression context is bound to this module so it can resolve
	sibling/ancestor references and RNG-backed functions.
*/
func (m *Module) Declare_param(p *gizmos.Parameter) {
	p.Bind_context(m)
	m.params[p.Name()] = p
}

/*
	ResolveParam satisfies gizmos.Expr_context: a module resolves a bare
	name against its own parameter table first, then its owner chain
	(sibling/ancestor references, spec §4.B).
*/
func (m *Module) ResolveParam(name string) (*gizmos.Parameter, error) {
	if p, ok := m.params[name]; ok {
		return p, nil
	}
	if owner, ok := m.Owner().(*Module); ok {
		return owner.ResolveParam(name)
	}
	return nil, gizmos.New_error(gizmos.ParameterUnassigned, "no parameter %q visible from %s", name, m.FullPath())
}

func (m *Module) Read_param(name string) (gizmos.Value, error) {
	p, err := m.ResolveParam(name)
	if err != nil {
		return gizmos.Value{}, err
	}
	return p.ReadPar()
}

/*
	Finalize_parameters is network-factory step 3 (spec §4.F): "from here
	on parameters are readable without faulting the unassigned case if
	defaulted." This core treats finalize as a no-op gate -- parameters
	that remain unassigned still fault on read, per spec §4.B -- but the
	call marks the module built so later stages can assert ordering.
*/
func (m *Module) Finalize_parameters() {
	m.built = true
}

/*
	Set_behavior installs the module's Behavior plus (optionally) exactly
	one of a Handler or an Activity_func, selected at module-type
	declaration time (spec §4.G).
*/
func (m *Module) Set_behavior(b Behavior) {
	m.behavior = b
	if h, ok := b.(Handler); ok {
		m.handler = h
	}
}

func (m *Module) Set_activity(fn Activity_func) { m.activityFn = fn }

func (m *Module) Is_activity_style() bool { return m.activityFn != nil }
func (m *Module) Is_handler_style() bool  { return m.handler != nil }

func (m *Module) num_init_stages() int {
	if m.behavior == nil {
		return 1
	}
	return m.behavior.NumInitStages()
}

func (m *Module) init_stage(stage int) {
	if m.behavior != nil {
		m.behavior.InitStage(m, stage)
	}
}

func (m *Module) run_finish() {
	if m.deleted {
		return
	}
	if m.behavior != nil {
		m.behavior.Finish(m)
	}
}

/*
	Is_initialized, Is_deleted expose the lifetime flags spec §3 names
	directly on Module.
*/
func (m *Module) Is_initialized() bool { return m.initialized }
func (m *Module) Is_deleted() bool     { return m.deleted }

func (m *Module) mark_initialized() { m.initialized = true }
