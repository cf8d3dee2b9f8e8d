// vi: sw=4 ts=4:

package managers

import (
	"testing"

	"github.com/att/nsim/gizmos"
)

type two_stage_behavior struct {
	Base_behavior
	stages *[]string
	name   string
}

func (b *two_stage_behavior) NumInitStages() int { return 2 }
func (b *two_stage_behavior) InitStage(self *Module, stage int) {
	*b.stages = append(*b.stages, b.name)
}

func TestBuildInitRunsStagesAcrossWholeTreeBeforeAdvancing(t *testing.T) {
	k := Mk_kernel(1)
	var order []string

	parent := k.Mk_module("parent", true)
	k.Root().Add_submodule(parent)
	k.register_module(parent)
	child := k.Mk_module("child", false)
	parent.Add_submodule(child)
	k.register_module(child)

	parent.Set_behavior(&two_stage_behavior{stages: &order, name: "parent"})
	child.Set_behavior(&two_stage_behavior{stages: &order, name: "child"})

	k.Build_init()

	want := []string{"parent", "child", "parent", "child"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: got %v want %v", i, order, want)
		}
	}
	if !parent.Is_initialized() || !child.Is_initialized() {
		t.Fatalf("expected both modules marked initialized")
	}
}

func TestModuleParamResolvesThroughOwnerChain(t *testing.T) {
	k := Mk_kernel(1)
	parent := k.Mk_module("parent", true)
	k.Root().Add_submodule(parent)
	child := k.Mk_module("child", false)
	parent.Add_submodule(child)

	p := gizmos.Mk_parameter("shared", gizmos.VInt)
	p.Set_const(gizmos.Value{Kind: gizmos.VInt, I: 42})
	parent.Declare_param(p)

	v, err := child.Read_param("shared")
	if err != nil {
		t.Fatalf("unexpected error resolving inherited param: %v", err)
	}
	if v.I != 42 {
		t.Fatalf("got %d, want 42", v.I)
	}
}

func TestModuleGateConnectAndSend(t *testing.T) {
	k := Mk_kernel(1)
	a := k.Mk_module("a", false)
	k.Root().Add_submodule(a)
	k.register_module(a)
	b := k.Mk_module("b", false)
	k.Root().Add_submodule(b)
	k.register_module(b)

	if err := a.Gates().AddGate("out", gizmos.GateOutput, false); err != nil {
		t.Fatalf("unexpected AddGate error: %v", err)
	}
	if err := b.Gates().AddGate("in", gizmos.GateInput, false); err != nil {
		t.Fatalf("unexpected AddGate error: %v", err)
	}
	og, err := a.Gates().Gate("out", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ig, err := b.Gates().Gate("in", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ch := gizmos.Mk_channel("link", 1, 1)
	ch.PropDelay = 2.0
	if err := gizmos.Connect(og, ig, ch); err != nil {
		t.Fatalf("unexpected Connect error: %v", err)
	}

	msg := gizmos.Mk_message("hello", 0)
	if err := k.Send(msg, og); err != nil {
		t.Fatalf("unexpected Send error: %v", err)
	}

	ev := k.fes.PeekFirst()
	if ev == nil {
		t.Fatalf("expected message scheduled in FES")
	}
	if ev.ArrivalTime() != 2.0 {
		t.Fatalf("got arrival %g, want 2.0", ev.ArrivalTime())
	}
	destModID, _ := msg.Arrival()
	if destModID != b.ID() {
		t.Fatalf("expected message addressed to module b, got %d", destModID)
	}
}
