// vi: sw=4 ts=4:

package managers

import (
	"testing"

	"github.com/att/nsim/gizmos"
)

func TestSignalEmitNotifiesOwnerChainNearestFirst(t *testing.T) {
	k := Mk_kernel(1)
	grandparent := k.Mk_module("grandparent", true)
	k.Root().Add_submodule(grandparent)
	parent := k.Mk_module("parent", true)
	grandparent.Add_submodule(parent)
	child := k.Mk_module("child", false)
	parent.Add_submodule(child)

	var order []string
	listener := func(name string) Signal_listener {
		return func(source *Module, sigName string, value gizmos.Value) {
			order = append(order, name)
		}
	}

	if err := k.Signals().Subscribe(parent, "alarm", listener("parent")); err != nil {
		t.Fatalf("unexpected Subscribe error: %v", err)
	}
	if err := k.Signals().Subscribe(grandparent, "alarm", listener("grandparent")); err != nil {
		t.Fatalf("unexpected Subscribe error: %v", err)
	}
	if err := k.Signals().Subscribe(child, "alarm", listener("child")); err != nil {
		t.Fatalf("unexpected Subscribe error: %v", err)
	}

	k.Signals().Emit(child, "alarm", gizmos.Value{Kind: gizmos.VInt, I: 1})

	want := []string{"child", "parent", "grandparent"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: got %v want %v", i, order, want)
		}
	}
}

func TestSignalUnrelatedSubtreeNotNotified(t *testing.T) {
	k := Mk_kernel(1)
	left := k.Mk_module("left", false)
	k.Root().Add_submodule(left)
	right := k.Mk_module("right", false)
	k.Root().Add_submodule(right)

	fired := false
	if err := k.Signals().Subscribe(right, "tick", func(source *Module, name string, value gizmos.Value) {
		fired = true
	}); err != nil {
		t.Fatalf("unexpected Subscribe error: %v", err)
	}

	k.Signals().Emit(left, "tick", gizmos.Value{})

	if fired {
		t.Fatal("listener on an unrelated subtree should not fire")
	}
}

func TestSignalSubscribeRejectedDuringFinish(t *testing.T) {
	k := Mk_kernel(1)
	mod := k.Mk_module("mod", false)
	k.Root().Add_submodule(mod)

	k.Signals().begin_finish()
	defer k.Signals().end_finish()

	err := k.Signals().Subscribe(mod, "late", func(*Module, string, gizmos.Value) {})
	if err == nil {
		t.Fatal("expected Subscribe to fail once finish has begun")
	}
	if !gizmos.Is_kind(err, gizmos.InvalidDeletion) {
		t.Fatalf("got error %v, want kind InvalidDeletion", err)
	}
}

func TestSignalUnsubscribeStopsDelivery(t *testing.T) {
	k := Mk_kernel(1)
	mod := k.Mk_module("mod", false)
	k.Root().Add_submodule(mod)

	count := 0
	fn := func(source *Module, name string, value gizmos.Value) { count++ }
	if err := k.Signals().Subscribe(mod, "x", fn); err != nil {
		t.Fatalf("unexpected Subscribe error: %v", err)
	}
	k.Signals().Emit(mod, "x", gizmos.Value{})
	k.Signals().Unsubscribe(mod, "x")
	k.Signals().Emit(mod, "x", gizmos.Value{})

	if count != 1 {
		t.Fatalf("got %d deliveries, want 1", count)
	}
}
