// vi: sw=4 ts=4:

package managers

import (
	"testing"
	"time"

	"github.com/att/nsim/gizmos"
)

func TestActivityWaitForIgnoresUnrelatedArrivalUntilTimeout(t *testing.T) {
	k := Mk_kernel(1)
	mod := k.Mk_module("coro", false)
	k.Root().Add_submodule(mod)
	k.register_module(mod)

	received := make(chan string, 4)
	mod.Set_activity(func(h *Activity_handle) {
		h.WaitFor(5.0)
		received <- "woke"
		m := h.Receive()
		received <- m.Name()
	})

	if err := k.Build(); err != nil {
		t.Fatalf("unexpected Build error: %v", err)
	}

	early := gizmos.Mk_message("early-arrival", 0)
	if err := k.Send_direct(early, mod, 1.0); err != nil {
		t.Fatalf("unexpected Send_direct error: %v", err)
	}

	reason, err := k.Execute()
	if err != nil {
		t.Fatalf("unexpected Execute error: %v", err)
	}
	if reason != FinishedNormally {
		t.Fatalf("got termination reason %v, want FinishedNormally", reason)
	}

	select {
	case v := <-received:
		if v != "woke" {
			t.Fatalf("expected 'woke' first, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for coroutine to report wakeup")
	}

	select {
	case v := <-received:
		if v != "early-arrival" {
			t.Fatalf("expected queued early-arrival to surface after the wait, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for coroutine to report queued message")
	}
}

func TestActivityDeleteModuleCancelsCoroutineViaTermination(t *testing.T) {
	k := Mk_kernel(1)
	mod := k.Mk_module("coro", false)
	k.Root().Add_submodule(mod)
	k.register_module(mod)

	cleanedUp := make(chan bool, 1)
	mod.Set_activity(func(h *Activity_handle) {
		defer func() {
			_, ok := recover().(Termination)
			cleanedUp <- ok
		}()
		for {
			h.Receive()
		}
	})

	if err := k.Build(); err != nil {
		t.Fatalf("unexpected Build error: %v", err)
	}

	if err := k.Delete_module(mod); err != nil {
		t.Fatalf("unexpected Delete_module error: %v", err)
	}

	select {
	case ok := <-cleanedUp:
		if !ok {
			t.Fatal("expected coroutine's deferred recover to observe a Termination value")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancelled coroutine to unwind")
	}
	if !mod.activityH.Terminated() {
		t.Fatal("expected activity handle marked terminated after cancellation")
	}
}

func TestActivityTerminatedDropsLateDelivery(t *testing.T) {
	k := Mk_kernel(1)
	mod := k.Mk_module("coro", false)
	k.Root().Add_submodule(mod)
	k.register_module(mod)

	mod.Set_activity(func(h *Activity_handle) {
		// returns immediately without ever calling Receive.
	})

	if err := k.Build(); err != nil {
		t.Fatalf("unexpected Build error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for !mod.activityH.Terminated() {
		if time.Now().After(deadline) {
			t.Fatal("activity never reported terminated")
		}
		time.Sleep(time.Millisecond)
	}

	msg := gizmos.Mk_message("late", 0)
	done := make(chan struct{})
	go func() {
		deliver_to_activity(mod, msg)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deliver_to_activity blocked delivering to a terminated coroutine")
	}
}
