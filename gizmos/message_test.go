// vi: sw=4 ts=4:

package gizmos

import "testing"

func TestMessageIdsAreUnique(t *testing.T) {
	Reset_msg_stats()
	m1 := Mk_message("m1", 0)
	m2 := Mk_message("m2", 0)
	if m1.ID() == m2.ID() {
		t.Fatalf("expected distinct ids, got %d and %d", m1.ID(), m2.ID())
	}
}

func TestDupInheritsTreeIdNotId(t *testing.T) {
	Reset_msg_stats()
	m := Mk_message("orig", 0)
	m.creationTime = 5

	c := m.Dup()
	if c.ID() == m.ID() {
		t.Fatalf("clone must have a fresh id")
	}
	if c.TreeID() != m.TreeID() {
		t.Fatalf("clone must inherit tree id: got %d want %d", c.TreeID(), m.TreeID())
	}
	if c.CreationTime() != m.CreationTime() {
		t.Fatalf("clone must preserve creation time")
	}
	if c.ControlInfo() != nil {
		t.Fatalf("clone must not inherit control-info")
	}
}

func TestSelfMessageHasNoArrivalGate(t *testing.T) {
	m := Mk_message("wakeup", KindSelfWakeup)
	if !m.IsSelfMessage() {
		t.Fatalf("expected self message with arrivalGateID == -1")
	}
}

func TestLiveMessageCounters(t *testing.T) {
	Reset_msg_stats()
	m1 := Mk_message("m1", 0)
	_ = Mk_message("m2", 0)

	total, live := Msg_stats()
	if total != 2 || live != 2 {
		t.Fatalf("got total=%d live=%d, want 2/2", total, live)
	}
	m1.Destroy()
	total, live = Msg_stats()
	if total != 2 || live != 1 {
		t.Fatalf("got total=%d live=%d after destroy, want 2/1", total, live)
	}
}

func TestControlInfoDeletedWithMessage(t *testing.T) {
	m := Mk_message("m", 0)
	ci := Mk_soft_owner("ci")
	m.SetControlInfo(ci)
	if m.ControlInfo() == nil {
		t.Fatalf("expected control-info attached")
	}
	m.Destroy() // must not panic, even though Soft_owner has no explicit Destroy override issue
	if m.ControlInfo() != nil {
		t.Fatalf("expected control-info released when the message is destroyed")
	}
}

func TestPacketUpdateTracksRemainingBits(t *testing.T) {
	p := Mk_packet("data", 0, 1000)
	p.MakeUpdateOf(400)
	if !p.IsUpdate() {
		t.Fatalf("expected IsUpdate() true")
	}
	if p.RemainingBits() != 400 {
		t.Fatalf("got %d, want 400", p.RemainingBits())
	}
}
