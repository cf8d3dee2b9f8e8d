// vi: sw=4 ts=4:

package gizmos

import "testing"

func TestChannelPropagationDelay(t *testing.T) {
	c := Mk_channel("c", 1, 1)
	c.PropDelay = 1.0
	p := Mk_packet("m", 0, 0)

	arrival, _, discarded, err := c.ProcessMessage(p, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discarded {
		t.Fatalf("did not expect discard")
	}
	if arrival != 1.0 {
		t.Fatalf("got arrival %g, want 1.0", arrival)
	}
}

func TestChannelBusyRejectsSecondSend(t *testing.T) {
	c := Mk_channel("c", 1, 1)
	c.DataRate = 1_000_000 // 1 Mbps
	p1 := Mk_packet("p1", 0, 1000)

	if _, _, _, err := c.ProcessMessage(p1, 0); err != nil {
		t.Fatalf("unexpected error on first send: %v", err)
	}

	p2 := Mk_packet("p2", 0, 100)
	if _, _, _, err := c.ProcessMessage(p2, 0.0005); !Is_kind(err, ChannelBusy) {
		t.Fatalf("expected ChannelBusy, got %v", err)
	}
}

func TestChannelUpdateSucceedsWhileBusy(t *testing.T) {
	c := Mk_channel("c", 1, 1)
	c.DataRate = 1_000_000 // 1 Mbps -> 1000 bits takes 1ms
	p1 := Mk_packet("p1", 0, 1000)
	c.ProcessMessage(p1, 0)

	upd := Mk_packet("p1-upd", 0, 1000)
	upd.MakeUpdateOf(500) // half the bits remain
	arrival, duration, _, err := c.ProcessMessage(upd, 0.0005)
	if err != nil {
		t.Fatalf("unexpected error on update: %v", err)
	}
	if duration != 0.0005 {
		t.Fatalf("got duration %g, want 0.0005", duration)
	}
	if arrival != 0.0005+0.0005 {
		t.Fatalf("got arrival %g", arrival)
	}
}

func TestChannelDisabledDiscardsEverything(t *testing.T) {
	c := Mk_channel("c", 1, 1)
	c.Disabled = true
	_, _, discarded, err := c.ProcessMessage(Mk_packet("p", 0, 10), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !discarded {
		t.Fatalf("expected discard on disabled channel")
	}
}

func TestChannelErrorModelIsReproducible(t *testing.T) {
	c1 := Mk_channel("c", 42, 7)
	c1.BitErrorProb = 0.5
	c2 := Mk_channel("c", 42, 7)
	c2.BitErrorProb = 0.5

	for i := 0; i < 20; i++ {
		p1 := Mk_packet("p", 0, 8)
		p2 := Mk_packet("p", 0, 8)
		_, _, d1, _ := c1.ProcessMessage(p1, 0)
		_, _, d2, _ := c2.ProcessMessage(p2, 0)
		if d1 != d2 {
			t.Fatalf("same-seed channels diverged on draw %d", i)
		}
	}
}
