// vi: sw=4 ts=4:

package gizmos

import "testing"

func TestGateIdRoundTripScalar(t *testing.T) {
	id := Encode_gate_id(3, false, HalfInput, 0)
	descIdx, isVector, half, vecIdx := Decode_gate_id(id)
	if descIdx != 3 || isVector || half != HalfInput || vecIdx != 0 {
		t.Fatalf("round trip mismatch: descIdx=%d isVector=%v half=%v vecIdx=%d", descIdx, isVector, half, vecIdx)
	}
}

func TestGateIdRoundTripVector(t *testing.T) {
	id := Encode_gate_id(7, true, HalfOutput, 12)
	descIdx, isVector, half, vecIdx := Decode_gate_id(id)
	if descIdx != 7 || !isVector || half != HalfOutput || vecIdx != 12 {
		t.Fatalf("round trip mismatch: descIdx=%d isVector=%v half=%v vecIdx=%d", descIdx, isVector, half, vecIdx)
	}
}

func TestAddGateScalarPreallocates(t *testing.T) {
	gt := Mk_gate_table(nil)
	if err := gt.AddGate("in", GateInput, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, err := gt.Gate("in", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Half() != HalfInput {
		t.Fatalf("expected input half")
	}
}

func TestSetGateSizeGrowsVector(t *testing.T) {
	gt := Mk_gate_table(nil)
	gt.AddGate("out", GateOutput, true)
	if err := gt.SetGateSize("out", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gt.GateSize("out") != 4 {
		t.Fatalf("got size %d, want 4", gt.GateSize("out"))
	}
}

func TestShrinkConnectedGateFails(t *testing.T) {
	gtA := Mk_gate_table(nil)
	gtA.AddGate("out", GateOutput, true)
	gtA.SetGateSize("out", 2)

	gtB := Mk_gate_table(nil)
	gtB.AddGate("in", GateInput, true)
	gtB.SetGateSize("in", 2)

	ga, _ := gtA.Gate("out", 1)
	gb, _ := gtB.Gate("in", 1)
	Connect(ga, gb, nil)

	if err := gtA.SetGateSize("out", 1); !Is_kind(err, GateStillConnected) {
		t.Fatalf("expected GateStillConnected, got %v", err)
	}
}

func TestInoutGateRequiresHalfSuffix(t *testing.T) {
	gt := Mk_gate_table(nil)
	gt.AddGate("io", GateInout, false)
	if _, err := gt.Gate("io", -1); !Is_kind(err, GateMismatch) {
		t.Fatalf("expected GateMismatch without half suffix, got %v", err)
	}
	if _, err := gt.Gate("io$i", -1); err != nil {
		t.Fatalf("unexpected error addressing io$i: %v", err)
	}
	if _, err := gt.Gate("io$o", -1); err != nil {
		t.Fatalf("unexpected error addressing io$o: %v", err)
	}
}

func TestConnectMaintainsPrevInvariant(t *testing.T) {
	gtA := Mk_gate_table(nil)
	gtA.AddGate("out", GateOutput, false)
	gtB := Mk_gate_table(nil)
	gtB.AddGate("in", GateInput, false)

	ga, _ := gtA.Gate("out", -1)
	gb, _ := gtB.Gate("in", -1)
	if err := Connect(ga, gb, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ga.Next().Prev() != ga {
		t.Fatalf("next.prev must equal the original gate")
	}
}

func TestGetOrCreateFirstUnconnectedGateExpands(t *testing.T) {
	gtA := Mk_gate_table(nil)
	gtA.AddGate("out", GateOutput, true)
	gtA.SetGateSize("out", 1)
	gtB := Mk_gate_table(nil)
	gtB.AddGate("in", GateInput, true)
	gtB.SetGateSize("in", 1)

	ga0, _ := gtA.Gate("out", 0)
	gb0, _ := gtB.Gate("in", 0)
	Connect(ga0, gb0, nil)

	g, err := gtA.GetOrCreateFirstUnconnectedGate("out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.VecIndex() != 1 {
		t.Fatalf("expected the table to grow and return index 1, got %d", g.VecIndex())
	}
}
