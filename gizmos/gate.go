// vi: sw=4 ts=4:

/*

	Mnemonic:	gate
	Abstract:	Gate table and gate-id encoding for a module (spec §3, §4.D).
				Grounded on this package's own retired switch.go: a Switch kept
				a {id, links[], lidx, hport} adjacency/port-indexing structure;
				a module's gate descriptor table keeps the same shape generalized
				from "named ports on a network switch" to "named ports on a
				simulation module," with the Dijkstra path-finding stripped out
				(topology discovery is out of scope, spec §1) and the id encoding
				and next/prev chain added per §4.D.
	Date:		24 November 2013
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the OpenFlow switch model into the
					simulation core's gate/connection model.
*/

package gizmos

type GateType int

const (
	GateInput GateType = iota
	GateOutput
	GateInout
)

type GateHalf int

const (
	HalfNone GateHalf = iota
	HalfInput
	HalfOutput
)

const (
	gid_half_bits = 2
	gid_half_mask = 0x3
)

/*
	Encode_gate_id packs {descriptor-index, half, vector-index} into a
	32-bit id. A zero high block means "scalar gate, descriptor index in
	the rest"; a non-zero high block is descriptor-index+1 with the
	vector index in the low bits -- both directions are O(1) bit masking
	(spec §3 "Gate-id encoding").
*/
func Encode_gate_id(descIdx int, isVector bool, half GateHalf, vecIdx int) int32 {
	if !isVector {
		return int32(descIdx<<gid_half_bits) | int32(half)
	}
	high := int32(descIdx+1) << 16
	low := int32(vecIdx<<gid_half_bits) | int32(half)
	return high | low
}

/*
	Decode_gate_id is the inverse of Encode_gate_id.
*/
func Decode_gate_id(id int32) (descIdx int, isVector bool, half GateHalf, vecIdx int) {
	high := (id >> 16) & 0xFFFF
	low := id & 0xFFFF
	half = GateHalf(low & gid_half_mask)
	if high == 0 {
		return int(low >> gid_half_bits), false, half, 0
	}
	return int(high) - 1, true, half, int(low >> gid_half_bits)
}

/*
	Gate is a single named endpoint half. Connections chain Gates via
	next/prev; spec §4.D invariant: g.next.prev == g whenever g.next is
	non-nil.
*/
type Gate struct {
	Base

	id       int32
	gtype    GateType
	half     GateHalf
	vecIndex int
	owner    interface{} // the owning module; typed interface{} to avoid an import cycle (gizmos cannot import managers)

	next    *Gate
	prev    *Gate
	channel *Channel

	busyUntil float64 // transmission-finish time; 0 means idle
	inFlight  *Packet // the packet currently in transmission, for update semantics
}

func (g *Gate) ID() int32          { return g.id }
func (g *Gate) Type() GateType     { return g.gtype }
func (g *Gate) Half() GateHalf     { return g.half }
func (g *Gate) VecIndex() int      { return g.vecIndex }
func (g *Gate) Owner() interface{} { return g.owner }
func (g *Gate) Next() *Gate        { return g.next }
func (g *Gate) Prev() *Gate          { return g.prev }
func (g *Gate) Channel() *Channel    { return g.channel }
func (g *Gate) SetChannel(c *Channel) { g.channel = c }

func (g *Gate) IsConnected() bool { return g.next != nil || g.prev != nil }

/*
	Connect links from -> to, maintaining the prev back-pointer invariant.
	Fails with GateMismatch if the halves are incompatible (an output
	half must connect to an input half downstream).
*/
func Connect(from *Gate, to *Gate, ch *Channel) error {
	if from.half != HalfOutput && from.half != HalfNone {
		return New_error(GateMismatch, "gate %s is not an output half", from.FullPath())
	}
	if to.half != HalfInput && to.half != HalfNone {
		return New_error(GateMismatch, "gate %s is not an input half", to.FullPath())
	}
	from.next = to
	to.prev = from
	from.channel = ch
	return nil
}

func Disconnect(from *Gate) {
	if from.next != nil {
		from.next.prev = nil
		from.next = nil
	}
	from.channel = nil
}

/*
	DisconnectAny severs g's connection regardless of which half it is --
	Disconnect only handles the output side of a link. Used by module
	teardown (spec §4.F "recursive delete of submodules... disconnects
	their gates along the way"), where a deleted module's gates may be
	either end of a link.
*/
func (g *Gate) DisconnectAny() {
	if g.next != nil {
		g.next.prev = nil
		g.next = nil
		g.channel = nil
	}
	if g.prev != nil {
		g.prev.next = nil
		g.prev.channel = nil
		g.prev = nil
	}
}

// gate_descriptor is one named row of a module's gate table.
type gate_descriptor struct {
	name     string
	gtype    GateType
	isVector bool
	outHalf  []*Gate
	inHalf   []*Gate
}

func (d *gate_descriptor) size() int {
	if len(d.outHalf) > len(d.inHalf) {
		return len(d.outHalf)
	}
	return len(d.inHalf)
}

/*
	Gate_table is embedded in Module; it owns every gate_descriptor for
	that module, in insertion order (spec §4.D operations).
*/
type Gate_table struct {
	byName map[string]*gate_descriptor
	order  []*gate_descriptor
	owner  interface{}
}

func Mk_gate_table(owner interface{}) *Gate_table {
	return &Gate_table{byName: map[string]*gate_descriptor{}, owner: owner}
}

/*
	AddGate appends a descriptor. A scalar gate pre-allocates its halves
	immediately; a vector gate starts empty (spec §4.D).
*/
func (gt *Gate_table) AddGate(name string, gtype GateType, isVector bool) error {
	if _, exists := gt.byName[name]; exists {
		return New_error(GateMismatch, "gate %q already declared", name)
	}
	d := &gate_descriptor{name: name, gtype: gtype, isVector: isVector}
	gt.byName[name] = d
	gt.order = append(gt.order, d)

	if !isVector {
		gt.grow(d, 1)
	}
	return nil
}

func (gt *Gate_table) descIndex(d *gate_descriptor) int {
	for i, o := range gt.order {
		if o == d {
			return i
		}
	}
	return -1
}

func (gt *Gate_table) grow(d *gate_descriptor, n int) {
	descIdx := gt.descIndex(d)
	for len(d.outHalf) < n && (d.gtype == GateOutput || d.gtype == GateInout) {
		idx := len(d.outHalf)
		g := &Gate{gtype: d.gtype, half: HalfOutput, vecIndex: idx, owner: gt.owner}
		g.name = d.name
		g.id = Encode_gate_id(descIdx, d.isVector, HalfOutput, idx)
		d.outHalf = append(d.outHalf, g)
	}
	for len(d.inHalf) < n && (d.gtype == GateInput || d.gtype == GateInout) {
		idx := len(d.inHalf)
		g := &Gate{gtype: d.gtype, half: HalfInput, vecIndex: idx, owner: gt.owner}
		g.name = d.name
		g.id = Encode_gate_id(descIdx, d.isVector, HalfInput, idx)
		d.inHalf = append(d.inHalf, g)
	}
}

/*
	SetGateSize grows or shrinks a vector gate. Shrinking fails with
	GateStillConnected if any removed index is connected (spec §4.D).
*/
func (gt *Gate_table) SetGateSize(name string, n int) error {
	d, ok := gt.byName[name]
	if !ok {
		return New_error(GateMismatch, "no such gate %q", name)
	}
	if !d.isVector {
		return New_error(GateMismatch, "gate %q is not a vector", name)
	}
	cur := d.size()
	if n < cur {
		for i := n; i < cur; i++ {
			for _, g := range []*Gate{at(d.outHalf, i), at(d.inHalf, i)} {
				if g != nil && g.IsConnected() {
					return New_error(GateStillConnected, "gate %q[%d] still connected", name, i)
				}
			}
		}
		if d.outHalf != nil {
			d.outHalf = d.outHalf[:min_int(n, len(d.outHalf))]
		}
		if d.inHalf != nil {
			d.inHalf = d.inHalf[:min_int(n, len(d.inHalf))]
		}
		return nil
	}
	gt.grow(d, n)
	return nil
}

func at(s []*Gate, i int) *Gate {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func min_int(a, b int) int {
	if a < b {
		return a
	}
	return b
}

/*
	FindGate looks up a descriptor by bare name (no half suffix).
*/
func (gt *Gate_table) FindGate(name string) (*gate_descriptor, bool) {
	d, ok := gt.byName[name]
	return d, ok
}

/*
	Gate resolves a single gate by name (optionally "$i"/"$o" suffixed for
	an inout gate, per the half-discrimination requirement in spec §4.D)
	and vector index (-1 for scalar).
*/
func (gt *Gate_table) Gate(name string, idx int) (*Gate, error) {
	base, half := split_half_suffix(name)
	d, ok := gt.byName[base]
	if !ok {
		return nil, New_error(GateMismatch, "no such gate %q", base)
	}
	if d.gtype == GateInout && half == HalfNone {
		return nil, New_error(GateMismatch, "inout gate %q must be addressed with $i or $o", base)
	}
	if d.isVector && idx < 0 {
		return nil, New_error(GateMismatch, "gate %q is a vector; index required", base)
	}
	if !d.isVector {
		idx = 0
	}
	var pick []*Gate
	switch {
	case d.gtype == GateOutput, half == HalfOutput:
		pick = d.outHalf
	default:
		pick = d.inHalf
	}
	g := at(pick, idx)
	if g == nil {
		return nil, New_error(GateMismatch, "gate %q[%d] not allocated", base, idx)
	}
	return g, nil
}

/*
	DisconnectAll severs every gate this table owns, both halves,
	in any state of connection. Called once per module at teardown
	(spec §4.F).
*/
func (gt *Gate_table) DisconnectAll() {
	for _, d := range gt.order {
		for _, g := range d.outHalf {
			g.DisconnectAny()
		}
		for _, g := range d.inHalf {
			g.DisconnectAny()
		}
	}
}

func (gt *Gate_table) GateSize(name string) int {
	d, ok := gt.byName[name]
	if !ok {
		return 0
	}
	return d.size()
}

func split_half_suffix(name string) (string, GateHalf) {
	if len(name) > 2 && name[len(name)-2:] == "$i" {
		return name[:len(name)-2], HalfInput
	}
	if len(name) > 2 && name[len(name)-2:] == "$o" {
		return name[:len(name)-2], HalfOutput
	}
	return name, HalfNone
}

/*
	GetOrCreateFirstUnconnectedGate scans a vector gate in index order for
	the first unconnected slot, expanding the vector if every existing
	slot is in use (spec §4.D). The search is a single linear scan from
	index 0; there is no binary-search or other shortcut for densely
	filled vectors.
*/
func (gt *Gate_table) GetOrCreateFirstUnconnectedGate(name string) (*Gate, error) {
	base, half := split_half_suffix(name)
	d, ok := gt.byName[base]
	if !ok {
		return nil, New_error(GateMismatch, "no such gate %q", base)
	}
	if !d.isVector {
		return gt.Gate(name, -1)
	}

	var pick *[]*Gate
	if d.gtype == GateOutput || half == HalfOutput {
		pick = &d.outHalf
	} else {
		pick = &d.inHalf
	}

	// linear scan: the first unconnected slot in index order wins.
	for _, g := range *pick {
		if !g.IsConnected() {
			return g, nil
		}
	}
	// every existing slot busy: grow by one and return the new slot.
	gt.grow(d, d.size()+1)
	if d.gtype == GateOutput || half == HalfOutput {
		pick = &d.outHalf
	} else {
		pick = &d.inHalf
	}
	return (*pick)[len(*pick)-1], nil
}
