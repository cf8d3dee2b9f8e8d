// vi: sw=4 ts=4:

/*

	Mnemonic:	message
	Abstract:	"object" that manages a message -- the event payload exchanged
				between modules or scheduled as a self-event (spec §3, §4.C).
				Grounded on this package's own retired pledge.go: a pledge was a
				timestamped, owned, cloneable reservation between two named
				endpoints (commence/expiry/id); a Message keeps that same shape
				(creation/send/arrival timestamps, source/arrival endpoints, a
				stable id) generalized from "a reservation between two hosts" to
				"an event between two gates."
	Date:		20 November 2013
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the reservation-pledge model into the
					simulation core's message/event model.
*/

package gizmos

import (
	"github.com/google/uuid"
)

// Kind is a small integer event discriminator; negatives are reserved for
// the kernel itself (self-message wakeups, tickler spots), per spec §3.
type Kind int

const (
	KindSelfWakeup Kind = -1
	KindTickler    Kind = -2
)

/*
	Message is an owned object representing either a user-payload packet
	or a self-event. Every field below is named directly after spec §3's
	Message field list.
*/
type Message struct {
	Soft_owner // messages are themselves soft-owners of their param list

	kind     Kind
	priority int

	creationTime float64
	sendingTime  float64
	arrivalTime  float64
	timestamp    float64

	srcModID, srcGateID         int
	arrivalModID, arrivalGateID int // -1 for self-messages

	id          int64     // unique, monotonically increasing
	treeID      int64     // inherited by clones
	correlation uuid.UUID // external correlation id, stamped once at creation

	controlInfo Owned            // at most one, owned, deleted with the message
	params      map[string]Owned // lazy dynamic parameter list

	partitionID int

	scheduled bool // true while resident in the FES; guards AlreadyScheduled
}

/*
	Mk_message is the constructor: yields an owned Message with a fresh id
	(spec §4.C: "new Message(name, kind) yields an owned object with a
	fresh id").
*/
func Mk_message(name string, kind Kind) *Message {
	m := &Message{
		kind:          kind,
		srcModID:      -1,
		srcGateID:     -1,
		arrivalModID:  -1,
		arrivalGateID: -1,
		correlation:   uuid.New(),
	}
	m.name = name
	m.id = Next_msg_id()
	m.treeID = m.id
	msg_created()
	return m
}

func (m *Message) Kind() Kind             { return m.kind }
func (m *Message) SetKind(k Kind)         { m.kind = k }
func (m *Message) Priority() int          { return m.priority }
func (m *Message) SetPriority(p int)      { m.priority = p }
func (m *Message) ID() int64              { return m.id }
func (m *Message) TreeID() int64          { return m.treeID }
func (m *Message) Correlation() uuid.UUID { return m.correlation }

func (m *Message) CreationTime() float64    { return m.creationTime }
func (m *Message) SendingTime() float64     { return m.sendingTime }
func (m *Message) ArrivalTime() float64     { return m.arrivalTime }
func (m *Message) SetArrivalTime(t float64) { m.arrivalTime = t }
func (m *Message) SetSendingTime(t float64) { m.sendingTime = t }
func (m *Message) Timestamp() float64       { return m.timestamp }
func (m *Message) SetTimestamp(t float64)   { m.timestamp = t }

func (m *Message) Source() (modID, gateID int)  { return m.srcModID, m.srcGateID }
func (m *Message) SetSource(modID, gateID int)  { m.srcModID, m.srcGateID = modID, gateID }
func (m *Message) Arrival() (modID, gateID int) { return m.arrivalModID, m.arrivalGateID }
func (m *Message) SetArrival(modID, gateID int) { m.arrivalModID, m.arrivalGateID = modID, gateID }

func (m *Message) IsSelfMessage() bool { return m.arrivalGateID == -1 }

func (m *Message) PartitionID() int     { return m.partitionID }
func (m *Message) SetPartitionID(p int) { m.partitionID = p }

func (m *Message) IsScheduled() bool    { return m.scheduled }
func (m *Message) SetScheduled(v bool)  { m.scheduled = v }

/*
	SetControlInfo attaches ci as the message's at-most-one control-info
	object; any previous control-info is released (not deleted -- per
	§4.C it is owned and deleted only when the message itself is deleted).
*/
func (m *Message) SetControlInfo(ci Owned) {
	m.controlInfo = ci
	if ci != nil {
		ci.setOwner(&m.Soft_owner)
	}
}

func (m *Message) ControlInfo() Owned { return m.controlInfo }

/*
	AddParam attaches an arbitrary owned object to the message's lazily
	created name-keyed parameter list (spec §4.C).
*/
func (m *Message) AddParam(name string, obj Owned) {
	if m.params == nil {
		m.params = make(map[string]Owned, 2)
	}
	obj.setOwner(&m.Soft_owner)
	m.params[name] = obj
}

func (m *Message) GetParam(name string) Owned {
	if m.params == nil {
		return nil
	}
	return m.params[name]
}

/*
	Dup makes a semantic copy with a new id but inherited tree-id and
	preserved creation time (spec §4.C). The control-info is deliberately
	NOT cloned -- ownership of control-info is single-homed to the
	original message.
*/
func (m *Message) Dup() *Message {
	c := &Message{
		kind:          m.kind,
		priority:      m.priority,
		creationTime:  m.creationTime,
		sendingTime:   m.sendingTime,
		arrivalTime:   m.arrivalTime,
		timestamp:     m.timestamp,
		srcModID:      m.srcModID,
		srcGateID:     m.srcGateID,
		arrivalModID:  m.arrivalModID,
		arrivalGateID: m.arrivalGateID,
		treeID:        m.treeID,
		partitionID:   m.partitionID,
		correlation:   uuid.New(),
	}
	c.name = m.name
	c.id = Next_msg_id()
	msg_created()
	if m.params != nil {
		c.params = make(map[string]Owned, len(m.params))
		for k, v := range m.params {
			c.params[k] = v
		}
	}
	return c
}

/*
	Destroy releases the message: its control-info is deleted first (and
	the pointer cleared before any further cleanup runs, so a nested
	destructor can never observe a half-deleted message -- resolves the
	reentrancy Open Question in spec §9), then the live-message counter
	is decremented.
*/
func (m *Message) Destroy() {
	if m.controlInfo != nil {
		ci := m.controlInfo
		m.controlInfo = nil
		if d, ok := ci.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
	m.Soft_owner.Destroy()
	msg_destroyed()
}

func (m *Message) Info() string {
	return m.FullPath()
}
