// vi: sw=4 ts=4:

/*

	Mnemonic:	packet
	Abstract:	Packet specializes Message with bit-length, duration, and a
				reception-start-or-end flag (spec §3, §4.C). IsUpdate()
				distinguishes the first reception of a packet from an in-flight
				update sent while the original is still transmitting (§4.D).
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

/*
	Packet embeds *Message (via value + pointer pattern: a Packet owns its
	own Message so every Message method is promoted) and adds the
	transmission-specific fields.
*/
type Packet struct {
	*Message

	bitLength int64
	duration  float64

	deliveredAtStart bool // true: channel delivers at reception start, not end
	isUpdate         bool // true: this is a replacement for an in-flight packet
	remainingBits    int64 // set when isUpdate, per §4.D "remainingDuration"
}

/*
	Mk_packet constructs a Packet of the given bit length, wrapping a
	fresh Message.
*/
func Mk_packet(name string, kind Kind, bitLength int64) *Packet {
	return &Packet{
		Message:   Mk_message(name, kind),
		bitLength: bitLength,
	}
}

func (p *Packet) BitLength() int64      { return p.bitLength }
func (p *Packet) SetBitLength(n int64)  { p.bitLength = n }
func (p *Packet) Duration() float64     { return p.duration }
func (p *Packet) SetDuration(d float64) { p.duration = d }

func (p *Packet) DeliveredAtStart() bool     { return p.deliveredAtStart }
func (p *Packet) SetDeliveredAtStart(v bool) { p.deliveredAtStart = v }

func (p *Packet) IsUpdate() bool { return p.isUpdate }

/*
	MakeUpdateOf marks this packet as a transmission-update referencing an
	in-flight original, carrying the bits still left to send (spec §4.D
	"remainingDuration").
*/
func (p *Packet) MakeUpdateOf(remainingBits int64) {
	p.isUpdate = true
	p.remainingBits = remainingBits
}

func (p *Packet) RemainingBits() int64 { return p.remainingBits }

/*
	Dup overrides Message.Dup to also copy the packet's bit length,
	duration and delivered-at-start flag; the update flag and remaining
	bit count are not copied, so the duplicate is never an update.
*/
func (p *Packet) Dup() *Packet {
	return &Packet{
		Message:          p.Message.Dup(),
		bitLength:        p.bitLength,
		duration:         p.duration,
		deliveredAtStart: p.deliveredAtStart,
	}
}
