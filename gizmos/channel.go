// vi: sw=4 ts=4:

/*

	Mnemonic:	channel
	Abstract:	Channel -- the owned object placed on a connection between two
				gates (spec §3, §4.D): propagation delay, data rate, disabled
				flag, per-packet and bit error probabilities. ProcessMessage
				implements the propagation/rate/error/transmission-update
				semantics spec §4.D describes; the error-probability formulas
				and the need for a dedicated per-channel RNG stream are recovered
				from original_source/src/sim/cchannel.cc (see SPEC_FULL.md §3.D).
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

import (
	"math"
	"math/rand"
)

/*
	Channel models one connection's transmission characteristics. A
	channel with DataRate == 0 is a pure delay line (no busy-state
	tracking, no duration).
*/
type Channel struct {
	Base

	PropDelay   float64
	DataRate    float64 // bits/second; 0 means "no rate modeled"
	Disabled    bool
	PacketErrorProb float64 // p_e, applied per whole packet
	BitErrorProb    float64 // p_b, applied per bit: 1-(1-p_b)^bits

	rngID int64
	rng   *rand.Rand

	txFinishTime float64 // 0 == idle
	inFlight     *Packet // the packet currently occupying the channel, for updates
}

/*
	Mk_channel constructs a channel seeded from the run's master seed
	combined with a stable per-channel rngID, so enabling/disabling one
	channel's errors never perturbs another channel's draw sequence
	(spec §9's Open Question, resolved per SPEC_FULL.md §3.D).
*/
func Mk_channel(name string, masterSeed int64, rngID int64) *Channel {
	c := &Channel{rngID: rngID}
	c.name = name
	c.rng = rand.New(rand.NewSource(masterSeed ^ (rngID * 0x9E3779B97F4A7C15)))
	return c
}

func (c *Channel) Rand() *rand.Rand { return c.rng }

/*
	ResolveParam satisfies Expr_context trivially: channels in this core
	don't carry a parameter table of their own beyond the exported fields
	above, so there is nothing to resolve by name.
*/
func (c *Channel) ResolveParam(name string) (*Parameter, error) {
	return nil, New_error(ParameterUnassigned, "channel %q has no parameter %q", c.FullPath(), name)
}

func (c *Channel) IsBusy(now float64) bool {
	return c.txFinishTime > now
}

func (c *Channel) TransmissionFinishTime() float64 { return c.txFinishTime }

/*
	ProcessMessage implements spec §4.D's channel contract:

		- propagation delay shifts arrival time unconditionally
		- data rate yields duration = bits/rate; delivered-at-end unless
		  the receiving gate requests delivered-at-start
		- a transmission-update replaces the in-flight packet and its
		  duration is computed from the update's RemainingBits rather
		  than its full length
		- the error model ORs a per-bit draw with a per-packet draw,
		  both through this channel's dedicated RNG stream

	Returns arrivalTime, duration, discarded. A plain send arriving while
	the channel is still busy fails with ChannelBusy. An update
	(pkt.IsUpdate()) needs some packet in flight, which is not checked to
	be the packet being updated, and fails with ChannelBusy while an
	earlier update is still being transmitted.
*/
func (c *Channel) ProcessMessage(pkt *Packet, now float64) (arrivalTime float64, duration float64, discarded bool, err error) {
	if c.Disabled {
		return 0, 0, true, nil
	}

	if c.DataRate > 0 {
		if pkt.IsUpdate() {
			if c.inFlight == nil {
				return 0, 0, false, New_error(ChannelBusy, "channel %q has no in-flight packet to update", c.FullPath())
			}
			if c.inFlight.IsUpdate() && c.IsBusy(now) {
				return 0, 0, false, New_error(ChannelBusy, "channel %q already carries a pending update", c.FullPath())
			}
			duration = float64(pkt.RemainingBits()) / c.DataRate
			c.inFlight = pkt
			c.txFinishTime = now + duration
		} else {
			if c.IsBusy(now) {
				return 0, 0, false, New_error(ChannelBusy, "channel %q is transmitting until %g", c.FullPath(), c.txFinishTime)
			}
			duration = float64(pkt.BitLength()) / c.DataRate
			c.inFlight = pkt
			c.txFinishTime = now + duration
		}
	}

	arrivalTime = now + c.PropDelay
	if !pkt.DeliveredAtStart() {
		arrivalTime += duration
	}

	discarded = c.draw_discard(pkt)
	return arrivalTime, duration, discarded, nil
}

// draw_discard applies the bit-error / packet-error OR model, per spec §4.D:
// 1-(1-p_b)^bits ORed with p_e, drawn from this channel's own RNG stream so
// repeat runs with the same seed are bit-reproducible (spec §4.H).
func (c *Channel) draw_discard(pkt *Packet) bool {
	if c.BitErrorProb <= 0 && c.PacketErrorProb <= 0 {
		return false
	}
	bitErrProb := 1 - math.Pow(1-c.BitErrorProb, float64(pkt.BitLength()))
	if c.rng.Float64() < bitErrProb {
		return true
	}
	if c.PacketErrorProb > 0 && c.rng.Float64() < c.PacketErrorProb {
		return true
	}
	return false
}
