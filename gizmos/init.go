// vi: sw=4 ts=4:

/*

	Mnemonic:	globals.go
	Abstract:	package level initialisation and constants for the gizmos (core data
				model) package: the message id and message count counters and the
				package sheep.
	Date:		18 March 2014
	Author:		E. Scott Daniels

	Mods:		11 Jun 2014 : Added external level control for bleating, and changed the
					bleat id to gizmos.
				30 Jul 2026 : Added message/object id counters for the simulation core.
*/

package gizmos

import (
	"os"
	"sync/atomic"

	"github.com/att/gopkgs/bleater"
)

var (
	empty_str string = "" // makes &"" possible since that's not legal in go

	obj_sheep *bleater.Bleater // sheep that gizmos have reference to when needing to bleat

	next_msg_id  int64 // monotonically increasing message id counter (§4.C)
	live_msg_cnt int64 // currently-live message count, inc'd on new(), dec'd on delete()
	total_msg_cnt int64 // total messages ever created, never decremented
)

/*
	Initialisation for the package; run once automatically at startup.
*/
func init() {
	obj_sheep = bleater.Mk_bleater(0, os.Stderr) // allocate our bleater
	obj_sheep.Set_prefix("gizmos")
}

/*
	Returns the package's sheep so that the main can attach it to the
	master sheep and thus affect the volume of bleats from this package.
*/
func Get_sheep() *bleater.Bleater {
	return obj_sheep
}

/*
	Provides the external world with a way to adjust the bleat level for gizmos.
*/
func Set_bleat_level(v uint) {
	obj_sheep.Set_level(v)
}

/*
	Next_msg_id hands out the next unique message id. Ids are never reused within
	a process lifetime (§4.C invariant: two distinct messages never share an id).
*/
func Next_msg_id() int64 {
	return atomic.AddInt64(&next_msg_id, 1)
}

/*
	Msg_stats returns the two process-wide counters spec.md §4.C requires be
	observable: total messages ever created, and messages currently live.
*/
func Msg_stats() (total int64, live int64) {
	return atomic.LoadInt64(&total_msg_cnt), atomic.LoadInt64(&live_msg_cnt)
}

/*
	Reset_msg_stats zeroes both counters; tests use it so counts don't
	bleed from one test into the next.
*/
func Reset_msg_stats() {
	atomic.StoreInt64(&total_msg_cnt, 0)
	atomic.StoreInt64(&live_msg_cnt, 0)
}

func msg_created() {
	atomic.AddInt64(&total_msg_cnt, 1)
	atomic.AddInt64(&live_msg_cnt, 1)
}

func msg_destroyed() {
	atomic.AddInt64(&live_msg_cnt, -1)
}
