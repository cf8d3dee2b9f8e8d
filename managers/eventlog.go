// vi: sw=4 ts=4:

/*

	Mnemonic:	eventlog
	Abstract:	Line-oriented event log (spec §6): one JSON record per
				delivered event, written as the run progresses, and a reader
				side that can play a previously written log back in. Writing
				is grounded on the aistore pack's use of json-iterator for
				hot-path marshaling; reading is grounded directly on the
				teacher's own agent.go, which buffered a byte stream through
				jsontools.Jsoncache and pulled out one complete JSON blob at
				a time with Get_blob() -- the event log reader reuses that
				exact pattern against a log file instead of a socket.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : New.
*/

package managers

import (
	"bufio"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/att/gopkgs/jsontools"

	"github.com/att/nsim/gizmos"
)

var eventlog_json = jsoniter.ConfigCompatibleWithStandardLibrary

/*
	Event_record is one line of the event log: enough to reconstruct
	"what happened when" without needing the live module tree (spec §6).
*/
type Event_record struct {
	SimTime   float64 `json:"sim_time"`
	EventSeq  int64   `json:"event_seq"`
	ModuleID  int     `json:"module_id"`
	Module    string  `json:"module"`
	MsgName   string  `json:"msg_name"`
	MsgKind   int     `json:"msg_kind"`
	Priority  int     `json:"priority"`
	Corr      string  `json:"correlation"`
}

// Event_logger appends one JSON record per call to Log.
type Event_logger struct {
	w   io.Writer
	enc *jsoniter.Encoder
}

func Mk_event_logger(w io.Writer) *Event_logger {
	return &Event_logger{w: w, enc: jsoniter.NewEncoder(w)}
}

/*
	Log records dest's delivery of msg at the kernel's current sim time.
	Errors are deliberately swallowed past a Baa(1) -- a broken log
	stream must never abort a run (spec §6: "event logging is an
	observability aid, not a correctness dependency").
*/
func (el *Event_logger) Log(k *Kernel, dest *Module, msg *gizmos.Message) {
	rec := Event_record{
		SimTime:  k.SimTime(),
		EventSeq: k.EventCount(),
		ModuleID: dest.ID(),
		Module:   dest.FullPath(),
		MsgName:  msg.Name(),
		MsgKind:  int(msg.Kind()),
		Priority: msg.Priority(),
		Corr:     msg.Correlation().String(),
	}
	if err := el.enc.Encode(rec); err != nil {
		eng_sheep.Baa(1, "event log write failed: %v", err)
	}
}

/*
	Event_log_reader replays a previously written log, one record at a
	time, using the teacher's buffered-blob-cache idiom (jsontools) so a
	log can be streamed rather than read whole into memory.
*/
type Event_log_reader struct {
	src   *bufio.Reader
	cache *jsontools.Jsoncache
}

func Mk_event_log_reader(r io.Reader) *Event_log_reader {
	return &Event_log_reader{src: bufio.NewReader(r), cache: jsontools.Mk_jsoncache()}
}

/*
	Next returns the next Event_record from the log, or io.EOF once the
	underlying reader is exhausted and no partial blob remains buffered.
*/
func (er *Event_log_reader) Next() (*Event_record, error) {
	for {
		if blob := er.cache.Get_blob(); blob != nil {
			var rec Event_record
			if err := eventlog_json.Unmarshal(blob, &rec); err != nil {
				return nil, gizmos.Wrap_error(gizmos.InternalError, err)
			}
			return &rec, nil
		}

		buf := make([]byte, 4096)
		n, err := er.src.Read(buf)
		if n > 0 {
			er.cache.Add_bytes(buf[:n])
		}
		if err != nil {
			if blob := er.cache.Get_blob(); blob != nil {
				var rec Event_record
				if uerr := eventlog_json.Unmarshal(blob, &rec); uerr != nil {
					return nil, gizmos.Wrap_error(gizmos.InternalError, uerr)
				}
				return &rec, nil
			}
			return nil, err
		}
	}
}
