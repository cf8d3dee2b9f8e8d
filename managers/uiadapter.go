// vi: sw=4 ts=4:

/*

	Mnemonic:	uiadapter
	Abstract:	External observer transport for a running simulation (spec
				§6's optional telemetry/GUI surface): a websocket broadcast
				of run-progress frames for a browser front end, plus a
				plain-TCP control listener for line-oriented commands from a
				lighter client (pause/resume/stop). Grounded on the
				teacher's own agent.go connection manager: a
				github.com/att/gopkgs/connman.Cmgr fed a channel of
				Sess_data and the teacher branched on ST_NEW/ST_DATA/ST_DISC
				to track sessions and push data to them with send2one/
				send2all -- the control listener here keeps that exact
				session-channel shape. The websocket half is grounded on
				nugget-thane-ai-agent's use of
				github.com/gorilla/websocket for its own live-update feed.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the agent TCP session manager into
					the simulation core's external observer adapter.
*/

package managers

import (
	"net/http"
	"sync"

	"github.com/att/gopkgs/connman"
	"github.com/gorilla/websocket"
)

var ws_upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

/*
	Progress_frame is one broadcast update sent to every connected
	observer.
*/
type Progress_frame struct {
	SimTime  float64 `json:"sim_time"`
	Events   int64   `json:"events"`
	Reason   string  `json:"reason"`
}

/*
	Ui_adapter fans a stream of Progress_frame values out to every
	connected websocket client, and separately accepts line-oriented
	control commands over a plain TCP port via connman (spec §6: a
	minimal control surface, not a full remote-control protocol).
*/
type Ui_adapter struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	cmgr     *connman.Cmgr
	sessChan chan *connman.Sess_data
	Commands chan string // decoded textual commands from control-port clients
}

func Mk_ui_adapter() *Ui_adapter {
	return &Ui_adapter{
		clients:  map[*websocket.Conn]bool{},
		Commands: make(chan string, 64),
	}
}

/*
	Upgrade promotes an incoming HTTP request to a websocket and registers
	the connection for broadcast. Intended as an http.HandlerFunc.
*/
func (ua *Ui_adapter) Upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := ws_upgrader.Upgrade(w, r, nil)
	if err != nil {
		eng_sheep.Baa(1, "ui adapter: websocket upgrade failed: %v", err)
		return
	}
	ua.mu.Lock()
	ua.clients[conn] = true
	ua.mu.Unlock()

	go func() {
		defer func() {
			ua.mu.Lock()
			delete(ua.clients, conn)
			ua.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes frame as JSON to every connected websocket client.
func (ua *Ui_adapter) Broadcast(frame Progress_frame) {
	ua.mu.Lock()
	defer ua.mu.Unlock()
	for conn := range ua.clients {
		if err := conn.WriteJSON(frame); err != nil {
			eng_sheep.Baa(2, "ui adapter: dropping client after write error: %v", err)
			conn.Close()
			delete(ua.clients, conn)
		}
	}
}

/*
	Start_control_port opens a plain-TCP listener on port for
	line-oriented commands (e.g. "pause", "resume", "stop"), following the
	teacher's connman session-channel pattern exactly: a background
	goroutine owns smgr's session channel and is the only reader of it.
*/
func (ua *Ui_adapter) Start_control_port(port int) {
	ua.sessChan = make(chan *connman.Sess_data, 1024)
	ua.cmgr = connman.NewManager(port, ua.sessChan)

	go func() {
		for sd := range ua.sessChan {
			switch sd.State {
			case connman.ST_ACCEPTED, connman.ST_NEW:
				// nothing to do until data arrives.
			case connman.ST_DATA:
				ua.Commands <- string(sd.Buf)
			case connman.ST_DISC:
				// session gone; nothing to clean up on our side.
			}
		}
	}()
}

func (ua *Ui_adapter) Close() {
	ua.mu.Lock()
	for conn := range ua.clients {
		conn.Close()
	}
	ua.clients = map[*websocket.Conn]bool{}
	ua.mu.Unlock()
}
