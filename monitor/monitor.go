// Package monitor is a minimal live viewer for a running simulation: it
// serves one HTML page and fans the solver's day-by-day snapshots out to
// any number of connected viewers over a websocket. It is pure
// observability — disabled unless explicitly configured, and never
// consulted by the solver for correctness.
package monitor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
)

const (
	writeWait      = 1 * time.Second
	pingResolution = 500 * time.Millisecond
	pubResolution  = 100 * time.Millisecond
)

// Snapshot is one published day's trajectory column.
type Snapshot struct {
	Col int       `json:"col"`
	T   float64   `json:"t"`
	U   []int     `json:"u"`
	V   []float64 `json:"v"`
}

var upgrader = websocket.Upgrader{}

// Broadcaster fans one solver-produced snapshot stream out to every
// currently-connected websocket client, rate-limiting publication so a
// fast solver doesn't overwhelm a slow browser tab.
type Broadcaster struct {
	source chan Snapshot
	done   <-chan struct{}
}

// NewBroadcaster starts the broadcaster; done, when closed, shuts down all
// publication goroutines.
func NewBroadcaster(done <-chan struct{}) *Broadcaster {
	return &Broadcaster{source: make(chan Snapshot, 16), done: done}
}

// Publish implements solver.SnapshotSink. Non-blocking: a snapshot is
// dropped rather than stalling the solver's output phase if no consumer is
// currently reading.
func (b *Broadcaster) Publish(col int, t float64, u []int, v []float64) {
	snap := Snapshot{
		Col: col, T: t,
		U: append([]int(nil), u...),
		V: append([]float64(nil), v...),
	}
	select {
	case b.source <- snap:
	default:
	}
}

// Server serves the live viewer page and websocket endpoint.
type Server struct {
	addr string
	bc   *Broadcaster
}

// NewServer builds a monitor server bound to addr, fed by bc.
func NewServer(addr string, bc *Broadcaster) *Server {
	return &Server{addr: addr, bc: bc}
}

// Serve blocks, serving "/" (a static page) and "/ws" (the snapshot feed).
func (s *Server) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex)
	r.HandleFunc("/ws", s.serveWebsocket)
	return http.ListenAndServe(s.addr, r)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("monitor: upgrade failed:", err)
		return
	}
	defer ws.Close()
	s.publish(r.Context(), ws)
}

// publish fans one client's feed from the broadcaster's shared source
// channel, broadcast via channerics so each connected viewer gets its own
// copy of every snapshot without blocking the others.
func (s *Server) publish(ctx context.Context, ws *websocket.Conn) {
	pubCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	clientFeed := channerics.Broadcast(s.bc.done, s.bc.source, 1)[0]
	pinger := channerics.NewTicker(pubCtx.Done(), pingResolution)
	last := time.Now()

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case snap, ok := <-clientFeed:
			if !ok {
				return
			}
			if time.Since(last) < pubResolution {
				continue
			}
			last = time.Now()
			payload, err := json.Marshal(snap)
			if err != nil {
				log.Println("monitor: marshal failed:", err)
				continue
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

const indexPage = `<!DOCTYPE html>
<html><head><title>simnet live trajectory</title></head>
<body>
<pre id="out"></pre>
<script>
  const ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = (ev) => {
    document.getElementById("out").textContent = ev.data;
  };
</script>
</body></html>`
