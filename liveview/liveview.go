// Package liveview serves a small websocket dashboard that pushes each
// tick's aggregated Statistics to a connected browser, adapted from the
// grid-world training dashboard's websocket lifecycle (ping/pong, write
// deadlines, close handshake) with the generic multi-view/template
// machinery dropped: a simulation run has exactly one thing worth
// streaming live, the per-tick tally, so one JSON-over-websocket channel
// replaces the view-builder/fastview composition system.
package liveview

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"spreadsim/model"
)

const (
	writeWait      = 1 * time.Second
	pingResolution = 500 * time.Millisecond
	pubResolution  = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// Tick is one tick's worth of live-dashboard state.
type Tick struct {
	Tick  int                          `json:"tick"`
	Stats map[string]model.Statistics `json:"stats"`
}

// Dashboard serves the index page and fans tick updates out to every
// connected websocket client.
type Dashboard struct {
	router  *mux.Router
	updates <-chan Tick
}

// NewDashboard wires a Dashboard to updates, which the caller feeds one
// Tick at a time; engine.Run does not write to it. updates is never closed
// by Dashboard; the caller closes it when the run ends. ctx is not used.
func NewDashboard(ctx context.Context, updates <-chan Tick) *Dashboard {
	d := &Dashboard{
		router:  mux.NewRouter(),
		updates: updates,
	}
	d.router.HandleFunc("/", d.serveIndex).Methods(http.MethodGet)
	d.router.HandleFunc("/ws", d.serveWebsocket)
	return d
}

// Handler returns the dashboard's http.Handler for embedding in a server,
// or serving directly via http.ListenAndServe.
func (d *Dashboard) Handler() http.Handler {
	return d.router
}

func (d *Dashboard) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_ = indexTemplate.Execute(w, nil)
}

func (d *Dashboard) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer closeWebsocket(ws)
	d.publish(r.Context(), ws)
}

// publish pushes ticks from d.updates to ws, at most once per
// pubResolution, and closes the connection when the client stops
// responding to pings or disconnects. Modeled directly on the grid-world
// dashboard's publishEleUpdates loop.
func (d *Dashboard) publish(ctx context.Context, ws *websocket.Conn) {
	pubCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pong := make(chan struct{})
	defer close(pong)
	ws.SetPongHandler(func(string) error {
		pong <- struct{}{}
		return nil
	})

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	pinger := channerics.NewTicker(pubCtx.Done(), pingResolution)
	lastPong := time.Now()
	lastPublish := time.Now()

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingResolution*4 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case tick, ok := <-d.updates:
			if !ok {
				return
			}
			if time.Since(lastPublish) < pubResolution {
				continue
			}
			lastPublish = time.Now()
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(tick); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = ws.Close()
}

// MarshalTick is exposed for callers (tests, CLI) that want to confirm a
// Tick serializes the way the dashboard client expects.
func MarshalTick(t Tick) ([]byte, error) {
	return json.Marshal(t)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><link rel="icon" href="data:,"></head>
<body>
<pre id="stats">waiting for tick 0...</pre>
<script>
  const ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function(event) {
    document.getElementById("stats").textContent = event.data;
  };
</script>
</body>
</html>
`))
