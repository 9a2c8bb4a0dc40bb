// Package websocket provides WebSocket transport for the maze engine.
//
// The websocket package implements:
//   - Per-maze subscriptions
//   - Streaming of solver steps and final solutions during a replay
//   - Custom event broadcasting
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns all
// subscriptions. Each connection has a read pump and a write pump goroutine;
// only the Hub's Run loop touches the subscription map.
//
// Message Protocol:
//
// Clients subscribe with ?maze=<id> and only listen. Each outgoing frame is one
// JSON Message. A paced replay sends one step per frame and then the solution;
// an instant replay sends everything in a single "replay" frame:
//
//	{"maze_id":"1a2b3c4d","event":"step","step":{"index":0,"kind":"advance",...}}
//	{"maze_id":"1a2b3c4d","event":"solution","solution":{"path":["south","east"],...}}
//	{"maze_id":"1a2b3c4d","event":"replay","steps":[...],"solution":{...}}
//
// Broadcast methods block until the Run loop accepts the message or ctx is done.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("maze"))
//	})
//
//	// Hub is a service.StepSink
//	mazeService.Replay(ctx, mazeID, 50*time.Millisecond, hub)
package websocket
