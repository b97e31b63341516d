// Package realtime pushes the two between-call numbers a generation host
// cares about (spec §5: "splits the long-running task so the host can show
// two real numbers") over a WebSocket channel keyed by generation id. It
// carries no puzzle-solving state of its own; the orchestrator owns that.
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/crossplay/satxword/pkg/puzzle"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	// Server to client, in that order for any one generation.
	MsgEncoded MessageType = "encoded"
	MsgSolved  MessageType = "solved"
	MsgError   MessageType = "error"
)

// Message is the envelope written to the wire.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodedPayload reports the CNF size produced by EncodeProblem.
type EncodedPayload struct {
	GenerationID string  `json:"generationId"`
	Variables    int     `json:"variables"`
	Clauses      int     `json:"clauses"`
	EncodingMs   float64 `json:"encodingMs"`
}

// SolvedPayload carries the finished puzzle from SolveProblem.
type SolvedPayload struct {
	GenerationID string          `json:"generationId"`
	Puzzle       *puzzle.Puzzle  `json:"puzzle,omitempty"`
	SolveMs      float64         `json:"solveMs"`
}

// ErrorPayload reports a failed generation (e.g. Unsatisfiable).
type ErrorPayload struct {
	GenerationID string `json:"generationId"`
	Message      string `json:"message"`
}

// Client is one WebSocket connection subscribed to a single generation id.
// ServeWs (ws.go) owns the actual socket; its write pump reads from Send and
// writes frames.
type Client struct {
	GenerationID string
	Send         chan []byte
}

// Hub fans generation events out to every client watching that generation.
type Hub struct {
	clients    map[string]map[*Client]bool // generationID -> subscribed clients
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[client.GenerationID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.GenerationID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			log.Printf("realtime: client subscribed to generation %s", client.GenerationID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if set, ok := h.clients[client.GenerationID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.clients, client.GenerationID)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastEncoded notifies every client watching generationID that
// EncodeProblem finished.
func (h *Hub) BroadcastEncoded(generationID string, variables, clauses int, encodingMs float64) {
	h.broadcast(generationID, MsgEncoded, EncodedPayload{
		GenerationID: generationID,
		Variables:    variables,
		Clauses:      clauses,
		EncodingMs:   encodingMs,
	})
}

// BroadcastSolved notifies every client watching generationID that
// SolveProblem finished with a satisfying assignment.
func (h *Hub) BroadcastSolved(generationID string, puz *puzzle.Puzzle, solveMs float64) {
	h.broadcast(generationID, MsgSolved, SolvedPayload{
		GenerationID: generationID,
		Puzzle:       puz,
		SolveMs:      solveMs,
	})
}

// BroadcastError notifies every client watching generationID that the
// generation failed (e.g. the CNF was unsatisfiable).
func (h *Hub) BroadcastError(generationID string, message string) {
	h.broadcast(generationID, MsgError, ErrorPayload{
		GenerationID: generationID,
		Message:      message,
	})
}

func (h *Hub) broadcast(generationID string, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: marshal payload for %s: %v", msgType, err)
		return
	}

	msgData, err := json.Marshal(Message{Type: msgType, Payload: data})
	if err != nil {
		log.Printf("realtime: marshal envelope for %s: %v", msgType, err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients[generationID] {
		select {
		case client.Send <- msgData:
		default:
			// Slow consumer; drop rather than block the generation pipeline.
		}
	}
}
