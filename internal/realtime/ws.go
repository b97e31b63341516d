package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Connection tuning mirrors the gorilla/websocket chat example: a write
// deadline per frame, a read deadline renewed by pong, and a ping ticker
// comfortably inside that read deadline.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket, subscribes the
// connection to generationID's events, and pumps messages until either
// side closes.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, generationID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{GenerationID: generationID, Send: make(chan []byte, 16)}
	hub.Register(client)

	go readPump(hub, client, conn)
	go writePump(client, conn)
	return nil
}

// readPump's only job is noticing the client went away; the generation
// channel is one-directional (server to client).
func readPump(hub *Hub, client *Client, conn *websocket.Conn) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(client *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
