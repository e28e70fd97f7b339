package share

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer bounds how far a slow viewer may fall behind before it is
// dropped.
const sendBuffer = 64

type viewerConn struct {
	conn *websocket.Conn
	send chan Message
}

// writeLoop is the only writer on the conn after the welcome message, as
// gorilla requires. It drains the queue until Remove closes it.
func (vc *viewerConn) writeLoop(h *Hub) {
	for msg := range vc.send {
		if err := vc.conn.WriteJSON(msg); err != nil {
			log.Printf("dropping viewer %s: %v", vc.conn.RemoteAddr(), err)
			h.Remove(vc.conn)
			return
		}
	}
}

// Hub tracks the viewers connected to a sharing overlay. Each viewer gets a
// buffered queue and its own write goroutine, so Broadcast never blocks on
// a stalled socket.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]*viewerConn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]*viewerConn)}
}

// Add registers a viewer and sends it the given welcome message (the board
// snapshot) before it can receive any broadcast.
func (h *Hub) Add(conn *websocket.Conn, welcome Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(welcome); err != nil {
		return err
	}
	vc := &viewerConn{conn: conn, send: make(chan Message, sendBuffer)}
	h.conns[conn] = vc
	go vc.writeLoop(h)
	log.Printf("viewer connected: %s", conn.RemoteAddr())
	return nil
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

func (h *Hub) removeLocked(conn *websocket.Conn) {
	if vc, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(vc.send)
		conn.Close()
		log.Printf("viewer disconnected: %s", conn.RemoteAddr())
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast queues a message for every viewer. A viewer whose queue is full
// is too far behind to mirror faithfully and is dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, vc := range h.conns {
		select {
		case vc.send <- msg:
		default:
			log.Printf("dropping stalled viewer %s", conn.RemoteAddr())
			h.removeLocked(conn)
		}
	}
}

// Close disconnects all viewers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		h.removeLocked(conn)
	}
}
