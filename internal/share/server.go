package share

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	netutil "screendraw/internal/net"
	"screendraw/internal/state"
)

// URLScheme prefixes the share link handed to viewers.
const URLScheme = "screendraw://"

// Server exposes a board to LAN viewers over a websocket. The overlay is
// the only writer; viewers just mirror committed events.
type Server struct {
	board    *state.Board
	hub      *Hub
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

func NewServer(board *state.Board) *Server {
	return &Server{
		board: board,
		hub:   NewHub(),
		upgrader: websocket.Upgrader{
			// Viewers are native clients on the LAN, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start listens on the given port (0 picks a free one) and serves viewers
// in the background.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("share server already started")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("share server listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	srv := &http.Server{Handler: mux}

	s.listener = listener
	s.http = srv
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("share server stopped: %v", err)
		}
	}()

	log.Printf("share server listening on %s", listener.Addr())
	return nil
}

// Port returns the bound port. Only valid after Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Link builds the screendraw:// link a viewer passes on its command line.
func (s *Server) Link() string {
	ip, err := netutil.OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("%s%s:%d", URLScheme, ip, s.Port())
}

// BroadcastEvent forwards a committed board change to every viewer.
// Suitable as the board's event callback.
func (s *Server) BroadcastEvent(ev state.Event) {
	s.hub.Broadcast(Message{Type: MessageEvent, Event: &ev})
}

// ViewerCount reports the number of connected viewers.
func (s *Server) ViewerCount() int {
	return s.hub.Count()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viewer upgrade failed: %v", err)
		return
	}

	snapshot, err := s.board.SnapshotJSON()
	if err != nil {
		log.Printf("snapshot for %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	if err := s.hub.Add(conn, Message{Type: MessageSnapshot, Snapshot: snapshot}); err != nil {
		log.Printf("welcome for %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	// Viewers send nothing; the read loop only detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.Remove(conn)
			conn.Close()
			return
		}
	}
}

// Close stops accepting viewers and disconnects the current ones.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hub.Close()
	if s.http != nil {
		return s.http.Close()
	}
	return nil
}
