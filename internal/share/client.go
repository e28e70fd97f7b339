package share

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"screendraw/internal/state"
)

// Viewer mirrors a remote overlay onto a local board.
type Viewer struct {
	conn  *websocket.Conn
	board *state.Board

	// OnUpdate is called after every applied message so the window can
	// repaint. May be called from the read goroutine.
	OnUpdate func()
}

// Dial connects to a host given its screendraw:// link or bare host:port.
func Dial(link string, board *state.Board) (*Viewer, error) {
	addr := strings.TrimPrefix(link, URLScheme)
	addr = strings.TrimSuffix(addr, "/")

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return &Viewer{conn: conn, board: board}, nil
}

// Run consumes messages until the host goes away. Blocks; run it on its own
// goroutine.
func (v *Viewer) Run() error {
	defer v.conn.Close()
	for {
		var msg Message
		if err := v.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("host connection lost: %w", err)
		}
		v.handle(msg)
		if v.OnUpdate != nil {
			v.OnUpdate()
		}
	}
}

func (v *Viewer) handle(msg Message) {
	switch msg.Type {
	case MessageSnapshot:
		if err := v.board.RestoreJSON(msg.Snapshot); err != nil {
			log.Printf("bad snapshot from host: %v", err)
		}
	case MessageEvent:
		v.applyEvent(msg.Event)
	default:
		log.Printf("ignoring unknown message type %q", msg.Type)
	}
}

func (v *Viewer) applyEvent(ev *state.Event) {
	if ev == nil {
		return
	}
	switch ev.Kind {
	case state.EventApply:
		if ev.Action != nil {
			v.board.Apply(*ev.Action)
		}
	case state.EventUndo:
		if ev.Action != nil {
			v.board.Unapply(ev.Action.ID)
		}
	case state.EventRedo:
		if ev.Action != nil {
			v.board.Reapply(*ev.Action)
		}
	}
}

// Close drops the connection; Run returns shortly after.
func (v *Viewer) Close() error {
	return v.conn.Close()
}
