package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"screendraw/internal/config"
	"screendraw/internal/share"
	"screendraw/internal/state"
	"screendraw/internal/ui"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

func main() {
	args := os.Args
	if len(args) > 1 && strings.HasPrefix(args[1], share.URLScheme) {
		runViewer(args[1])
		return
	}
	runOverlay()
}

// runOverlay is the normal launch path: the drawing window, optionally
// shared to LAN viewers.
func runOverlay() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("using default config: %v", err)
		cfg = config.Default()
	}

	board := state.NewBoard(defaultWidth, defaultHeight, cfg.History.Limit)

	if cfg.Share.Enabled {
		srv := share.NewServer(board)
		if err := srv.Start(cfg.Share.Port); err != nil {
			log.Printf("sharing disabled: %v", err)
		} else {
			defer srv.Close()
			board.SetOnEvent(srv.BroadcastEvent)
			if mdnsSrv, err := share.Advertise(srv.Port()); err != nil {
				log.Printf("mDNS advertise failed: %v", err)
			} else {
				defer mdnsSrv.Shutdown()
			}
			log.Printf("share link: %s", srv.Link())
		}
	}

	widget := ui.NewBoardWidget(board, cfg)
	ui.RunApp(widget, cfg)
}

// browseGrace is how long a viewer keeps waiting for an mDNS answer after
// the lookup call returns; entries are delivered on another goroutine and
// can land just after it.
var browseGrace = 2 * time.Second

// discoverHost runs one mDNS lookup and returns the first host found.
func discoverHost(browse func(found func(addr string)) error) (string, error) {
	found := make(chan string, 1)
	if err := browse(func(addr string) {
		select {
		case found <- addr:
		default:
		}
	}); err != nil {
		return "", fmt.Errorf("mDNS lookup failed: %w", err)
	}
	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(browseGrace):
		return "", errors.New("no shared overlay found on the local network")
	}
}

// runViewer mirrors a remote overlay, read-only. A bare screendraw:// link
// finds a host on the local network via mDNS.
func runViewer(link string) {
	if strings.TrimSuffix(strings.TrimPrefix(link, share.URLScheme), "/") == "" {
		addr, err := discoverHost(share.Browse)
		if err != nil {
			log.Fatalf("%v", err)
		}
		link = share.URLScheme + addr
	}

	log.Printf("starting as viewer for %s", link)
	cfg := config.Default()
	board := state.NewBoard(defaultWidth, defaultHeight, cfg.History.Limit)

	viewer, err := share.Dial(link, board)
	if err != nil {
		log.Fatalf("cannot reach host: %v", err)
	}
	defer viewer.Close()

	widget := ui.NewBoardWidget(board, cfg)
	widget.SetReadOnly(true)
	viewer.OnUpdate = widget.ScheduleRefresh

	go func() {
		if err := viewer.Run(); err != nil {
			log.Printf("viewer stopped: %v", err)
		}
	}()

	ui.RunApp(widget, cfg)
}
