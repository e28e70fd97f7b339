package ui

import (
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"screendraw/internal/config"
	"screendraw/internal/export"
)

// RunApp opens the overlay window and blocks until it closes.
func RunApp(b *BoardWidget, cfg config.Config) {
	myApp := app.New()
	window := myApp.NewWindow("Draw On Screen")
	window.SetPadded(false)
	window.SetContent(b)
	window.Resize(fyne.NewSize(800, 600))

	registerShortcuts(window.Canvas(), b, cfg)
	window.Canvas().Focus(b)
	window.ShowAndRun()
}

func registerShortcuts(c fyne.Canvas, b *BoardWidget, cfg config.Config) {
	bind := func(key fyne.KeyName, fn func()) {
		sc := &desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierControl}
		c.AddShortcut(sc, func(fyne.Shortcut) { fn() })
	}
	bind(fyne.KeyZ, b.Undo)
	bind(fyne.KeyR, b.Redo)
	bind(fyne.KeyS, func() { saveBoard(b, cfg) })
	bind(fyne.KeyE, func() { exportPNG(b, cfg) })
	bind(fyne.KeyP, func() { exportPDF(b, cfg) })
}

func saveBoard(b *BoardWidget, cfg config.Config) {
	data, err := b.Board().SnapshotJSON()
	if err != nil {
		log.Printf("save board: %v", err)
		return
	}
	path := export.Filename(cfg.Export.Dir, "json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("save board: %v", err)
		return
	}
	log.Printf("board saved to %s", path)
}

func exportPNG(b *BoardWidget, cfg config.Config) {
	path := export.Filename(cfg.Export.Dir, "png")
	if err := export.WritePNG(path, b.Board().Image()); err != nil {
		log.Printf("export png: %v", err)
		return
	}
	log.Printf("canvas exported to %s", path)
}

func exportPDF(b *BoardWidget, cfg config.Config) {
	w, h := b.Board().Size()
	path := export.Filename(cfg.Export.Dir, "pdf")
	if err := export.WritePDF(path, b.Board().Actions(), w, h); err != nil {
		log.Printf("export pdf: %v", err)
		return
	}
	log.Printf("canvas exported to %s", path)
}
