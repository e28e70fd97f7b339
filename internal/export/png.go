package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// WritePNG saves the composited canvas, transparency included.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Filename builds a timestamped export path like
// <dir>/screendraw-20060102-150405.png. An empty dir means the current
// directory.
func Filename(dir, ext string) string {
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("screendraw-%s.%s", time.Now().Format("20060102-150405"), ext)
	return filepath.Join(dir, name)
}
