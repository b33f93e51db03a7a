package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Terminal cells are taller than wide; these map a cell to drawing
// units so symbols keep roughly their drawn aspect on screen.
const (
	cellWorldW = 5.0
	cellWorldH = 10.0
)

// worldCoords converts the cursor cell to drawing coordinates,
// accounting for pan and zoom.
func (m *model) worldCoords() Point {
	return m.worldCoordsAt(m.cursorX, m.cursorY)
}

func (m *model) worldCoordsAt(cursorX, cursorY int) Point {
	zoom := m.doc.Zoom
	if zoom <= 0 {
		zoom = 1.0
	}
	return Point{
		X: float64(cursorX+m.panX) * cellWorldW / zoom,
		Y: float64(cursorY+m.panY) * cellWorldH / zoom,
	}
}

// screenCell is the inverse of worldCoordsAt.
func (m *model) screenCell(p Point) (int, int) {
	zoom := m.doc.Zoom
	if zoom <= 0 {
		zoom = 1.0
	}
	return int(p.X*zoom/cellWorldW) - m.panX, int(p.Y*zoom/cellWorldH) - m.panY
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// sanitizeClipboardText reduces pasted text to a single usable line:
// first line only, control characters dropped.
func sanitizeClipboardText(text string) string {
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		text = text[:idx]
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}
