package main

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX += speed
	case "l", "right", "L", "shift+right":
		m.panX -= speed
	case "k", "up", "K", "shift+up":
		m.panY += speed
	case "j", "down", "J", "shift+down":
		m.panY -= speed
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	if m.height > 1 && m.cursorY >= m.height-1 {
		m.cursorY = m.height - 2
	}
}

// adjustZoom scales the view in steps, clamped so the drawing stays
// usable.
func (m *model) adjustZoom(delta float64) {
	zoom := m.doc.Zoom + delta
	if zoom < 0.25 {
		zoom = 0.25
	}
	if zoom > 4.0 {
		zoom = 4.0
	}
	m.doc.Zoom = zoom
}
