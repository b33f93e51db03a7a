package main

import (
	"fmt"
	"strings"
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}

	canvasHeight := m.height - 1
	if canvasHeight < 1 {
		canvasHeight = 1
	}
	scr := newScreen(m.width, canvasHeight)

	for _, conn := range m.doc.Connections() {
		m.drawConnection(scr, conn)
	}
	if active := m.doc.Active(); active != nil {
		m.drawConnection(scr, active)
	}
	for _, inst := range m.doc.Instances() {
		m.drawInstance(scr, inst)
	}
	if m.cursorY >= 0 && m.cursorY < canvasHeight && m.cursorX >= 0 && m.cursorX < m.width {
		scr.kinds[m.cursorY][m.cursorX] = cellCursor
	}

	if m.mode == ModePlacing {
		overlayPalette(scr, m.palette, m.paletteIndex, canvasHeight)
	}

	lines := make([]string, 0, m.height)
	for y := range scr.cells {
		lines = append(lines, m.renderRow(scr, y))
	}

	lines = append(lines, m.statusLine())
	return strings.Join(lines, "\n")
}

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellSymbol
	cellSelected
	cellConnection
	cellGrip
	cellCursor
)

// screen is a rune grid with a parallel per-cell kind layer; the kind
// decides which theme style colors the cell at render time.
type screen struct {
	cells [][]rune
	kinds [][]cellKind
}

func newScreen(w, h int) *screen {
	s := &screen{
		cells: make([][]rune, h),
		kinds: make([][]cellKind, h),
	}
	for y := range s.cells {
		s.cells[y] = make([]rune, w)
		s.kinds[y] = make([]cellKind, w)
		for x := range s.cells[y] {
			s.cells[y][x] = ' '
		}
	}
	return s
}

func (s *screen) set(x, y int, r rune, k cellKind) {
	if y < 0 || y >= len(s.cells) || x < 0 || x >= len(s.cells[y]) {
		return
	}
	s.cells[y][x] = r
	s.kinds[y][x] = k
}

// renderRow styles a row in runs of equal cell kind so escape codes
// are emitted once per run, not per character.
func (m model) renderRow(s *screen, y int) string {
	var b strings.Builder
	row := s.cells[y]
	kinds := s.kinds[y]
	for x := 0; x < len(row); {
		k := kinds[x]
		start := x
		for x < len(row) && kinds[x] == k {
			x++
		}
		run := string(row[start:x])
		switch k {
		case cellSymbol:
			b.WriteString(m.theme.Symbol.Render(run))
		case cellSelected, cellCursor:
			b.WriteString(m.theme.Selected.Render(run))
		case cellConnection:
			b.WriteString(m.theme.Connection.Render(run))
		case cellGrip:
			b.WriteString(m.theme.GripMarker.Render(run))
		default:
			b.WriteString(run)
		}
	}
	return b.String()
}

func (m model) drawInstance(scr *screen, inst *SymbolInstance) {
	drawInstanceCells(scr, inst, m.screenCell)

	// Grip markers when the cursor is nearby or a draw is in flight.
	showGrips := m.mode == ModeConnecting
	if !showGrips {
		showGrips = inst.Bounds().Grow(gripHoverRange).Contains(m.worldCoords())
	}
	if showGrips {
		for i := range inst.Grips() {
			gx, gy := m.screenCell(inst.GripPoint(i))
			scr.set(gx, gy, 'o', cellGrip)
		}
	}
}

func (m model) drawConnection(scr *screen, conn *Connection) {
	drawConnectionCells(scr, conn, m.screenCell)
}

// drawInstanceCells renders an instance's box and caption through an
// arbitrary world-to-cell mapping, shared by the live view and the
// text export.
func drawInstanceCells(scr *screen, inst *SymbolInstance, cell func(Point) (int, int)) {
	x0, y0 := cell(inst.Bounds().TopLeft())
	x1, y1 := cell(Point{inst.X + inst.Width, inst.Y + inst.Height})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	h, v := '-', '|'
	corner := '+'
	kind := cellSymbol
	if inst.Selected {
		h, v, corner = '#', '#', '#'
		kind = cellSelected
	}
	for x := x0; x <= x1; x++ {
		scr.set(x, y0, h, kind)
		scr.set(x, y1, h, kind)
	}
	for y := y0; y <= y1; y++ {
		scr.set(x0, y, v, kind)
		scr.set(x1, y, v, kind)
	}
	scr.set(x0, y0, corner, kind)
	scr.set(x1, y0, corner, kind)
	scr.set(x0, y1, corner, kind)
	scr.set(x1, y1, corner, kind)

	name := inst.DisplayName()
	if inst.Config.Label != "" {
		name = name + " [" + inst.Config.Label + "]"
	}
	maxLen := x1 - x0 - 1
	if maxLen > 0 {
		// Truncate on runes so a multibyte caption never splits.
		caption := []rune(name)
		if len(caption) > maxLen {
			caption = caption[:maxLen]
		}
		tx := x0 + 1 + (maxLen-len(caption))/2
		ty := (y0 + y1) / 2
		for i, r := range caption {
			scr.set(tx+i, ty, r, kind)
		}
	}
}

func drawConnectionCells(scr *screen, conn *Connection, cell func(Point) (int, int)) {
	path := conn.Path
	for i := 0; i+1 < len(path); i++ {
		x0, y0 := cell(path[i])
		x1, y1 := cell(path[i+1])
		drawSegmentCells(scr, x0, y0, x1, y1)
		if i > 0 {
			scr.set(x0, y0, '+', cellConnection)
		}
	}
	if len(path) >= 2 && conn.State() == StateConnected {
		x, y := cell(path[len(path)-1])
		px, _ := cell(path[len(path)-2])
		switch {
		case px < x:
			scr.set(x, y, '>', cellConnection)
		case px > x:
			scr.set(x, y, '<', cellConnection)
		default:
			scr.set(x, y, 'v', cellConnection)
		}
	}
}

func drawSegmentCells(scr *screen, x0, y0, x1, y1 int) {
	if y0 == y1 {
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x++ {
			scr.set(x, y0, '-', cellConnection)
		}
		return
	}
	if x0 == x1 {
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			scr.set(x0, y, '|', cellConnection)
		}
		return
	}
	// Cell rounding can shear a world-orthogonal segment; draw it as
	// an L through the corner.
	drawSegmentCells(scr, x0, y0, x1, y0)
	drawSegmentCells(scr, x1, y0, x1, y1)
}

func overlayPalette(scr *screen, palette []string, selected, maxHeight int) {
	visible := maxHeight - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := start + visible
	if end > len(palette) {
		end = len(palette)
	}

	row := 0
	for i := start; i < end; i++ {
		marker := "  "
		kind := cellBlank
		if i == selected {
			marker = "> "
			kind = cellSelected
		}
		for x, r := range marker + palette[i] {
			scr.set(x, row, r, kind)
		}
		row++
	}
}

func (m model) statusLine() string {
	t := m.theme

	switch m.mode {
	case ModeFileInput:
		prompt := "Save as: "
		switch m.fileOp {
		case FileOpOpen:
			prompt = "Open: "
		case FileOpRemoteSave:
			prompt = "Publish as: "
		case FileOpRemoteOpen:
			prompt = "Open project: "
		}
		line := t.StatusKey.Render(prompt) + t.StatusBar.Render(m.filename+"_")
		if (m.fileOp == FileOpOpen || m.fileOp == FileOpRemoteOpen) && len(m.fileList) > 0 {
			line += t.StatusBar.Render("  (tab cycles " + fmt.Sprintf("%d files)", len(m.fileList)))
		}
		if m.errorMessage != "" {
			line += " " + t.Warning.Render(m.errorMessage)
		}
		return line
	case ModeConfirm:
		var q string
		switch m.confirmAction {
		case ConfirmDeleteInstance:
			q = "Delete symbol and its connections? (y/n)"
		case ConfirmDeleteConnection:
			q = "Delete connection? (y/n)"
		case ConfirmQuit:
			q = "Quit without saving? (y/n)"
		case ConfirmNewProject:
			q = "Discard current drawing? (y/n)"
		default:
			q = "Are you sure? (y/n)"
		}
		return t.Warning.Render(q)
	}

	parts := []string{
		t.StatusKey.Render(" " + m.modeString() + " "),
		t.StatusBar.Render(fmt.Sprintf(" %d symbols, %d lines ", len(m.doc.Instances()), len(m.doc.Connections()))),
		t.StatusBar.Render(fmt.Sprintf(" zoom %.2fx ", m.doc.Zoom)),
	}
	if m.zPanMode {
		parts = append(parts, t.StatusKey.Render(" PAN "))
	}
	if m.errorMessage != "" {
		parts = append(parts, " "+t.Warning.Render(m.errorMessage))
	} else if m.successMessage != "" {
		parts = append(parts, t.StatusBar.Render(" "+m.successMessage))
	} else {
		parts = append(parts, t.StatusBar.Render(" ? for help "))
	}
	return strings.Join(parts, "")
}

func (m model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "START"
	case ModeNormal:
		return "NORMAL"
	case ModePlacing:
		return "PLACE"
	case ModeConnecting:
		return "CONNECT"
	case ModePathDrag:
		return "ADJUST"
	case ModeMove:
		if m.resizing {
			return "RESIZE"
		}
		return "MOVE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	}
	return ""
}

func (m model) startupView() string {
	lines := []string{
		"",
		"  pfdraw",
		"  ======",
		"",
		"  'n' New drawing",
		"  'o' Open existing drawing",
		"  'q' Quit",
	}
	if m.errorMessage != "" {
		lines = append(lines, "", "  "+m.theme.Warning.Render(m.errorMessage))
	}
	return strings.Join(lines, "\n")
}

var helpLines = []string{
	"pfdraw Help",
	"===========",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→  Move cursor",
	"  Shift+h/j/k/l    Move cursor faster",
	"  z                Toggle pan mode (cursor keys pan the view)",
	"  +/-              Zoom in / out (mouse wheel works too)",
	"",
	"Symbols:",
	"--------",
	"  i                Insert a symbol from the catalog",
	"  m                Move symbol under cursor",
	"  r                Resize symbol under cursor",
	"  d                Delete symbol or line under cursor",
	"  y                Copy symbol tag to clipboard",
	"",
	"Lines:",
	"------",
	"  a                Start a line at the grip under the cursor,",
	"                   press again over a grip to finish",
	"  g                Grab the line under the cursor and drag its",
	"                   shape; the grabbed segment follows the cursor",
	"  Esc              Cancel the gesture",
	"",
	"Files:",
	"------",
	"  s                Save drawing",
	"  o                Open drawing",
	"  S                Export PNG image",
	"  P                Export PDF report",
	"  E                Export equipment list spreadsheet",
	"  C                Export equipment list CSV",
	"  t                Export ASCII snapshot",
	"  p                Publish drawing to the project server",
	"  O                Open a drawing from the project server",
	"",
	"General:",
	"--------",
	"  u / U            Undo / redo",
	"  T                Toggle light/dark theme",
	"  ?                Toggle this help screen",
	"  q / Ctrl+C       Quit",
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	maxScroll := len(helpLines) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if start > maxScroll {
		start = maxScroll
	}
	end := start + visibleHeight
	if end > len(helpLines) {
		end = len(helpLines)
	}
	body := strings.Join(helpLines[start:end], "\n")
	return body + "\n" + m.theme.StatusBar.Render(" j/k scroll, any other key closes ")
}