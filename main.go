package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := loadConfig()
	catalog := LoadCatalog(cfg.AssetDirectory)
	appCtx := NewAppContext(cfg.Theme)

	p := tea.NewProgram(
		initialModel(cfg, catalog, appCtx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

type model struct {
	width    int
	height   int
	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	doc     *Canvas
	catalog *Catalog
	config  *Config
	appCtx  *AppContext
	theme   *Theme

	// Project server, present only when server_url is configured.
	remote          *RemoteClient
	remoteProjects  []ProjectInfo
	remoteProjectID string

	mode       Mode
	help       bool
	helpScroll int

	undoStack []Action
	redoStack []Action

	// Component palette shown while placing.
	palette      []string
	paletteIndex int

	// In-flight gestures.
	drag      *pathDrag
	moveID    int
	moveStart InstancePlacement
	resizing  bool

	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation

	confirmAction ConfirmAction
	confirmInstID int
	confirmConn   *Connection

	errorMessage   string
	successMessage string
	fromStartup    bool
}

func initialModel(cfg *Config, catalog *Catalog, appCtx *AppContext) model {
	m := model{
		doc:           NewCanvas(),
		catalog:       catalog,
		config:        cfg,
		appCtx:        appCtx,
		mode:          ModeNormal,
		moveID:        -1,
		confirmInstID: -1,
	}
	if cfg.StartMenu {
		m.mode = ModeStartup
	}
	if cfg.ServerURL != "" {
		m.remote = NewRemoteClient(cfg.ServerURL)
	}
	// The subscription fires immediately with the current theme and
	// again on every switch, writing through a pointer every copy of
	// the model shares.
	m.theme = &Theme{}
	appCtx.Subscribe(func(t *Theme) { *m.theme = *t })
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m *model) scanProjectFiles() {
	m.fileList = []string{}

	dir := m.config.SaveDirectory
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			m.selectedFileIndex = -1
			return
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		m.selectedFileIndex = -1
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = strings.TrimSuffix(m.fileList[0], ".json")
	} else {
		m.selectedFileIndex = -1
	}
}

// scanRemoteProjects fills the file picker with the server's project
// names.
func (m *model) scanRemoteProjects() error {
	projects, err := m.remote.ListProjects(context.Background())
	if err != nil {
		return err
	}
	m.remoteProjects = projects
	m.fileList = make([]string, 0, len(projects))
	for _, p := range projects {
		m.fileList = append(m.fileList, p.Name)
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = m.fileList[0]
	} else {
		m.selectedFileIndex = -1
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			switch msg.String() {
			case "j", "down":
				m.helpScroll++
			case "k", "up":
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			default:
				m.help = false
				m.helpScroll = 0
			}
			return m, nil
		}

		switch m.mode {
		case ModeStartup:
			return m.updateStartup(msg)
		case ModeNormal:
			return m.updateNormal(msg)
		case ModePlacing:
			return m.updatePlacing(msg)
		case ModeConnecting:
			return m.updateConnecting(msg)
		case ModePathDrag:
			return m.updatePathDrag(msg)
		case ModeMove:
			return m.updateMove(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateStartup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.doc = NewCanvas()
		m.mode = ModeNormal
		m.errorMessage = ""
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.filename = ""
		m.errorMessage = ""
		m.fromStartup = true
		m.scanProjectFiles()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "q", "ctrl+c":
		if m.config.Confirmations && len(m.doc.Instances()) > 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		return m, nil
	case "z":
		m.zPanMode = !m.zPanMode
		return m, nil
	case "+", "=":
		m.adjustZoom(0.25)
		return m, nil
	case "-", "_":
		m.adjustZoom(-0.25)
		return m, nil
	case "T":
		m.appCtx.ToggleTheme()
		return m, nil
	case "h", "j", "k", "l", "left", "down", "up", "right",
		"H", "J", "K", "L", "shift+left", "shift+down", "shift+up", "shift+right":
		m.handleNavigation(key, m.getMoveSpeed(key))
		return m, nil
	case "i", "b":
		m.palette = m.catalog.ComponentNames()
		if len(m.palette) == 0 {
			m.errorMessage = "no components in catalog"
			return m, nil
		}
		m.paletteIndex = 0
		m.mode = ModePlacing
		return m, nil
	case "a":
		return m.startConnectionAtCursor()
	case "g":
		p := m.worldCoords()
		if conn, seg := m.doc.ConnectionAt(p); conn != nil {
			m.drag = beginPathDrag(m.doc, conn, seg, p)
			m.mode = ModePathDrag
		} else {
			m.errorMessage = "no line under cursor"
		}
		return m, nil
	case "m", "r":
		p := m.worldCoords()
		inst := m.doc.InstanceAt(p)
		if inst == nil {
			m.errorMessage = "no symbol under cursor"
			return m, nil
		}
		m.doc.DeselectAll()
		inst.Selected = true
		m.moveID = inst.ID
		m.moveStart = placementOf(inst)
		m.resizing = key == "r"
		m.mode = ModeMove
		return m, nil
	case "d", "x":
		return m.deleteAtCursor()
	case "y":
		p := m.worldCoords()
		if inst := m.doc.InstanceAt(p); inst != nil && inst.Config.Label != "" {
			if err := writeClipboardText(inst.Config.Label); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "copied " + inst.Config.Label
			}
		}
		return m, nil
	case "u":
		m.undo()
		return m, nil
	case "U":
		m.redo()
		return m, nil
	case "s":
		m.mode = ModeFileInput
		m.fileOp = FileOpSave
		return m, nil
	case "S":
		m.mode = ModeFileInput
		m.fileOp = FileOpSavePNG
		return m, nil
	case "P":
		m.mode = ModeFileInput
		m.fileOp = FileOpSavePDF
		return m, nil
	case "E":
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveXLSX
		return m, nil
	case "C":
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveCSV
		return m, nil
	case "t":
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveTXT
		return m, nil
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.scanProjectFiles()
		return m, nil
	case "p":
		if m.remote == nil {
			m.errorMessage = "no project server configured (set server_url)"
			return m, nil
		}
		m.mode = ModeFileInput
		m.fileOp = FileOpRemoteSave
		return m, nil
	case "O":
		if m.remote == nil {
			m.errorMessage = "no project server configured (set server_url)"
			return m, nil
		}
		if err := m.scanRemoteProjects(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.mode = ModeFileInput
		m.fileOp = FileOpRemoteOpen
		return m, nil
	case "n":
		if m.config.Confirmations && len(m.doc.Instances()) > 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmNewProject
			return m, nil
		}
		m.doc.Clear()
		m.remoteProjectID = ""
		return m, nil
	case "escape":
		m.doc.DeselectAll()
		return m, nil
	}
	return m, nil
}

// startConnectionAtCursor resolves the grip under the cursor and
// begins (or, mid-gesture, finishes) a connection.
func (m model) startConnectionAtCursor() (tea.Model, tea.Cmd) {
	p := m.worldCoords()
	for _, inst := range m.doc.Instances() {
		if !inst.Bounds().Grow(gripHoverRange).Contains(p) {
			continue
		}
		if idx := inst.GripAt(p); idx != -1 {
			side := inst.Grips()[idx].Side
			m.doc.BeginConnection(inst.ID, idx, side)
			m.doc.UpdateDrag(p)
			m.mode = ModeConnecting
			return m, nil
		}
	}
	m.errorMessage = "no grip under cursor"
	return m, nil
}

func (m model) deleteAtCursor() (tea.Model, tea.Cmd) {
	p := m.worldCoords()
	if inst := m.doc.InstanceAt(p); inst != nil {
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteInstance
			m.confirmInstID = inst.ID
			return m, nil
		}
		m.deleteInstance(inst.ID)
		return m, nil
	}
	if conn, _ := m.doc.ConnectionAt(p); conn != nil {
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteConnection
			m.confirmConn = conn
			return m, nil
		}
		m.deleteConnection(conn)
		return m, nil
	}
	m.errorMessage = "nothing under cursor"
	return m, nil
}

func (m *model) deleteInstance(id int) {
	inst, ok := m.doc.Instance(id)
	if !ok {
		return
	}
	removed := m.doc.DeleteInstance(id)
	m.recordAction(ActionDeleteInstance,
		DeleteInstanceData{Instance: inst, Connections: removed}, nil)
}

func (m *model) deleteConnection(conn *Connection) {
	m.doc.DeleteConnection(conn)
	m.recordAction(ActionDeleteConnection, ConnectionData{Connection: conn}, nil)
}

func (m model) updatePlacing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "escape":
		m.mode = ModeNormal
	case "j", "down":
		if m.paletteIndex < len(m.palette)-1 {
			m.paletteIndex++
		}
	case "k", "up":
		if m.paletteIndex > 0 {
			m.paletteIndex--
		}
	case "enter":
		name := m.palette[m.paletteIndex]
		svgPath := m.catalog.FindArtifact(name)
		if svgPath == "" {
			m.errorMessage = fmt.Sprintf("no drawing found for %s", name)
			m.mode = ModeNormal
			return m, nil
		}
		cfg := m.catalog.ConfigByName(name)
		cfg.Label = m.catalog.NextLabel(name)
		inst := m.doc.AddInstance(svgPath, cfg, m.worldCoords())
		m.recordAction(ActionAddInstance, InstanceData{Instance: inst}, nil)
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) updateConnecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "escape":
		m.doc.CancelConnection()
		m.mode = ModeNormal
		return m, nil
	case "a", "enter":
		if conn, ok := m.doc.ReleaseConnection(); ok {
			m.recordAction(ActionAddConnection, ConnectionData{Connection: conn}, nil)
		} else {
			m.errorMessage = "released outside a grip"
		}
		m.mode = ModeNormal
		return m, nil
	case "h", "j", "k", "l", "left", "down", "up", "right",
		"H", "J", "K", "L", "shift+left", "shift+down", "shift+up", "shift+right":
		m.handleNavigation(key, m.getMoveSpeed(key))
		m.doc.UpdateDrag(m.worldCoords())
		return m, nil
	}
	return m, nil
}

func (m model) updatePathDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "escape":
		// Put the parameter back where the gesture found it.
		m.drag.param.set(m.drag.conn, m.drag.startValue)
		m.drag.conn.CalculatePath(m.doc)
		m.drag = nil
		m.mode = ModeNormal
		return m, nil
	case "enter", "g":
		final := m.drag.param.get(m.drag.conn)
		if final != m.drag.startValue {
			m.recordAction(ActionAdjustPath,
				AdjustPathData{Connection: m.drag.conn, Param: m.drag.param, Value: final},
				AdjustPathData{Connection: m.drag.conn, Param: m.drag.param, Value: m.drag.startValue})
		}
		m.drag = nil
		m.mode = ModeNormal
		return m, nil
	case "h", "j", "k", "l", "left", "down", "up", "right",
		"H", "J", "K", "L", "shift+left", "shift+down", "shift+up", "shift+right":
		m.handleNavigation(key, m.getMoveSpeed(key))
		m.drag.Update(m.doc, m.worldCoords())
		return m, nil
	}
	return m, nil
}

func (m model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inst, ok := m.doc.Instance(m.moveID)
	if !ok {
		m.mode = ModeNormal
		return m, nil
	}
	key := msg.String()
	speed := float64(m.getMoveSpeed(key))

	var dx, dy float64
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -cellWorldW * speed
	case "l", "right", "L", "shift+right":
		dx = cellWorldW * speed
	case "k", "up", "K", "shift+up":
		dy = -cellWorldH * speed
	case "j", "down", "J", "shift+down":
		dy = cellWorldH * speed
	case "enter":
		final := placementOf(inst)
		if final != m.moveStart {
			actionType := ActionMoveInstance
			if m.resizing {
				actionType = ActionResizeInstance
			}
			m.recordAction(actionType, final, m.moveStart)
		}
		inst.Selected = false
		m.moveID = -1
		m.mode = ModeNormal
		return m, nil
	case "escape":
		m.applyPlacement(m.moveStart)
		inst.Selected = false
		m.moveID = -1
		m.mode = ModeNormal
		return m, nil
	default:
		return m, nil
	}

	if m.resizing {
		inst.Resize(inst.Width+dx, inst.Height+dy)
	} else {
		inst.MoveBy(dx, dy)
	}
	m.doc.RecalculatePaths()
	return m, nil
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "escape":
		m.mode = ModeNormal
		if m.fromStartup {
			m.mode = ModeStartup
			m.fromStartup = false
		}
		m.filename = ""
		return m, nil
	case "enter":
		if m.filename == "" {
			m.errorMessage = "filename required"
			return m, nil
		}
		return m.runFileOperation()
	case "tab", "down":
		if len(m.fileList) > 0 && (m.fileOp == FileOpOpen || m.fileOp == FileOpRemoteOpen) {
			m.selectedFileIndex = (m.selectedFileIndex + 1) % len(m.fileList)
			m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], ".json")
		}
		return m, nil
	case "shift+tab", "up":
		if len(m.fileList) > 0 && (m.fileOp == FileOpOpen || m.fileOp == FileOpRemoteOpen) {
			m.selectedFileIndex = (m.selectedFileIndex - 1 + len(m.fileList)) % len(m.fileList)
			m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], ".json")
		}
		return m, nil
	case "backspace":
		if len(m.filename) > 0 {
			m.filename = m.filename[:len(m.filename)-1]
		}
		return m, nil
	case "ctrl+v":
		if text, err := readClipboardText(); err == nil {
			m.filename += sanitizeClipboardText(text)
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes {
			m.filename += string(msg.Runes)
		}
		return m, nil
	}
}

func (m model) runFileOperation() (tea.Model, tea.Cmd) {
	var err error
	switch m.fileOp {
	case FileOpSave:
		path := m.config.GetSavePath(m.filename + ".json")
		err = SaveFile(m.doc, path)
		if err == nil {
			m.successMessage = "saved " + path
		}
	case FileOpSavePNG:
		path := m.config.GetSavePath(m.filename + ".png")
		err = ExportToPNG(m.doc, path)
		if err == nil {
			m.successMessage = "exported " + path
		}
	case FileOpSavePDF:
		path := m.config.GetSavePath(m.filename + ".pdf")
		err = ExportToPDF(m.doc, path, m.filename)
		if err == nil {
			m.successMessage = "exported " + path
		}
	case FileOpSaveCSV:
		path := m.config.GetSavePath(m.filename + ".csv")
		err = ExportEquipmentCSV(m.doc, path)
		if err == nil {
			m.successMessage = "exported " + path
		}
	case FileOpSaveXLSX:
		path := m.config.GetSavePath(m.filename + ".xlsx")
		err = ExportEquipmentXLSX(m.doc, path)
		if err == nil {
			m.successMessage = "exported " + path
		}
	case FileOpSaveTXT:
		path := m.config.GetSavePath(m.filename + ".txt")
		err = ExportToTXT(m.doc, path)
		if err == nil {
			m.successMessage = "exported " + path
		}
	case FileOpOpen:
		path := m.config.GetSavePath(m.filename + ".json")
		err = LoadFile(m.doc, m.catalog, path)
		if err == nil {
			m.undoStack = nil
			m.redoStack = nil
			m.remoteProjectID = ""
			m.successMessage = "opened " + path
		}
	case FileOpRemoteSave:
		if m.remoteProjectID != "" {
			err = m.remote.UpdateProject(context.Background(), m.remoteProjectID, m.filename, m.doc)
			if err == nil {
				m.successMessage = "updated project " + m.filename
			}
		} else {
			var info ProjectInfo
			info, err = m.remote.CreateProject(context.Background(), m.filename, m.doc)
			if err == nil {
				m.remoteProjectID = info.ID
				m.successMessage = "published project " + m.filename
			}
		}
	case FileOpRemoteOpen:
		id := ""
		for _, p := range m.remoteProjects {
			if p.Name == m.filename {
				id = p.ID
				break
			}
		}
		if id == "" {
			err = fmt.Errorf("no project named %q on the server", m.filename)
			break
		}
		err = m.remote.FetchProject(context.Background(), id, m.doc, m.catalog)
		if err == nil {
			m.remoteProjectID = id
			m.undoStack = nil
			m.redoStack = nil
			m.successMessage = "opened project " + m.filename
		}
	}

	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	m.mode = ModeNormal
	m.fromStartup = false
	m.filename = ""
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirmAction {
		case ConfirmDeleteInstance:
			m.deleteInstance(m.confirmInstID)
			m.confirmInstID = -1
		case ConfirmDeleteConnection:
			m.deleteConnection(m.confirmConn)
			m.confirmConn = nil
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmNewProject:
			m.doc.Clear()
			m.undoStack = nil
			m.redoStack = nil
			m.remoteProjectID = ""
		}
		m.mode = ModeNormal
	case "n", "N", "escape":
		m.mode = ModeNormal
		m.confirmInstID = -1
		m.confirmConn = nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.worldCoordsAt(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseWheelUp:
		m.adjustZoom(0.25)
		return m, nil
	case tea.MouseWheelDown:
		m.adjustZoom(-0.25)
		return m, nil

	case tea.MouseLeft:
		m.cursorX, m.cursorY = msg.X, msg.Y
		if m.mode != ModeNormal {
			return m, nil
		}
		for _, inst := range m.doc.Instances() {
			if !inst.Bounds().Grow(gripHoverRange).Contains(p) {
				continue
			}
			if idx := inst.GripAt(p); idx != -1 {
				side := inst.Grips()[idx].Side
				m.doc.BeginConnection(inst.ID, idx, side)
				m.doc.UpdateDrag(p)
				m.mode = ModeConnecting
				return m, nil
			}
		}
		if conn, seg := m.doc.ConnectionAt(p); conn != nil {
			m.drag = beginPathDrag(m.doc, conn, seg, p)
			m.mode = ModePathDrag
			return m, nil
		}
		if inst := m.doc.InstanceAt(p); inst != nil {
			m.doc.DeselectAll()
			inst.Selected = true
			m.moveID = inst.ID
			m.moveStart = placementOf(inst)
			m.resizing = false
			m.mode = ModeMove
			return m, nil
		}
		m.doc.DeselectAll()
		return m, nil

	case tea.MouseMotion:
		m.cursorX, m.cursorY = msg.X, msg.Y
		switch m.mode {
		case ModeConnecting:
			m.doc.UpdateDrag(p)
		case ModePathDrag:
			m.drag.Update(m.doc, p)
		case ModeMove:
			if inst, ok := m.doc.Instance(m.moveID); ok {
				inst.MoveBy(p.X-inst.X-inst.Width/2, p.Y-inst.Y-inst.Height/2)
				m.doc.RecalculatePaths()
			}
		}
		return m, nil

	case tea.MouseRelease:
		switch m.mode {
		case ModeConnecting:
			if conn, ok := m.doc.ReleaseConnection(); ok {
				m.recordAction(ActionAddConnection, ConnectionData{Connection: conn}, nil)
			}
			m.mode = ModeNormal
		case ModePathDrag:
			final := m.drag.param.get(m.drag.conn)
			if final != m.drag.startValue {
				m.recordAction(ActionAdjustPath,
					AdjustPathData{Connection: m.drag.conn, Param: m.drag.param, Value: final},
					AdjustPathData{Connection: m.drag.conn, Param: m.drag.param, Value: m.drag.startValue})
			}
			m.drag = nil
			m.mode = ModeNormal
		case ModeMove:
			if inst, ok := m.doc.Instance(m.moveID); ok {
				final := placementOf(inst)
				if final != m.moveStart {
					m.recordAction(ActionMoveInstance, final, m.moveStart)
				}
				inst.Selected = false
			}
			m.moveID = -1
			m.mode = ModeNormal
		}
		return m, nil
	}
	return m, nil
}
