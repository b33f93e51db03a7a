package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// The editor reads and writes two JSON dialects: the web-interchange
// format shared with the browser front-end (items under canvasState)
// and the legacy desktop format (items under a root components key).
// Which one a file uses is detected on load; saves default to the web
// dialect.

var errUnknownDialect = errors.New("unknown file format")

type webItem struct {
	ID       int         `json:"id"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	SVG      string      `json:"svg"`
	Name     string      `json:"name"`
	Object   string      `json:"object"`
	SNo      string      `json:"s_no"`
	Legend   string      `json:"legend"`
	Suffix   string      `json:"suffix"`
	Label    string      `json:"label"`
	Config   *itemConfig `json:"config,omitempty"`
	Grips    []Grip      `json:"grips"`
}

// itemConfig is the nested config blob both dialects carry. The web
// consumer reads the flat item fields; the desktop reads this.
type itemConfig struct {
	Name   string `json:"name"`
	Object string `json:"object"`
	SNo    string `json:"s_no"`
	Legend string `json:"legend"`
	Suffix string `json:"suffix"`
	Label  string `json:"default_label"`
	Grips  []Grip `json:"grips,omitempty"`
}

// webConnection carries the web fields plus the desktop-only routing
// extras, preserved so a desktop round trip through the web dialect
// loses nothing. The web consumer ignores them.
type webConnection struct {
	ID              int     `json:"id"`
	SourceItemID    int     `json:"sourceItemId"`
	SourceGripIndex int     `json:"sourceGripIndex"`
	TargetItemID    *int    `json:"targetItemId"`
	TargetGripIndex int     `json:"targetGripIndex"`
	Waypoints       []Point `json:"waypoints"`
	StartSide       Side    `json:"start_side"`
	EndSide         Side    `json:"end_side"`
	PathOffset      float64 `json:"path_offset"`
	StartAdjust     float64 `json:"start_adjust"`
	EndAdjust       float64 `json:"end_adjust"`
}

type webDocument struct {
	Version       string `json:"version"`
	DisplayedAt   string `json:"displayedAt,omitempty"`
	EditorVersion string `json:"editorVersion,omitempty"`
	CanvasState   *struct {
		Items           []webItem       `json:"items"`
		Connections     []webConnection `json:"connections"`
		SequenceCounter int             `json:"sequenceCounter"`
	} `json:"canvasState,omitempty"`
	Viewport *struct {
		Scale    float64 `json:"scale"`
		Position Point   `json:"position"`
	} `json:"viewport,omitempty"`
	Project *struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	} `json:"project,omitempty"`

	// Legacy dialect fields, populated when the root carries
	// components directly.
	Components        []legacyItem       `json:"components,omitempty"`
	LegacyConnections []legacyConnection `json:"connections,omitempty"`
}

type legacyItem struct {
	ID       int         `json:"id"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	SVGPath  string      `json:"svg_path"`
	Config   *itemConfig `json:"config,omitempty"`
}

// EndID is a pointer so a file that omits it loads as a dangling
// connection instead of resolving to item 0.
type legacyConnection struct {
	StartID     int     `json:"start_id"`
	EndID       *int    `json:"end_id"`
	StartGrip   int     `json:"start_grip"`
	EndGrip     int     `json:"end_grip"`
	StartSide   Side    `json:"start_side"`
	EndSide     Side    `json:"end_side"`
	PathOffset  float64 `json:"path_offset"`
	StartAdjust float64 `json:"start_adjust"`
	EndAdjust   float64 `json:"end_adjust"`
}

func configOf(inst *SymbolInstance) *itemConfig {
	return &itemConfig{
		Name:   inst.Config.Name,
		Object: inst.Config.Object,
		SNo:    inst.Config.SNo,
		Legend: inst.Config.Legend,
		Suffix: inst.Config.Suffix,
		Label:  inst.Config.Label,
		Grips:  inst.Config.Grips,
	}
}

// MarshalWeb serializes the document in the web-interchange dialect.
func MarshalWeb(c *Canvas, projectName string) ([]byte, error) {
	doc := webDocument{
		Version:       "1.0.0",
		DisplayedAt:   time.Now().Format(time.RFC3339),
		EditorVersion: "1.0.0",
	}
	doc.CanvasState = &struct {
		Items           []webItem       `json:"items"`
		Connections     []webConnection `json:"connections"`
		SequenceCounter int             `json:"sequenceCounter"`
	}{
		Items:       []webItem{},
		Connections: []webConnection{},
	}

	for _, inst := range c.Instances() {
		doc.CanvasState.Items = append(doc.CanvasState.Items, webItem{
			ID:       inst.ID,
			X:        inst.X,
			Y:        inst.Y,
			Width:    inst.Width,
			Height:   inst.Height,
			Rotation: inst.Rotation,
			SVG:      inst.SVGPath,
			Name:     inst.Config.Name,
			Object:   inst.Config.Object,
			SNo:      inst.Config.SNo,
			Legend:   inst.Config.Legend,
			Suffix:   inst.Config.Suffix,
			Label:    inst.Config.Label,
			Config:   configOf(inst),
			Grips:    inst.Config.Grips,
		})
	}

	for i, conn := range c.Connections() {
		doc.CanvasState.Connections = append(doc.CanvasState.Connections, webConnection{
			ID:              i,
			SourceItemID:    conn.StartID,
			SourceGripIndex: conn.StartGrip,
			TargetItemID:    &conn.EndID,
			TargetGripIndex: conn.EndGrip,
			Waypoints:       conn.Path,
			StartSide:       conn.StartSide,
			EndSide:         conn.EndSide,
			PathOffset:      conn.PathOffset,
			StartAdjust:     conn.StartAdjust,
			EndAdjust:       conn.EndAdjust,
		})
	}
	doc.CanvasState.SequenceCounter = len(doc.CanvasState.Items)

	doc.Viewport = &struct {
		Scale    float64 `json:"scale"`
		Position Point   `json:"position"`
	}{Scale: c.Zoom}
	doc.Project = &struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	}{
		ID:        "desktop-export",
		Name:      projectName,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	return json.MarshalIndent(doc, "", "    ")
}

// MarshalLegacy serializes the document in the legacy desktop dialect.
func MarshalLegacy(c *Canvas) ([]byte, error) {
	out := struct {
		Version     string             `json:"version"`
		Components  []legacyItem       `json:"components"`
		Connections []legacyConnection `json:"connections"`
	}{
		Version:     "1.0",
		Components:  []legacyItem{},
		Connections: []legacyConnection{},
	}
	for _, inst := range c.Instances() {
		out.Components = append(out.Components, legacyItem{
			ID:       inst.ID,
			X:        inst.X,
			Y:        inst.Y,
			Width:    inst.Width,
			Height:   inst.Height,
			Rotation: inst.Rotation,
			SVGPath:  inst.SVGPath,
			Config:   configOf(inst),
		})
	}
	for _, conn := range c.Connections() {
		out.Connections = append(out.Connections, legacyConnection{
			StartID:     conn.StartID,
			EndID:       &conn.EndID,
			StartGrip:   conn.StartGrip,
			EndGrip:     conn.EndGrip,
			StartSide:   conn.StartSide,
			EndSide:     conn.EndSide,
			PathOffset:  conn.PathOffset,
			StartAdjust: conn.StartAdjust,
			EndAdjust:   conn.EndAdjust,
		})
	}
	return json.Marshal(out)
}

func SaveFile(c *Canvas, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := MarshalWeb(c, name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDocument replaces the canvas contents with the parsed document.
// Items whose artifact cannot be resolved are skipped with a warning;
// connections whose source is unknown are dropped and ones whose
// target is unknown load one-sided. A partial document is a
// successful load. Only an unrecognizable dialect is an error.
func LoadDocument(c *Canvas, cat *Catalog, data []byte) error {
	var doc webDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse project file: %w", err)
	}

	var items []webItem
	var conns []webConnection
	switch {
	case doc.CanvasState != nil:
		items = doc.CanvasState.Items
		conns = doc.CanvasState.Connections
	case doc.Components != nil:
		for _, comp := range doc.Components {
			items = append(items, webItem{
				ID:       comp.ID,
				X:        comp.X,
				Y:        comp.Y,
				Width:    comp.Width,
				Height:   comp.Height,
				Rotation: comp.Rotation,
				SVG:      comp.SVGPath,
				Config:   comp.Config,
			})
		}
		for i, lc := range doc.LegacyConnections {
			conns = append(conns, webConnection{
				ID:              i,
				SourceItemID:    lc.StartID,
				SourceGripIndex: lc.StartGrip,
				TargetItemID:    lc.EndID,
				TargetGripIndex: lc.EndGrip,
				StartSide:       lc.StartSide,
				EndSide:         lc.EndSide,
				PathOffset:      lc.PathOffset,
				StartAdjust:     lc.StartAdjust,
				EndAdjust:       lc.EndAdjust,
			})
		}
	default:
		return errUnknownDialect
	}

	c.Clear()
	if doc.Viewport != nil && doc.Viewport.Scale > 0 {
		c.Zoom = doc.Viewport.Scale
	}

	idMap := make(map[int]int)
	for _, item := range items {
		cfg := itemToConfig(item)

		svgPath := item.SVG
		if svgPath == "" || !fileExists(svgPath) {
			name := cfg.Name
			if name == "" {
				name = cfg.Object
			}
			if name == "" && svgPath != "" {
				name = filepath.Base(svgPath)
			}
			found := ""
			if cat != nil && name != "" {
				found = cat.FindArtifact(name)
			}
			if found == "" {
				log.Printf("warning: artifact not found for %q (%s), skipping item %d", name, svgPath, item.ID)
				continue
			}
			svgPath = found
		}

		inst := c.AddInstance(svgPath, cfg, Point{item.X, item.Y})
		if item.Width > 0 {
			inst.Width = item.Width
		}
		if item.Height > 0 {
			inst.Height = item.Height
		}
		inst.Rotation = item.Rotation
		idMap[item.ID] = inst.ID
	}

	for _, wc := range conns {
		startID, ok := idMap[wc.SourceItemID]
		if !ok {
			log.Printf("warning: dropping connection %d: source item %d not loaded", wc.ID, wc.SourceItemID)
			continue
		}
		startSide := wc.StartSide
		if startSide == "" {
			startSide = SideRight
		}
		conn := NewConnection(startID, wc.SourceGripIndex, startSide)
		if wc.TargetItemID != nil {
			if endID, ok := idMap[*wc.TargetItemID]; ok {
				conn.EndID = endID
				conn.EndGrip = wc.TargetGripIndex
				conn.EndSide = wc.EndSide
				if conn.EndSide == "" {
					conn.EndSide = SideLeft
				}
			}
		}
		conn.PathOffset = wc.PathOffset
		conn.StartAdjust = wc.StartAdjust
		conn.EndAdjust = wc.EndAdjust
		conn.CalculatePath(c)
		c.RestoreConnection(conn)
	}

	c.RecalculatePaths()
	return nil
}

func LoadFile(c *Canvas, cat *Catalog, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return LoadDocument(c, cat, data)
}

// itemToConfig rebuilds the explicit config from the nested blob when
// present, or from the flat web fields otherwise.
func itemToConfig(item webItem) ComponentConfig {
	if item.Config != nil {
		return ComponentConfig{
			Name:   item.Config.Name,
			Object: item.Config.Object,
			SNo:    item.Config.SNo,
			Legend: item.Config.Legend,
			Suffix: item.Config.Suffix,
			Label:  item.Config.Label,
			Grips:  item.Config.Grips,
		}
	}
	return ComponentConfig{
		Name:   item.Name,
		Object: item.Object,
		SNo:    item.SNo,
		Legend: item.Legend,
		Suffix: item.Suffix,
		Label:  item.Label,
		Grips:  item.Grips,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
