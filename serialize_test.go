package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArtifact creates a stand-in SVG so the loader's existence
// check passes.
func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0644))
	return path
}

func savedDoc(t *testing.T) (*Canvas, *Connection) {
	t.Helper()
	dir := t.TempDir()
	doc := NewCanvas()

	a := doc.AddInstance(writeArtifact(t, dir, "Pump.svg"),
		ComponentConfig{Name: "Pump", Legend: "P", Label: "P01"}, Point{12.5, 30.25})
	a.Resize(120, 90)
	b := doc.AddInstance(writeArtifact(t, dir, "Tank.svg"),
		ComponentConfig{Name: "Tank"}, Point{400, 160})
	b.Rotation = 90

	conn := connect(doc, a, b)
	conn.PathOffset = 17.5
	conn.StartAdjust = -4
	conn.EndAdjust = 2.25
	doc.RecalculatePaths()
	doc.Zoom = 1.75
	return doc, conn
}

func requireDocsEquivalent(t *testing.T, want, got *Canvas) {
	t.Helper()
	require.Len(t, got.Instances(), len(want.Instances()))
	for i, w := range want.Instances() {
		g := got.Instances()[i]
		assert.InDelta(t, w.X, g.X, 1e-6)
		assert.InDelta(t, w.Y, g.Y, 1e-6)
		assert.InDelta(t, w.Width, g.Width, 1e-6)
		assert.InDelta(t, w.Height, g.Height, 1e-6)
		assert.InDelta(t, w.Rotation, g.Rotation, 1e-6)
		assert.Equal(t, w.Config, g.Config)
	}
	require.Len(t, got.Connections(), len(want.Connections()))
	for i, w := range want.Connections() {
		g := got.Connections()[i]
		assert.Equal(t, w.StartSide, g.StartSide)
		assert.Equal(t, w.EndSide, g.EndSide)
		assert.InDelta(t, w.PathOffset, g.PathOffset, 1e-6)
		assert.InDelta(t, w.StartAdjust, g.StartAdjust, 1e-6)
		assert.InDelta(t, w.EndAdjust, g.EndAdjust, 1e-6)
	}
}

func TestWebDialectRoundTrip(t *testing.T) {
	doc, conn := savedDoc(t)

	data, err := MarshalWeb(doc, "unit-200")
	require.NoError(t, err)

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, data))

	requireDocsEquivalent(t, doc, loaded)
	assert.InDelta(t, 1.75, loaded.Zoom, 1e-9)

	// Endpoints are remapped through the id map, and the rebuilt path
	// matches the saved geometry.
	got := loaded.Connections()[0]
	assert.Equal(t, loaded.Instances()[0].ID, got.StartID)
	assert.Equal(t, loaded.Instances()[1].ID, got.EndID)
	require.Len(t, got.Path, len(conn.Path))
	for i := range conn.Path {
		assert.InDelta(t, conn.Path[i].X, got.Path[i].X, 1e-6)
		assert.InDelta(t, conn.Path[i].Y, got.Path[i].Y, 1e-6)
	}
}

func TestLegacyDialectRoundTrip(t *testing.T) {
	doc, _ := savedDoc(t)

	data, err := MarshalLegacy(doc)
	require.NoError(t, err)

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, data))
	requireDocsEquivalent(t, doc, loaded)
}

func TestCrossDialectConversionIsStable(t *testing.T) {
	doc, _ := savedDoc(t)

	legacy, err := MarshalLegacy(doc)
	require.NoError(t, err)
	converted := NewCanvas()
	require.NoError(t, LoadDocument(converted, nil, legacy))

	web, err := MarshalWeb(converted, "unit-200")
	require.NoError(t, err)
	reloaded := NewCanvas()
	require.NoError(t, LoadDocument(reloaded, nil, web))

	requireDocsEquivalent(t, converted, reloaded)
}

func TestLoadSkipsUnresolvableItems(t *testing.T) {
	dir := t.TempDir()
	doc := NewCanvas()
	kept := doc.AddInstance(writeArtifact(t, dir, "Pump.svg"),
		ComponentConfig{Name: "Pump"}, Point{0, 0})
	ghost := doc.AddInstance(filepath.Join(dir, "never-written.svg"),
		ComponentConfig{}, Point{300, 100})
	connect(doc, kept, ghost) // target will be unresolvable
	connect(doc, ghost, kept) // source will be unresolvable

	data, err := MarshalWeb(doc, "partial")
	require.NoError(t, err)

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, data), "a partial document is a successful load")

	require.Len(t, loaded.Instances(), 1)
	assert.Equal(t, "Pump", loaded.Instances()[0].Config.Name)

	// The connection whose source vanished is dropped; the one whose
	// target vanished loads dangling.
	require.Len(t, loaded.Connections(), 1)
	dangling := loaded.Connections()[0]
	assert.Equal(t, loaded.Instances()[0].ID, dangling.StartID)
	assert.Equal(t, -1, dangling.EndID)
	assert.Equal(t, StateDrawing, dangling.State())
}

func TestLegacyLoadSkipsUnresolvableItems(t *testing.T) {
	dir := t.TempDir()
	doc := NewCanvas()
	kept := doc.AddInstance(writeArtifact(t, dir, "Pump.svg"),
		ComponentConfig{Name: "Pump"}, Point{0, 0})
	ghost := doc.AddInstance(filepath.Join(dir, "never-written.svg"),
		ComponentConfig{}, Point{300, 100})
	connect(doc, kept, ghost)

	data, err := MarshalLegacy(doc)
	require.NoError(t, err)

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, data), "a partial document is a successful load")

	require.Len(t, loaded.Instances(), 1)
	assert.Equal(t, "Pump", loaded.Instances()[0].Config.Name)
	require.Len(t, loaded.Connections(), 1)
	assert.Equal(t, -1, loaded.Connections()[0].EndID)
	assert.Equal(t, StateDrawing, loaded.Connections()[0].State())
}

func TestLegacyConnectionWithoutEndIDDangles(t *testing.T) {
	dir := t.TempDir()
	svg := writeArtifact(t, dir, "Pump.svg")
	raw := `{
		"version": "1.0",
		"components": [
			{"id": 0, "x": 0, "y": 0, "width": 100, "height": 80, "svg_path": ` + string(mustJSON(t, svg)) + `},
			{"id": 1, "x": 300, "y": 100, "width": 100, "height": 80, "svg_path": ` + string(mustJSON(t, svg)) + `}
		],
		"connections": [
			{"start_id": 1, "start_grip": 1, "start_side": "right"}
		]
	}`

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, []byte(raw)))

	// A missing end_id must not resolve to item 0; the connection stays
	// one-sided.
	require.Len(t, loaded.Connections(), 1)
	conn := loaded.Connections()[0]
	assert.Equal(t, loaded.Instances()[1].ID, conn.StartID)
	assert.Equal(t, -1, conn.EndID)
	assert.Equal(t, StateDrawing, conn.State())
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestLoadUnknownDialect(t *testing.T) {
	loaded := NewCanvas()
	err := LoadDocument(loaded, nil, []byte(`{"something":"else"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownDialect)

	err = LoadDocument(loaded, nil, []byte(`not json`))
	assert.Error(t, err)
}

func TestLoadReplacesExistingContents(t *testing.T) {
	doc, _ := savedDoc(t)
	data, err := MarshalWeb(doc, "unit-200")
	require.NoError(t, err)

	loaded := NewCanvas()
	loaded.AddInstance("stale.svg", ComponentConfig{}, Point{0, 0})
	require.NoError(t, LoadDocument(loaded, nil, data))
	assert.Len(t, loaded.Instances(), 2)
}

func TestSaveAndLoadFile(t *testing.T) {
	doc, _ := savedDoc(t)
	path := filepath.Join(t.TempDir(), "unit-200.json")

	require.NoError(t, SaveFile(doc, path))

	loaded := NewCanvas()
	require.NoError(t, LoadFile(loaded, nil, path))
	requireDocsEquivalent(t, doc, loaded)
}

func TestSequenceCounterMatchesItemCount(t *testing.T) {
	doc, _ := savedDoc(t)
	// Deleting then re-adding leaves seq ahead of the live item count;
	// the saved counter is normalized to the count.
	doc.DeleteInstance(doc.Instances()[1].ID)

	data, err := MarshalWeb(doc, "unit-200")
	require.NoError(t, err)

	var saved struct {
		CanvasState struct {
			SequenceCounter int `json:"sequenceCounter"`
		} `json:"canvasState"`
	}
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, 1, saved.CanvasState.SequenceCounter)

	loaded := NewCanvas()
	require.NoError(t, LoadDocument(loaded, nil, data))
	assert.Equal(t, 1, loaded.SequenceCounter())
}
