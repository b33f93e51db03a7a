package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportPNGNormalizesAndRestoresZoom(t *testing.T) {
	doc, _ := savedDoc(t)
	doc.Zoom = 2.5
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, ExportToPNG(doc, path))
	assert.InDelta(t, 2.5, doc.Zoom, 1e-9, "zoom must be restored after export")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "not a PNG file")
}

func TestExportRestoresZoomOnError(t *testing.T) {
	doc := NewCanvas()
	doc.Zoom = 3.0

	err := ExportToPNG(doc, filepath.Join(t.TempDir(), "empty.png"))
	assert.Error(t, err, "empty canvas has nothing to export")
	assert.InDelta(t, 3.0, doc.Zoom, 1e-9, "zoom must be restored even when the export fails")
}

func TestExportPDFReport(t *testing.T) {
	doc, _ := savedDoc(t)
	doc.Zoom = 0.5
	path := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, ExportToPDF(doc, path, "Unit 200"))
	assert.InDelta(t, 0.5, doc.Zoom, 1e-9)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "not a PDF file")
}

func TestEquipmentListSortedAndLabeledOnly(t *testing.T) {
	doc := NewCanvas()
	doc.AddInstance("t.svg", ComponentConfig{Name: "Tank", Label: "T02"}, Point{0, 0})
	doc.AddInstance("p.svg", ComponentConfig{Name: "Pump", Label: "P01"}, Point{200, 0})
	doc.AddInstance("x.svg", ComponentConfig{Name: "Unlabeled"}, Point{400, 0})

	rows := equipmentList(doc)
	require.Len(t, rows, 2)
	assert.Equal(t, "P01", rows[0].Tag)
	assert.Equal(t, "T02", rows[1].Tag)
}

func TestExportEquipmentCSV(t *testing.T) {
	doc := NewCanvas()
	doc.AddInstance("p.svg", ComponentConfig{Name: "Pump", Label: "P01", SNo: "3"}, Point{0, 0})
	path := filepath.Join(t.TempDir(), "equipment.csv")

	require.NoError(t, ExportEquipmentCSV(doc, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Tag", "Equipment", "Stream No."}, rows[0])
	assert.Equal(t, []string{"P01", "Pump", "3"}, rows[1])
}

func TestExportEquipmentXLSX(t *testing.T) {
	doc := NewCanvas()
	doc.AddInstance("t.svg", ComponentConfig{Name: "Tank", Label: "T02"}, Point{0, 0})
	doc.AddInstance("p.svg", ComponentConfig{Name: "Pump", Label: "P01", SNo: "3"}, Point{200, 0})
	path := filepath.Join(t.TempDir(), "equipment.xlsx")

	require.NoError(t, ExportEquipmentXLSX(doc, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Equipment")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Tag", "Equipment", "Stream No."}, rows[0])
	assert.Equal(t, []string{"P01", "Pump", "3"}, rows[1])
	assert.Equal(t, []string{"T02", "Tank"}, rows[2])
}

func TestExportToTXT(t *testing.T) {
	doc := NewCanvas()
	doc.AddInstance("p.svg", ComponentConfig{Name: "Pump", Label: "P01"}, Point{0, 0})
	path := filepath.Join(t.TempDir(), "snapshot.txt")

	require.NoError(t, ExportToTXT(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "+", "box corners missing")
	assert.Contains(t, text, "Pump [P01]", "caption missing")

	assert.Error(t, ExportToTXT(NewCanvas(), filepath.Join(t.TempDir(), "empty.txt")))
}
