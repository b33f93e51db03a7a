package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "svg"), 0755))

	gripsJSON := `[
		{
			"component": "Centrifugal Pump",
			"name": "Centrifugal Pump",
			"legend": "P",
			"grips": [
				{"x": 0, "y": 50, "side": "left"},
				{"x": 100, "y": 20, "side": "right"}
			]
		},
		{
			"component": "905Exchanger",
			"name": "Exchanger",
			"legend": "E"
		}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grips.json"), []byte(gripsJSON), 0644))

	csv := "object,name,legend,suffix\n" +
		"Centrifugal Pump,Centrifugal Pump,P,A\n" +
		"905Exchanger,Exchanger,E,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Component_Details.csv"), []byte(csv), 0644))

	for _, name := range []string{"Centrifugal_Pump.svg", "905Exchanger.svg", "Storage Tank.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "svg", name), []byte("<svg/>"), 0644))
	}

	return LoadCatalog(dir)
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "centrifugalpump", cleanString("Centrifugal Pump"))
	assert.Equal(t, "kettlereboiler", cleanString("Kettle_Re-boiler"))
	assert.Equal(t, "onecellfiredheaterfurnace", cleanString("One Cell Fired Heater, Furnace"))
	assert.Equal(t, "ab", cleanString("a/(b)"))
}

func TestConfigByName(t *testing.T) {
	cat := testCatalog(t)

	direct := cat.ConfigByName("Centrifugal Pump")
	assert.Equal(t, "Centrifugal Pump", direct.Name)
	require.Len(t, direct.Grips, 2)
	assert.Equal(t, SideRight, direct.Grips[1].Side)

	// Renamed components resolve through the alias table.
	aliased := cat.ConfigByName("Exchanger905")
	assert.Equal(t, "Exchanger", aliased.Name)

	// Punctuation and case differences fall back to the cleaned scan.
	fuzzy := cat.ConfigByName("centrifugal-pump")
	assert.Equal(t, "Centrifugal Pump", fuzzy.Name)

	// Unknown components get the zero config, not an error.
	missing := cat.ConfigByName("Imaginary Widget")
	assert.Empty(t, missing.Name)
	assert.Empty(t, missing.Grips)
}

func TestFindArtifact(t *testing.T) {
	cat := testCatalog(t)

	// Cleaned-stem match: "Centrifugal Pump" vs Centrifugal_Pump.svg.
	path := cat.FindArtifact("Centrifugal Pump")
	assert.Equal(t, "Centrifugal_Pump.svg", filepath.Base(path))

	// Alias then exact stem.
	path = cat.FindArtifact("Exchanger905")
	assert.Equal(t, "905Exchanger.svg", filepath.Base(path))

	assert.Empty(t, cat.FindArtifact("Imaginary Widget"))
}

func TestNextLabelSeries(t *testing.T) {
	cat := testCatalog(t)

	assert.Equal(t, "P01A", cat.NextLabel("Centrifugal Pump"))
	assert.Equal(t, "P02A", cat.NextLabel("Centrifugal Pump"))
	assert.Equal(t, "E01", cat.NextLabel("905Exchanger"))

	// No series: the name itself is the label.
	assert.Equal(t, "Flare Stack", cat.NextLabel("Flare Stack"))
}

func TestNextLabelDetailsWithByteOrderMark(t *testing.T) {
	// Spreadsheet tools prepend a UTF-8 BOM when saving CSV; the header
	// columns must still resolve.
	dir := t.TempDir()
	csv := "\uFEFFobject,name,legend,suffix\n" +
		"Storage Tank,Storage Tank,T,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Component_Details.csv"), []byte(csv), 0644))

	cat := LoadCatalog(dir)
	assert.Equal(t, "T01", cat.NextLabel("Storage Tank"))
}

func TestComponentNamesSorted(t *testing.T) {
	cat := testCatalog(t)
	assert.Equal(t, []string{"905Exchanger", "Centrifugal Pump"}, cat.ComponentNames())
}

func TestNameFromArtifactPath(t *testing.T) {
	assert.Equal(t, "Exchanger", nameFromArtifactPath("assets/svg/905Exchanger.svg"))
	assert.Equal(t, "Kettle Reboiler", nameFromArtifactPath("907Kettle_Reboiler.svg"))
	assert.Equal(t, "Storage Tank", nameFromArtifactPath("Storage_Tank.svg"))
}

func TestLoadCatalogMissingAssetsIsUsable(t *testing.T) {
	cat := LoadCatalog(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, cat.ComponentNames())
	assert.Empty(t, cat.FindArtifact("anything"))
	assert.Equal(t, "x", cat.NextLabel("x"))
}
