package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func gridCell(p Point) (int, int) {
	return int(p.X / cellWorldW), int(p.Y / cellWorldH)
}

func TestInstanceCaptionRendersMultibyteRunes(t *testing.T) {
	scr := newScreen(40, 10)
	inst := &SymbolInstance{Width: 100, Height: 80,
		Config: ComponentConfig{Name: "Überhitzer", Label: "Ü01"}}

	drawInstanceCells(scr, inst, gridCell)

	assert.Contains(t, string(scr.cells[4]), "Überhitzer [Ü01]")
}

func TestInstanceCaptionTruncatesOnRunes(t *testing.T) {
	scr := newScreen(40, 10)
	inst := &SymbolInstance{Width: 35, Height: 80,
		Config: ComponentConfig{Name: "Überhitzer"}}

	drawInstanceCells(scr, inst, gridCell)

	// 35 world units is 7 cells, leaving 6 caption cells; the cut must
	// land between runes.
	assert.Contains(t, string(scr.cells[4]), "Überhi")
	assert.NotContains(t, string(scr.cells[4]), "�")
}
