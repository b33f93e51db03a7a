package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGripsFallbackWhenUnconfigured(t *testing.T) {
	inst := NewSymbolInstance(0, "pump.svg", ComponentConfig{}, Point{0, 0})

	grips := inst.Grips()
	require.Len(t, grips, 2)
	assert.Equal(t, SideLeft, grips[0].Side)
	assert.Equal(t, SideRight, grips[1].Side)

	// The fallback pair sits at the vertical middle of the content
	// rect's left and right edges.
	content := inst.ContentRect()
	left := inst.GripPoint(0)
	right := inst.GripPoint(1)
	assert.InDelta(t, content.X, left.X, 1e-9)
	assert.InDelta(t, content.X+content.W, right.X, 1e-9)
	assert.InDelta(t, left.Y, right.Y, 1e-9)
	assert.InDelta(t, content.Y+content.H/2, left.Y, 1e-9)
}

func TestGripsConfiguredSetWins(t *testing.T) {
	cfg := ComponentConfig{
		Grips: []Grip{{X: 50, Y: 0, Side: SideTop}},
	}
	inst := NewSymbolInstance(0, "", cfg, Point{0, 0})
	require.Len(t, inst.Grips(), 1)
	assert.Equal(t, SideTop, inst.Grips()[0].Side)
}

func TestContentRectLabelInset(t *testing.T) {
	plain := NewSymbolInstance(0, "", ComponentConfig{}, Point{0, 0})
	labeled := NewSymbolInstance(1, "", ComponentConfig{Label: "P01"}, Point{0, 0})

	assert.InDelta(t, defaultInstanceHeight-2*contentPad, plain.ContentRect().H, 1e-9)
	assert.InDelta(t, defaultInstanceHeight-contentPad-contentPadLabeled, labeled.ContentRect().H, 1e-9)
	// Width insets are the same either way.
	assert.InDelta(t, plain.ContentRect().W, labeled.ContentRect().W, 1e-9)
}

func TestGripPointOutOfRangeIndex(t *testing.T) {
	inst := NewSymbolInstance(0, "", ComponentConfig{}, Point{10, 10})
	assert.Equal(t, inst.GripPoint(0), inst.GripPoint(99))
	assert.Equal(t, inst.GripPoint(0), inst.GripPoint(-1))
}

func TestGripAtHoverRange(t *testing.T) {
	inst := NewSymbolInstance(0, "", ComponentConfig{}, Point{0, 0})
	target := inst.GripPoint(1)

	assert.Equal(t, 1, inst.GripAt(target))
	assert.Equal(t, 1, inst.GripAt(target.Add(Point{gripHoverRange / 2, 0})))
	assert.Equal(t, -1, inst.GripAt(target.Add(Point{gripHoverRange * 2, 0})))
}

func TestResizeClampsToMinimum(t *testing.T) {
	inst := NewSymbolInstance(0, "", ComponentConfig{}, Point{0, 0})
	inst.Resize(5, 5)
	assert.InDelta(t, minInstanceWidth, inst.Width, 1e-9)
	assert.InDelta(t, minInstanceHeight, inst.Height, 1e-9)
}

func TestDisplayName(t *testing.T) {
	named := NewSymbolInstance(0, "x.svg", ComponentConfig{Name: "Centrifugal Pump"}, Point{0, 0})
	assert.Equal(t, "Centrifugal Pump", named.DisplayName())

	fromPath := NewSymbolInstance(1, "assets/svg/905Exchanger.svg", ComponentConfig{}, Point{0, 0})
	assert.Equal(t, "Exchanger", fromPath.DisplayName())

	underscored := NewSymbolInstance(2, "Storage_Tank.svg", ComponentConfig{}, Point{0, 0})
	assert.Equal(t, "Storage Tank", underscored.DisplayName())
}

func TestRectUnionAndGrow(t *testing.T) {
	var zero Rect
	r := zero.Union(Rect{10, 10, 20, 20})
	assert.Equal(t, Rect{10, 10, 20, 20}, r)

	r = r.Union(Rect{0, 0, 5, 5})
	assert.Equal(t, Rect{0, 0, 30, 30}, r)

	g := Rect{10, 10, 10, 10}.Grow(5)
	assert.Equal(t, Rect{5, 5, 20, 20}, g)
}
