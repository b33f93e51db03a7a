package main

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

func (p Point) MagSq() float64 { return p.X*p.X + p.Y*p.Y }

func manhattan(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Side is the edge of a symbol's content rect that a grip sits on. It
// determines the outward direction a routed path leaves the grip in.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

func (s Side) Vector() Point {
	switch s {
	case SideTop:
		return Point{0, -1}
	case SideRight:
		return Point{1, 0}
	case SideBottom:
		return Point{0, 1}
	default:
		return Point{-1, 0}
	}
}

func (s Side) Horizontal() bool { return s == SideLeft || s == SideRight }

// Grip is an attachment point in percentage coordinates of the content
// rect. Grips come from the catalog and are never mutated per instance.
type Grip struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Side Side    `json:"side"`
}

// ComponentConfig is the recognized per-component configuration. Keys
// absent from the catalog resolve to the zero values here; nothing
// reads the raw JSON blob after loading.
type ComponentConfig struct {
	Name   string `json:"name"`
	Object string `json:"object"`
	SNo    string `json:"s_no"`
	Legend string `json:"legend"`
	Suffix string `json:"suffix"`
	Label  string `json:"default_label"`
	Grips  []Grip `json:"grips"`
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Grow(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

func (r Rect) Union(o Rect) Rect {
	if r.W == 0 && r.H == 0 {
		return o
	}
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.W, o.X+o.W)
	y2 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{x1, y1, x2 - x1, y2 - y1}
}

// SymbolInstance is a placed piece of equipment on the canvas. Grips
// live in its config; geometry lives here. Rotation is display-only
// and never applied to grip resolution.
type SymbolInstance struct {
	ID       int
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	SVGPath  string
	Config   ComponentConfig
	Selected bool
}

func NewSymbolInstance(id int, svgPath string, cfg ComponentConfig, pos Point) *SymbolInstance {
	return &SymbolInstance{
		ID:      id,
		X:       pos.X,
		Y:       pos.Y,
		Width:   defaultInstanceWidth,
		Height:  defaultInstanceHeight,
		SVGPath: svgPath,
		Config:  cfg,
	}
}

func (s *SymbolInstance) Bounds() Rect {
	return Rect{s.X, s.Y, s.Width, s.Height}
}

// ContentRect is the symbol area inside the instance bounds, in
// instance-local coordinates. The bottom inset reserves a label row
// when a label is configured.
func (s *SymbolInstance) ContentRect() Rect {
	bottom := contentPad
	if s.Config.Label != "" {
		bottom = contentPadLabeled
	}
	w := math.Max(1, s.Width-2*contentPad)
	h := math.Max(1, s.Height-contentPad-bottom)
	return Rect{contentPad, contentPad, w, h}
}

var fallbackGrips = []Grip{
	{X: 0, Y: 50, Side: SideLeft},
	{X: 100, Y: 50, Side: SideRight},
}

// Grips returns the catalog grips, or the synthetic left/right pair
// when the catalog defines none. Every reader of grip geometry goes
// through here; resolver, hit testing and drawing must agree on the
// same set.
func (s *SymbolInstance) Grips() []Grip {
	if len(s.Config.Grips) == 0 {
		return fallbackGrips
	}
	return s.Config.Grips
}

// GripPoint resolves a grip index to an absolute canvas point.
func (s *SymbolInstance) GripPoint(i int) Point {
	grips := s.Grips()
	if i < 0 || i >= len(grips) {
		i = 0
	}
	g := grips[i]
	content := s.ContentRect()
	local := Point{
		X: content.X + g.X/100*content.W,
		Y: content.Y + g.Y/100*content.H,
	}
	return local.Add(Point{s.X, s.Y})
}

// GripAt returns the index of the grip within hover range of p, or -1.
func (s *SymbolInstance) GripAt(p Point) int {
	for i := range s.Grips() {
		if manhattan(p, s.GripPoint(i)) < gripHoverRange {
			return i
		}
	}
	return -1
}

func (s *SymbolInstance) MoveBy(dx, dy float64) {
	s.X += dx
	s.Y += dy
}

func (s *SymbolInstance) Resize(w, h float64) {
	s.Width = math.Max(w, minInstanceWidth)
	s.Height = math.Max(h, minInstanceHeight)
}

// DisplayName is the equipment description used by report exports.
// Unnamed components fall back to a cleaned-up artifact basename.
func (s *SymbolInstance) DisplayName() string {
	if s.Config.Name != "" && s.Config.Name != "Unknown Component" {
		return s.Config.Name
	}
	if s.SVGPath != "" {
		return nameFromArtifactPath(s.SVGPath)
	}
	return "Unknown Component"
}
