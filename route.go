package main

import "math"

// routePath computes the orthogonal polyline between two endpoints.
//
// The path leaves each endpoint along its side's outward direction by
// the fixed stand-off plus the endpoint's adjust parameter, then the
// two extended points are joined through a mid-line: vertical when the
// start side is horizontal, horizontal otherwise. pathOffset shifts
// that mid-line perpendicular to itself, which is what gives all 16
// side combinations a deterministic shape the offset can bend.
//
// The result always has at least two points and contains no duplicate
// consecutive points.
func routePath(start Point, startSide Side, end Point, endSide Side, pathOffset, startAdjust, endAdjust float64) []Point {
	sv := startSide.Vector()
	ev := endSide.Vector()

	p1 := Point{
		X: start.X + sv.X*(routeStandoff+startAdjust),
		Y: start.Y + sv.Y*(routeStandoff+startAdjust),
	}
	p2 := Point{
		X: end.X + ev.X*(routeStandoff+endAdjust),
		Y: end.Y + ev.Y*(routeStandoff+endAdjust),
	}

	var a, b Point
	if startSide.Horizontal() {
		midX := (p1.X+p2.X)/2 + pathOffset
		a = Point{midX, p1.Y}
		b = Point{midX, p2.Y}
	} else {
		midY := (p1.Y+p2.Y)/2 + pathOffset
		a = Point{p1.X, midY}
		b = Point{p2.X, midY}
	}

	return compactPath([]Point{start, p1, a, b, p2, end})
}

// compactPath drops consecutive duplicates but never shortens the
// path below its two endpoints.
func compactPath(points []Point) []Point {
	out := points[:1]
	for _, p := range points[1:] {
		last := out[len(out)-1]
		if math.Abs(p.X-last.X) < 1e-9 && math.Abs(p.Y-last.Y) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	if len(out) < 2 {
		out = append(out, points[len(points)-1])
	}
	return out
}

// nearestSide picks the side a free endpoint is approached from: the
// axis with the larger pointer displacement wins, and the side faces
// back toward the start. Used while a connection is still following
// the pointer and recomputed on every pointer move.
func nearestSide(from, pointer Point) Side {
	dx := pointer.X - from.X
	dy := pointer.Y - from.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return SideLeft
		}
		return SideRight
	}
	if dy > 0 {
		return SideTop
	}
	return SideBottom
}

// segmentMidpoint is the midpoint of path segment i (between points i
// and i+1), used by the sensitivity probe.
func segmentMidpoint(path []Point, i int) (Point, bool) {
	if i < 0 || i+1 >= len(path) {
		return Point{}, false
	}
	a, b := path[i], path[i+1]
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}, true
}

// closestPointOnSegment projects p onto the axis-aligned segment a-b.
// Diagonal segments are treated as their horizontal-then-vertical
// bend, matching how they are drawn.
func closestPointOnSegment(a, b, p Point) Point {
	if math.Abs(a.X-b.X) < 1e-9 {
		return Point{a.X, clamp(p.Y, math.Min(a.Y, b.Y), math.Max(a.Y, b.Y))}
	}
	if math.Abs(a.Y-b.Y) < 1e-9 {
		return Point{clamp(p.X, math.Min(a.X, b.X), math.Max(a.X, b.X)), a.Y}
	}
	corner := Point{b.X, a.Y}
	c1 := closestPointOnSegment(a, corner, p)
	c2 := closestPointOnSegment(corner, b, p)
	if manhattan(c1, p) < manhattan(c2, p) {
		return c1
	}
	return c2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
