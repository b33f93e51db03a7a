package main

// ConnState tracks a connection through its lifecycle: following the
// pointer, provisionally over a candidate grip, or committed.
type ConnState int

const (
	StateDrawing ConnState = iota
	StateSnapped
	StateConnected
)

// Connection joins a source grip to a target grip, or to the pointer
// while it is still being drawn. The three adjust parameters shape the
// routed path; Path is a cache and is recomputed whenever any input
// changes.
type Connection struct {
	StartID   int
	StartGrip int
	StartSide Side

	// Target endpoint, valid once committed. EndID is -1 while the
	// connection dangles.
	EndID   int
	EndGrip int
	EndSide Side

	// Provisional snap target while drawing. SnapID is -1 when the
	// pointer is not over a candidate grip.
	SnapID   int
	SnapGrip int
	SnapSide Side

	// Last pointer sample for a drawing connection.
	Pointer    Point
	hasPointer bool

	PathOffset  float64
	StartAdjust float64
	EndAdjust   float64

	Path     []Point
	Selected bool
}

func NewConnection(startID, gripIndex int, side Side) *Connection {
	return &Connection{
		StartID:   startID,
		StartGrip: gripIndex,
		StartSide: side,
		EndID:     -1,
		SnapID:    -1,
	}
}

func (c *Connection) State() ConnState {
	switch {
	case c.EndID >= 0:
		return StateConnected
	case c.SnapID >= 0:
		return StateSnapped
	default:
		return StateDrawing
	}
}

// SetSnapTarget marks a candidate grip while drawing. Snapping back to
// the source instance is rejected.
func (c *Connection) SetSnapTarget(id, gripIndex int, side Side) {
	if id == c.StartID {
		return
	}
	c.SnapID = id
	c.SnapGrip = gripIndex
	c.SnapSide = side
}

func (c *Connection) ClearSnapTarget() {
	c.SnapID = -1
}

func (c *Connection) SetPointer(p Point) {
	c.Pointer = p
	c.hasPointer = true
}

// Commit promotes the current snap target to the committed endpoint.
// It reports whether there was a target to commit.
func (c *Connection) Commit() bool {
	if c.SnapID < 0 {
		return false
	}
	c.EndID = c.SnapID
	c.EndGrip = c.SnapGrip
	c.EndSide = c.SnapSide
	c.SnapID = -1
	return true
}

// CalculatePath recomputes the cached polyline from current inputs.
// A drawing connection with no pointer sample yet has an empty path.
func (c *Connection) CalculatePath(doc *Canvas) {
	start, ok := doc.Instance(c.StartID)
	if !ok {
		c.Path = nil
		return
	}
	startPt := start.GripPoint(c.StartGrip)

	var endPt Point
	endSide := c.EndSide
	switch c.State() {
	case StateConnected:
		end, ok := doc.Instance(c.EndID)
		if !ok {
			c.Path = nil
			return
		}
		endPt = end.GripPoint(c.EndGrip)
	case StateSnapped:
		snap, ok := doc.Instance(c.SnapID)
		if !ok {
			c.SnapID = -1
			c.CalculatePath(doc)
			return
		}
		endPt = snap.GripPoint(c.SnapGrip)
		endSide = c.SnapSide
	default:
		if !c.hasPointer {
			c.Path = nil
			return
		}
		endPt = c.Pointer
		endSide = nearestSide(startPt, c.Pointer)
	}

	c.Path = routePath(startPt, c.StartSide, endPt, endSide, c.PathOffset, c.StartAdjust, c.EndAdjust)
}

// HitTest returns the index of the path segment within tolerance of p,
// or -1. Segments are tested in order; the first hit wins.
func (c *Connection) HitTest(p Point) int {
	for i := 0; i+1 < len(c.Path); i++ {
		nearest := closestPointOnSegment(c.Path[i], c.Path[i+1], p)
		if manhattan(nearest, p) <= connectionHitTolerance {
			return i
		}
	}
	return -1
}

// References reports whether the connection touches the instance as a
// committed endpoint.
func (c *Connection) References(instanceID int) bool {
	return c.StartID == instanceID || c.EndID == instanceID
}
