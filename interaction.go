package main

// PathParam identifies one of the three adjustable routing parameters.
type PathParam int

const (
	ParamPathOffset PathParam = iota
	ParamStartAdjust
	ParamEndAdjust
)

var probeOrder = []PathParam{ParamPathOffset, ParamStartAdjust, ParamEndAdjust}

func (p PathParam) String() string {
	switch p {
	case ParamPathOffset:
		return "path_offset"
	case ParamStartAdjust:
		return "start_adjust"
	default:
		return "end_adjust"
	}
}

func (p PathParam) get(c *Connection) float64 {
	switch p {
	case ParamPathOffset:
		return c.PathOffset
	case ParamStartAdjust:
		return c.StartAdjust
	default:
		return c.EndAdjust
	}
}

func (p PathParam) set(c *Connection, v float64) {
	switch p {
	case ParamPathOffset:
		c.PathOffset = v
	case ParamStartAdjust:
		c.StartAdjust = v
	default:
		c.EndAdjust = v
	}
}

// pathDrag is the state of one path-shape drag gesture: the parameter
// the probe selected, its value when the gesture started, and the
// displacement one unit of that parameter produces at the grabbed
// segment.
type pathDrag struct {
	conn         *Connection
	param        PathParam
	startValue   float64
	startPointer Point
	sens         Point
}

// probeSensitivity finds the parameter that most moves the grabbed
// segment. Each parameter is perturbed by one unit, the path is
// recomputed, the displacement of the matched segment's midpoint is
// recorded, and the parameter is restored. The largest squared
// displacement wins; ties keep the earlier parameter, so the result
// is deterministic for fixed inputs.
//
// The router's parameter-to-geometry mapping changes topology with
// the side combination, so there is no closed-form inverse to consult;
// measuring is the contract.
func probeSensitivity(doc *Canvas, conn *Connection, segment int) (PathParam, Point) {
	base := make([]Point, len(conn.Path))
	copy(base, conn.Path)
	baseMid, ok := segmentMidpoint(base, segment)
	if !ok {
		return ParamPathOffset, Point{}
	}

	best := ParamPathOffset
	bestSens := Point{}
	bestMag := -1.0
	for _, param := range probeOrder {
		old := param.get(conn)
		param.set(conn, old+probeDelta)
		conn.CalculatePath(doc)

		var sens Point
		if mid, ok := segmentMidpoint(conn.Path, segment); ok {
			sens = mid.Sub(baseMid)
		}
		param.set(conn, old)

		if mag := sens.MagSq(); mag > bestMag {
			bestMag = mag
			best = param
			bestSens = sens
		}
	}

	// Put the cached path back the way the caller saw it.
	conn.CalculatePath(doc)
	return best, bestSens
}

// beginPathDrag runs the probe once, at the moment the line is
// grabbed, and returns the drag state the pointer-move handler feeds.
func beginPathDrag(doc *Canvas, conn *Connection, segment int, pointer Point) *pathDrag {
	param, sens := probeSensitivity(doc, conn, segment)
	return &pathDrag{
		conn:         conn,
		param:        param,
		startValue:   param.get(conn),
		startPointer: pointer,
		sens:         sens,
	}
}

// Update projects the accumulated pointer delta onto the sensitivity
// vector and writes the parameter. A near-zero sensitivity makes the
// drag a no-op rather than dividing by nothing.
func (d *pathDrag) Update(doc *Canvas, pointer Point) {
	sensSq := d.sens.MagSq()
	if sensSq < sensEpsilon {
		return
	}
	delta := pointer.Sub(d.startPointer)
	change := delta.Dot(d.sens) / sensSq
	d.param.set(d.conn, d.startValue+change)
	d.conn.CalculatePath(doc)
}
