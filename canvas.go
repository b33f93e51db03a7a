package main

// Canvas is the in-memory document: placed symbol instances, committed
// connections, and at most one in-progress connection following the
// pointer. Instances and connections are looked up by id, never held
// by reference across document mutations, so deleting an instance is a
// single sweep here rather than an identity check at every call site.
type Canvas struct {
	instances   []*SymbolInstance
	connections []*Connection
	active      *Connection

	// seq feeds instance ids and round-trips as the file's
	// sequenceCounter. It only ever grows within a session.
	seq int

	// Zoom is view state. Exports normalize it to 1.0 and restore it.
	Zoom float64
}

func NewCanvas() *Canvas {
	return &Canvas{Zoom: 1.0}
}

func (c *Canvas) Instances() []*SymbolInstance { return c.instances }

func (c *Canvas) Connections() []*Connection { return c.connections }

func (c *Canvas) Active() *Connection { return c.active }

func (c *Canvas) SequenceCounter() int { return c.seq }

func (c *Canvas) Instance(id int) (*SymbolInstance, bool) {
	for _, inst := range c.instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return nil, false
}

func (c *Canvas) AddInstance(svgPath string, cfg ComponentConfig, pos Point) *SymbolInstance {
	inst := NewSymbolInstance(c.seq, svgPath, cfg, pos)
	c.seq++
	c.instances = append(c.instances, inst)
	return inst
}

// RestoreInstance re-inserts an instance under its original id, used
// by undo. The sequence counter is bumped past the id so it is never
// reissued.
func (c *Canvas) RestoreInstance(inst *SymbolInstance) {
	if inst.ID >= c.seq {
		c.seq = inst.ID + 1
	}
	c.instances = append(c.instances, inst)
}

// InstanceAt returns the topmost instance under p, or nil.
func (c *Canvas) InstanceAt(p Point) *SymbolInstance {
	for i := len(c.instances) - 1; i >= 0; i-- {
		if c.instances[i].Bounds().Contains(p) {
			return c.instances[i]
		}
	}
	return nil
}

// DeleteInstance removes an instance and sweeps every connection that
// references it as a committed endpoint. An active connection drawn
// from it is discarded; one merely snapped to it falls back to
// following the pointer.
func (c *Canvas) DeleteInstance(id int) []*Connection {
	idx := -1
	for i, inst := range c.instances {
		if inst.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	c.instances = append(c.instances[:idx], c.instances[idx+1:]...)

	var removed []*Connection
	kept := c.connections[:0]
	for _, conn := range c.connections {
		if conn.References(id) {
			removed = append(removed, conn)
			continue
		}
		kept = append(kept, conn)
	}
	c.connections = kept

	if c.active != nil {
		if c.active.StartID == id {
			c.active = nil
		} else if c.active.SnapID == id {
			c.active.ClearSnapTarget()
		}
	}
	return removed
}

func (c *Canvas) RestoreConnection(conn *Connection) {
	c.connections = append(c.connections, conn)
}

func (c *Canvas) DeleteConnection(target *Connection) {
	kept := c.connections[:0]
	for _, conn := range c.connections {
		if conn != target {
			kept = append(kept, conn)
		}
	}
	c.connections = kept
}

func (c *Canvas) DeselectAll() {
	for _, inst := range c.instances {
		inst.Selected = false
	}
	for _, conn := range c.connections {
		conn.Selected = false
	}
}

// DeleteSelected removes selected instances (cascading their
// connections) and selected connections. It returns what was removed
// for the undo stack.
func (c *Canvas) DeleteSelected() ([]*SymbolInstance, []*Connection) {
	var insts []*SymbolInstance
	for _, inst := range c.instances {
		if inst.Selected {
			insts = append(insts, inst)
		}
	}
	var conns []*Connection
	for _, inst := range insts {
		conns = append(conns, c.DeleteInstance(inst.ID)...)
	}
	var selected []*Connection
	for _, conn := range c.connections {
		if conn.Selected {
			selected = append(selected, conn)
		}
	}
	for _, conn := range selected {
		conns = append(conns, conn)
		c.DeleteConnection(conn)
	}
	return insts, conns
}

// RecalculatePaths eagerly reroutes every connection. Canvases are
// small, so this runs after any mutation and before any draw or
// export pass rather than tracking dirty inputs.
func (c *Canvas) RecalculatePaths() {
	for _, conn := range c.connections {
		conn.CalculatePath(c)
	}
	if c.active != nil {
		c.active.CalculatePath(c)
	}
}

// BeginConnection starts drawing from a grip. Any previous in-progress
// connection is discarded; the document holds at most one.
func (c *Canvas) BeginConnection(instanceID, gripIndex int, side Side) *Connection {
	c.active = NewConnection(instanceID, gripIndex, side)
	return c.active
}

// UpdateDrag advances the active connection to the pointer, snapping
// to the nearest candidate grip within range on any other instance.
func (c *Canvas) UpdateDrag(pointer Point) {
	if c.active == nil {
		return
	}
	snapped := false
	for _, inst := range c.instances {
		if inst.ID == c.active.StartID {
			continue
		}
		if !inst.Bounds().Grow(snapRadius + gripHoverRange).Contains(pointer) {
			continue
		}
		for i, g := range inst.Grips() {
			if manhattan(pointer, inst.GripPoint(i)) < snapRadius {
				c.active.SetSnapTarget(inst.ID, i, g.Side)
				snapped = true
				break
			}
		}
		if snapped {
			break
		}
	}
	if !snapped {
		c.active.ClearSnapTarget()
	}
	c.active.SetPointer(pointer)
	c.active.CalculatePath(c)
}

// ReleaseConnection ends the drawing gesture. A snapped target is
// committed and the connection joins the document; otherwise the
// in-progress connection is discarded.
func (c *Canvas) ReleaseConnection() (*Connection, bool) {
	if c.active == nil {
		return nil, false
	}
	conn := c.active
	c.active = nil
	if !conn.Commit() {
		return nil, false
	}
	conn.CalculatePath(c)
	c.connections = append(c.connections, conn)
	return conn, true
}

// CancelConnection abandons the drawing gesture without committing,
// snapped or not.
func (c *Canvas) CancelConnection() {
	c.active = nil
}

// ConnectionAt hit-tests committed connections in document order and
// returns the first hit plus its segment index. First match wins;
// proximity does not reorder candidates.
func (c *Canvas) ConnectionAt(p Point) (*Connection, int) {
	for _, conn := range c.connections {
		if idx := conn.HitTest(p); idx != -1 {
			return conn, idx
		}
	}
	return nil, -1
}

// ContentBounds is the rectangle covering all instances and routed
// paths, grown by the export padding. An empty document reports a
// zero rect.
func (c *Canvas) ContentBounds() Rect {
	var r Rect
	for _, inst := range c.instances {
		r = r.Union(inst.Bounds())
	}
	for _, conn := range c.connections {
		for _, p := range conn.Path {
			r = r.Union(Rect{p.X, p.Y, 1, 1})
		}
	}
	if r.W == 0 && r.H == 0 {
		return r
	}
	return r.Grow(exportPadding)
}

func (c *Canvas) Clear() {
	c.instances = nil
	c.connections = nil
	c.active = nil
	c.seq = 0
	c.Zoom = 1.0
}
