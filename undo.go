package main

type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

type InstanceData struct {
	Instance *SymbolInstance
}

type DeleteInstanceData struct {
	Instance    *SymbolInstance
	Connections []*Connection
}

type InstancePlacement struct {
	ID     int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type ConnectionData struct {
	Connection *Connection
}

type AdjustPathData struct {
	Connection *Connection
	Param      PathParam
	Value      float64
}

func placementOf(inst *SymbolInstance) InstancePlacement {
	return InstancePlacement{ID: inst.ID, X: inst.X, Y: inst.Y, Width: inst.Width, Height: inst.Height}
}

func (m *model) applyPlacement(p InstancePlacement) {
	if inst, ok := m.doc.Instance(p.ID); ok {
		inst.X = p.X
		inst.Y = p.Y
		inst.Width = p.Width
		inst.Height = p.Height
		m.doc.RecalculatePaths()
	}
}

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	m.undoStack = append(m.undoStack, Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	})
	m.redoStack = m.redoStack[:0]
}

func (m *model) undo() {
	if len(m.undoStack) == 0 {
		return
	}

	lastIndex := len(m.undoStack) - 1
	action := m.undoStack[lastIndex]
	m.undoStack = m.undoStack[:lastIndex]

	switch action.Type {
	case ActionAddInstance:
		data := action.Data.(InstanceData)
		m.doc.DeleteInstance(data.Instance.ID)
	case ActionDeleteInstance:
		data := action.Data.(DeleteInstanceData)
		m.doc.RestoreInstance(data.Instance)
		for _, conn := range data.Connections {
			m.doc.RestoreConnection(conn)
		}
		m.doc.RecalculatePaths()
	case ActionMoveInstance, ActionResizeInstance:
		data := action.Inverse.(InstancePlacement)
		m.applyPlacement(data)
	case ActionAddConnection:
		data := action.Data.(ConnectionData)
		m.doc.DeleteConnection(data.Connection)
	case ActionDeleteConnection:
		data := action.Data.(ConnectionData)
		m.doc.RestoreConnection(data.Connection)
		m.doc.RecalculatePaths()
	case ActionAdjustPath:
		data := action.Inverse.(AdjustPathData)
		data.Param.set(data.Connection, data.Value)
		data.Connection.CalculatePath(m.doc)
	}

	m.redoStack = append(m.redoStack, action)
}

func (m *model) redo() {
	if len(m.redoStack) == 0 {
		return
	}

	lastIndex := len(m.redoStack) - 1
	action := m.redoStack[lastIndex]
	m.redoStack = m.redoStack[:lastIndex]

	switch action.Type {
	case ActionAddInstance:
		data := action.Data.(InstanceData)
		m.doc.RestoreInstance(data.Instance)
	case ActionDeleteInstance:
		data := action.Data.(DeleteInstanceData)
		m.doc.DeleteInstance(data.Instance.ID)
	case ActionMoveInstance, ActionResizeInstance:
		data := action.Data.(InstancePlacement)
		m.applyPlacement(data)
	case ActionAddConnection:
		data := action.Data.(ConnectionData)
		m.doc.RestoreConnection(data.Connection)
		m.doc.RecalculatePaths()
	case ActionDeleteConnection:
		data := action.Data.(ConnectionData)
		m.doc.DeleteConnection(data.Connection)
	case ActionAdjustPath:
		data := action.Data.(AdjustPathData)
		data.Param.set(data.Connection, data.Value)
		data.Connection.CalculatePath(m.doc)
	}

	m.undoStack = append(m.undoStack, action)
}
