package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModePlacing
	ModeConnecting
	ModePathDrag
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSavePDF
	FileOpSaveCSV
	FileOpSaveXLSX
	FileOpSaveTXT
	FileOpOpen
	FileOpRemoteSave
	FileOpRemoteOpen
)

type ConfirmAction int

const (
	ConfirmDeleteInstance ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmQuit
	ConfirmNewProject
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionAddInstance ActionType = iota
	ActionDeleteInstance
	ActionMoveInstance
	ActionResizeInstance
	ActionAddConnection
	ActionDeleteConnection
	ActionAdjustPath
)

const (
	// Default placement size for a symbol instance.
	defaultInstanceWidth  = 100.0
	defaultInstanceHeight = 80.0

	// Content rect insets. The bottom inset grows when a label is set
	// so the label has a row of its own under the symbol.
	contentPad        = 10.0
	contentPadLabeled = 25.0
	minInstanceWidth  = 30.0
	minInstanceHeight = 30.0

	// Radius (manhattan) within which a drawing connection snaps to a
	// candidate grip, and the radius for grip hover hit tests.
	snapRadius     = 20.0
	gripHoverRange = 10.0

	// Distance a routed path stands off from its endpoint before the
	// first turn, prior to the start/end adjust parameters.
	routeStandoff = 20.0

	// Tolerance for hitting a connection segment with the pointer.
	connectionHitTolerance = 5.0

	// Unit perturbation used by the parameter-sensitivity probe and
	// the squared-magnitude floor below which a drag is a no-op.
	probeDelta  = 1.0
	sensEpsilon = 1e-3

	exportImageScale = 3.0
	exportPDFScale   = 4.0
	exportPadding    = 50.0
)
