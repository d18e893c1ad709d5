package views

// Handlers are the controller callbacks the main view invokes on user input.
// Nil entries are ignored.
type Handlers struct {
	Capture                 func()
	ApplyCalibration        func(value, unit string)
	ChangeZoom              func(zoom string)
	GrowBar                 func()
	ShrinkBar               func()
	ChangeFontSize          func(steps int)
	ToggleFullscreen        func()
	ExitFullscreen          func()
	SetCaption              func(caption string)
	ToggleOverlayBackground func()
	ResizePreview           func(width, height int)
	Quit                    func()
}
