package main

import (
	"context"
	"errors"

	"scopecam/internal/calibration"
	"scopecam/internal/camera"
	"scopecam/internal/config"
	"scopecam/internal/controllers"
	"scopecam/internal/logger"
	"scopecam/internal/models"
	"scopecam/internal/opencv"
	"scopecam/internal/scalebar"
	"scopecam/internal/services"
	"scopecam/internal/shutdown"
	"scopecam/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

var (
	_ controllers.View = (*views.MainView)(nil)
	_ camera.Prompter  = (*views.MainView)(nil)
)

// Application owns the window and the lifetime of the camera
type Application struct {
	cfg      config.Config
	fyneApp  fyne.App
	window   fyne.Window
	view     *views.MainView
	logger   logger.Logger
	shutdown *shutdown.Manager

	state *models.ScopeState
	calib *models.CalibrationRepository
	open  camera.Opener
}

// NewApplication builds the window; the camera is connected in Run
func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	return newApplication(cfg, log, app.NewWithID(AppID), opencv.NewOpener(log)), nil
}

func newApplication(cfg config.Config, log logger.Logger, fyneApp fyne.App, open camera.Opener) *Application {
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1180, 720))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":     AppVersion,
		"capture_dir": cfg.CaptureDir,
		"device":      cfg.Camera.Device,
		"zooms":       cfg.ZoomOptions,
	})

	state := models.NewScopeState(cfg.ZoomOptions, scalebar.New(cfg.BarLength, cfg.FontSize))
	state.SetFullscreen(cfg.StartFullscreen)

	a := &Application{
		cfg:      cfg,
		fyneApp:  fyneApp,
		window:   window,
		view:     views.NewMainView(window),
		logger:   log,
		shutdown: shutdown.NewManager(log),
		state:    state,
		calib:    models.NewCalibrationRepository(calibration.NewStore(cfg.CaptureDir)),
		open:     open,
	}

	a.view.Bind(views.Handlers{Quit: a.quit})
	a.view.SetCaptureEnabled(false)
	a.setupWindowEvents()

	return a
}

// Run shows the window and blocks until the application quits
func (a *Application) Run() error {
	a.shutdown.OnSignal(func() {
		fyne.Do(a.quit)
	})
	a.shutdown.Listen()

	go a.connectCamera(a.shutdown.Context())

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application terminated", nil)
	return nil
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.quit()
	})
}

// quit must run on the UI goroutine
func (a *Application) quit() {
	a.fyneApp.Quit()
}

// connectCamera opens the camera, offering Retry/Cancel while it is
// missing, then starts the controller and the preview
func (a *Application) connectCamera(ctx context.Context) {
	cam, err := camera.Connect(ctx, a.open, a.cfg.Camera, a.view, a.logger)
	if err != nil {
		if errors.Is(err, camera.ErrCancelled) || errors.Is(err, context.Canceled) {
			a.logger.Info("Application", "camera connection cancelled", nil)
			fyne.Do(a.quit)
			return
		}
		a.logger.Error("Application", err, map[string]interface{}{"device": a.cfg.Camera.Device})
		a.view.ShowError("Camera", err)
		a.view.UpdateStatus("Camera unavailable")
		return
	}
	if ctx.Err() != nil {
		_ = cam.Close()
		return
	}

	a.shutdown.Register("camera", shutdown.Func(func() {
		cam.StopPreview()
		if err := cam.Close(); err != nil {
			a.logger.Error("Application", err, map[string]interface{}{"stage": "camera close"})
		}
	}))

	capture := services.NewCaptureService(cam, a.cfg.CaptureDir, a.cfg.SavedMessageDuration, a.logger)
	a.shutdown.Register("capture", shutdown.Func(capture.Shutdown))

	controller := controllers.NewMainController(ctx, a.state, a.calib, capture, cam, a.view, a.logger)
	fyne.Do(func() {
		a.view.Bind(controller.Handlers(a.quit))
	})
	controller.Start()

	if err := cam.StartPreview(ctx); err != nil {
		a.logger.Error("Application", err, nil)
		a.view.ShowError("Camera preview", err)
		return
	}
	a.view.SetCaptureEnabled(true)

	go controller.PumpFrames(ctx)
}
