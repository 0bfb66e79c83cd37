// Package app runs the windowed avatar: SDL window, GL renderer, input and
// the frame scheduler in one main loop.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/assets"
	"github.com/Faultbox/skinhead/internal/avatar"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/config"
	"github.com/Faultbox/skinhead/internal/engine/debug"
	"github.com/Faultbox/skinhead/internal/engine/input"
	"github.com/Faultbox/skinhead/internal/engine/renderer"
	"github.com/Faultbox/skinhead/internal/engine/sched"
	"github.com/Faultbox/skinhead/internal/engine/window"
	"github.com/Faultbox/skinhead/internal/logger"
)

// App is the running application.
type App struct {
	cfg *config.Config
	log *zap.Logger

	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	sched    *sched.Scheduler
	loader   *assets.Loader
	avatar   *avatar.Avatar
	snapshot *debug.SnapshotCapture

	width, height int
	choosing      bool // a skin file dialog is open
}

// New opens the window and mounts the avatar.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    logger.Named("app"),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	a.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("avatar_size", cfg.Avatar.Size),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.width, a.height = a.window.GetSize()

	format, err := debug.ParseFormat(cfg.Snapshot.Format)
	if err != nil {
		a.window.Close()
		return nil, err
	}
	a.snapshot = debug.NewSnapshotCapture(cfg.Snapshot.Dir, "skinhead", format)

	a.input = input.New()
	a.sched = sched.New()
	a.loader = assets.NewLoader(nil)

	deps := avatar.Deps{
		Loader:    a.loader,
		Scheduler: a.sched,
		Pointer:   a.input,
		Bounds:    a.bounds,
		Viewport:  a.viewport,
	}

	// Without a GL renderer the avatar mounts inert and the window stays
	// empty.
	a.renderer, err = renderer.New(renderer.Config{
		Width:  a.width,
		Height: a.height,
		Size:   cfg.Avatar.Size,
	})
	if err != nil {
		a.log.Error("renderer unavailable", zap.Error(err))
		a.renderer = nil
	} else {
		deps.Renderer = a.renderer
	}

	a.avatar, err = avatar.Mount(avatar.Options{
		SkinURL: cfg.Avatar.SkinURL,
		BodyURL: cfg.Avatar.BodyURL,
		Size:    cfg.Avatar.Size,
	}, deps)
	if err != nil && !errors.Is(err, avatar.ErrNoRenderer) {
		a.Close()
		return nil, fmt.Errorf("failed to mount avatar: %w", err)
	}

	a.log.Info("initialized")
	return a, nil
}

// Run drives the main loop until the window closes or Esc is pressed.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")
	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}

		capture := false
		for _, event := range a.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				a.resize(event.Width, event.Height)
			case input.EventKeyDown:
				switch event.Key {
				case sdl.SCANCODE_ESCAPE:
					a.running = false
				case sdl.SCANCODE_O:
					if event.Ctrl {
						a.chooseSkin()
					}
				case sdl.SCANCODE_F11:
					if err := a.window.ToggleFullscreen(); err != nil {
						a.log.Warn("fullscreen toggle failed", zap.Error(err))
					}
				case sdl.SCANCODE_F12:
					capture = true
				}
			}
		}

		a.sched.Tick()

		if a.renderer != nil {
			info := a.avatar.Frame(time.Now())
			a.renderer.Composite(info)
			if capture {
				a.capture(info.Bounds)
			}
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			fields := []zap.Field{zap.Int("count", frameCount), zap.Int("assets_cached", a.loader.Cache().Len())}
			if a.renderer != nil {
				fields = append(fields, a.renderer.Stats().Fields()...)
			}
			a.log.Debug("fps", fields...)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close unmounts the avatar and releases the window.
func (a *App) Close() {
	a.log.Info("closing")
	if a.avatar != nil {
		a.avatar.Unmount()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.logCacheStats()
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	if a.renderer != nil {
		a.renderer.Resize(width, height)
	}
}

func (a *App) capture(bounds pointer.Rect) {
	img := a.renderer.Snapshot(bounds)
	name, err := a.snapshot.Capture(img)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return
	}
	a.log.Info("snapshot saved", zap.String("file", name))
}

// chooseSkin asks for a skin file without blocking the loop. The answer is
// applied on the loop goroutine through the scheduler.
func (a *App) chooseSkin() {
	if a.choosing {
		return
	}
	a.choosing = true
	go func() {
		path, err := dialog.File().
			Filter("Skin images", "png", "jpg", "jpeg", "gif", "bmp", "webp", "tga").
			Filter("All Files", "*").
			Title("Open skin").
			Load()
		a.sched.Post(func() {
			a.choosing = false
			if err != nil {
				if !errors.Is(err, dialog.ErrCancelled) {
					a.log.Warn("file dialog failed", zap.Error(err))
				}
				return
			}
			a.log.Info("switching skin", zap.String("path", path))
			a.avatar.SetSkinURL(path)
			a.window.SetTitle(a.cfg.Window.Title + " - " + filepath.Base(path))
		})
	}()
}

func (a *App) bounds() pointer.Rect {
	return avatar.Place(a.width, a.height, a.cfg.Avatar.Size, a.cfg.Avatar.AnchorX, a.cfg.Avatar.AnchorY)
}

func (a *App) viewport() (int, int) {
	return a.width, a.height
}

func (a *App) logCacheStats() {
	if a.loader == nil {
		return
	}
	hits, misses := a.loader.Cache().Stats()
	a.log.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
}
