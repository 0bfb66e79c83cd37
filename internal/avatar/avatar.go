// Package avatar mounts the cube-head avatar: it wires the skin loader,
// pointer tracking, layer ordering and the render loop together and tears
// them down as a unit.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/motion"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/avatar/scene"
	"github.com/Faultbox/skinhead/internal/logger"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// ErrNoRenderer is returned by Mount when no renderer could be created.
// The returned Avatar is inert but safe to use and unmount.
var ErrNoRenderer = errors.New("avatar: no renderer")

// Loader loads an image by URL without blocking. done runs through post.
type Loader interface {
	LoadAsync(ctx context.Context, url string, post func(func()), done func(image.Image, error))
}

// Scheduler drives the render loop and serializes load completions.
type Scheduler interface {
	scene.Scheduler
	Post(fn func())
}

// LogFunc receives skin load failures.
type LogFunc func(msg string, fields ...zap.Field)

// Options are the avatar inputs.
type Options struct {
	SkinURL string
	BodyURL string
	Size    int // square edge in display units
}

// Deps are the collaborators the avatar needs. Pointer, Extractor, Clock
// and Log are optional.
type Deps struct {
	Loader    Loader
	Scheduler Scheduler
	Renderer  scene.Renderer
	Pointer   pointer.Source

	// Bounds reports the avatar square in viewport coordinates.
	Bounds func() pointer.Rect
	// Viewport reports the viewport size.
	Viewport func() (w, h int)

	Extractor *skin.Extractor
	Clock     func() time.Time
	// Log reports skin load failures. Defaults to logger.Error.
	Log LogFunc
}

// Avatar is one mounted avatar instance.
type Avatar struct {
	opts Options
	deps Deps
	log  *zap.Logger

	state  *motion.State
	layers *pointer.Layering
	ctrl   *pointer.Controller
	loop   *scene.Loop

	ctx    context.Context
	cancel context.CancelFunc

	generation uint64
	body       image.Image
	unmounted  bool
}

// Mount starts the render loop, attaches the pointer listener and begins
// loading the skin and body images. It must be called on the scheduler's
// goroutine.
func Mount(opts Options, deps Deps) (*Avatar, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("avatar: size must be positive, got %d", opts.Size)
	}
	if deps.Loader == nil || deps.Scheduler == nil || deps.Bounds == nil || deps.Viewport == nil {
		return nil, errors.New("avatar: loader, scheduler, bounds and viewport are required")
	}
	if deps.Extractor == nil {
		deps.Extractor = &skin.Extractor{}
	}
	if deps.Log == nil {
		deps.Log = logger.Error
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Avatar{
		opts:   opts,
		deps:   deps,
		log:    logger.Named("avatar"),
		state:  motion.NewState(),
		layers: pointer.NewLayering(),
		ctx:    ctx,
		cancel: cancel,
	}
	a.ctrl = pointer.NewController(a.state, a.layers, deps.Bounds, deps.Viewport)
	if deps.Clock != nil {
		a.ctrl.SetClock(deps.Clock)
	}

	if deps.Renderer == nil {
		a.log.Error("no renderer, avatar disabled")
		return a, ErrNoRenderer
	}

	a.loop = scene.NewLoop(deps.Scheduler, deps.Renderer, a.state)
	a.loop.Start()
	if deps.Pointer != nil {
		a.ctrl.Attach(deps.Pointer)
	}

	a.loadSkin(opts.SkinURL)
	if opts.BodyURL != "" {
		a.loadBody(opts.BodyURL)
	}
	return a, nil
}

// SetSkinURL swaps the skin. The current head is disposed at once and the
// avatar stays headless until the new skin loads. Completions of earlier
// loads are discarded.
func (a *Avatar) SetSkinURL(url string) {
	if a.unmounted || a.loop == nil || url == a.opts.SkinURL {
		return
	}
	a.opts.SkinURL = url
	a.loadSkin(url)
}

func (a *Avatar) loadSkin(url string) {
	a.generation++
	gen := a.generation

	if err := a.loop.InstallHead(nil); err != nil {
		return
	}
	if url == "" {
		return
	}
	a.deps.Loader.LoadAsync(a.ctx, url, a.deps.Scheduler.Post, func(img image.Image, err error) {
		a.skinLoaded(gen, url, img, err)
	})
}

func (a *Avatar) skinLoaded(gen uint64, url string, img image.Image, err error) {
	if a.unmounted || gen != a.generation {
		a.log.Debug("discarding stale skin", zap.String("url", url))
		return
	}
	if err != nil {
		a.deps.Log("skin load failed", zap.String("url", url), zap.Error(err))
		return
	}
	if err := skin.CheckSheet(img); err != nil {
		a.deps.Log("unusable skin", zap.String("url", url), zap.Error(err))
		return
	}

	m, err := head.Build(a.deps.Renderer, a.deps.Extractor.ExtractHead(img))
	if err != nil {
		a.deps.Log("building head failed", zap.String("url", url), zap.Error(err))
		return
	}
	if err := a.loop.InstallHead(m); err != nil {
		a.log.Debug("head rejected", zap.Error(err))
		return
	}
	a.log.Info("head installed", zap.String("url", url))
}

func (a *Avatar) loadBody(url string) {
	a.deps.Loader.LoadAsync(a.ctx, url, a.deps.Scheduler.Post, func(img image.Image, err error) {
		if a.unmounted {
			return
		}
		if err != nil {
			a.log.Warn("body load failed", zap.String("url", url), zap.Error(err))
			return
		}
		a.body = img
	})
}

// Unmount stops the loop, removes the pointer listener and releases the
// head. Each step runs even if an earlier one panics. It is idempotent and
// never panics.
func (a *Avatar) Unmount() {
	if a == nil || a.unmounted {
		return
	}
	a.unmounted = true

	a.teardownStep("cancel loads", a.cancel)
	if a.loop != nil {
		a.teardownStep("cancel loop", a.loop.Cancel)
	}
	a.teardownStep("detach pointer", a.ctrl.Detach)
	if a.loop != nil {
		a.teardownStep("dispose head", a.loop.Dispose)
	}
	a.body = nil
}

func (a *Avatar) teardownStep(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("teardown step panicked", zap.String("step", name), zap.Any("panic", r))
		}
	}()
	fn()
}

// Unmounted reports whether Unmount has run.
func (a *Avatar) Unmounted() bool {
	return a.unmounted
}

// Head returns the installed head model, or nil while headless.
func (a *Avatar) Head() *head.Model {
	if a.loop == nil {
		return nil
	}
	return a.loop.Head()
}

// Loop returns the render loop, or nil for an inert avatar.
func (a *Avatar) Loop() *scene.Loop {
	return a.loop
}

// State returns the rotation state.
func (a *Avatar) State() *motion.State {
	return a.state
}

// Layering returns the layer ordering state.
func (a *Avatar) Layering() *pointer.Layering {
	return a.layers
}

// Controller returns the pointer controller, for feeding moves directly.
func (a *Avatar) Controller() *pointer.Controller {
	return a.ctrl
}

// Body returns the loaded body image, or nil.
func (a *Avatar) Body() image.Image {
	return a.body
}

// Options returns the current options.
func (a *Avatar) Options() Options {
	return a.opts
}
