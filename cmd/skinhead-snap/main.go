// skinhead-snap renders the avatar without a window and writes one frame
// to a PNG or WebP file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/assets"
	"github.com/Faultbox/skinhead/internal/avatar"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/engine/debug"
	"github.com/Faultbox/skinhead/internal/engine/raster"
	"github.com/Faultbox/skinhead/internal/engine/sched"
	"github.com/Faultbox/skinhead/internal/logger"
)

// frameInterval is the simulated time between two frames.
const frameInterval = time.Second / 60

type options struct {
	skin    string
	body    string
	size    int
	width   int
	height  int
	x, y    int
	frames  int
	out     string
	timeout time.Duration
	debug   bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("skinhead-snap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.skin, "skin", "", "skin image URL or path (required)")
	fs.StringVar(&o.body, "body", "", "body image URL or path")
	fs.IntVar(&o.size, "size", 300, "avatar edge in pixels")
	fs.IntVar(&o.width, "width", 0, "viewport width (default 2*size)")
	fs.IntVar(&o.height, "height", 0, "viewport height (default 2*size)")
	fs.IntVar(&o.x, "x", -1, "pointer x in the viewport (negative for none)")
	fs.IntVar(&o.y, "y", -1, "pointer y in the viewport (negative for none)")
	fs.IntVar(&o.frames, "frames", 60, "frames to run after the pointer moves")
	fs.StringVar(&o.out, "out", "avatar.png", "output file (.png or .webp)")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "time allowed for image loads")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.skin == "" {
		return o, errors.New("-skin is required")
	}
	if o.size <= 0 {
		return o, fmt.Errorf("-size must be positive, got %d", o.size)
	}
	if o.width <= 0 {
		o.width = 2 * o.size
	}
	if o.height <= 0 {
		o.height = 2 * o.size
	}
	return o, nil
}

// countingLoader tracks loads that have not completed yet. Completions run
// on the scheduler goroutine, so pending needs no lock.
type countingLoader struct {
	loader  *assets.Loader
	pending int
}

func (c *countingLoader) LoadAsync(ctx context.Context, url string, post func(func()), done func(image.Image, error)) {
	c.pending++
	c.loader.LoadAsync(ctx, url, post, func(img image.Image, err error) {
		c.pending--
		done(img, err)
	})
}

func run(args []string, stderr io.Writer) error {
	o, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	level := "warn"
	if o.debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("snap")

	r := raster.New(o.size)
	s := sched.New()
	hub := pointer.NewHub()
	loader := &countingLoader{loader: assets.NewLoader(nil)}

	now := time.Now()
	clock := func() time.Time { return now }
	bounds := avatar.Place(o.width, o.height, o.size, 0.5, 0.5)

	av, err := avatar.Mount(avatar.Options{
		SkinURL: o.skin,
		BodyURL: o.body,
		Size:    o.size,
	}, avatar.Deps{
		Loader:    loader,
		Scheduler: s,
		Renderer:  r,
		Pointer:   hub,
		Bounds:    func() pointer.Rect { return bounds },
		Viewport:  func() (int, int) { return o.width, o.height },
		Clock:     clock,
	})
	if err != nil {
		return fmt.Errorf("mounting avatar: %w", err)
	}
	defer av.Unmount()

	deadline := time.Now().Add(o.timeout)
	for loader.pending > 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("image loads did not finish within %s", o.timeout)
		}
		s.Tick()
		time.Sleep(time.Millisecond)
	}
	if av.Head() == nil {
		log.Warn("skin did not load, rendering without a head", zap.String("skin", o.skin))
	}

	if o.x >= 0 && o.y >= 0 {
		hub.Move(o.x, o.y)
	}
	for i := 0; i < o.frames; i++ {
		now = now.Add(frameInterval)
		s.Tick()
	}

	info := av.Frame(now)
	img := r.Composite(info)
	if err := debug.WriteFile(o.out, img, debug.FormatFromPath(o.out)); err != nil {
		return err
	}

	rot := av.State().Current()
	log.Info("snapshot written",
		zap.String("file", o.out),
		zap.Float64("yaw", rot.Yaw),
		zap.Float64("pitch", rot.Pitch),
		zap.Stringer("top", info.Order[1]),
	)
	return nil
}
