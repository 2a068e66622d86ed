// Command gdevdemo drives a device through a scripted run of frames with
// injected device losses and window resizes, and prints the recovery and
// batching counters at the end.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/gdev"
	"github.com/gogpu/gdev/backend"
	_ "github.com/gogpu/gdev/backend/null"
)

// lossInjector is implemented by backends that can simulate a lost device.
type lossInjector interface {
	Lose()
}

type resetCounter interface {
	Resets() int
	FailedResets() int
	Presents() int
}

func main() {
	var (
		configPath  = flag.String("config", "", "TOML configuration file")
		backendName = flag.String("backend", "", "backend name (default: best available)")
		width       = flag.Int("width", 800, "back buffer width")
		height      = flag.Int("height", 600, "back buffer height")
		frames      = flag.Int("frames", 600, "number of frames to render")
		instances   = flag.Int("instances", 500, "instances in the crowd pass")
		loseEvery   = flag.Int("lose-every", 97, "inject a device loss every N frames (0 disables)")
		resizeEvery = flag.Int("resize-every", 151, "resize the window every N frames (0 disables)")
		report      = flag.Bool("report", true, "log a batch report for the last frame")
	)
	flag.Parse()

	if err := run(options{
		configPath:  *configPath,
		backendName: *backendName,
		width:       *width,
		height:      *height,
		frames:      *frames,
		instances:   *instances,
		loseEvery:   *loseEvery,
		resizeEvery: *resizeEvery,
		report:      *report,
	}); err != nil {
		log.Fatalf("gdevdemo: %v", err)
	}
}

type options struct {
	configPath  string
	backendName string
	width       int
	height      int
	frames      int
	instances   int
	loseEvery   int
	resizeEvery int
	report      bool
}

func run(o options) error {
	cfg := gdev.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = gdev.LoadConfig(o.configPath); err != nil {
			return err
		}
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gdev.SetLogger(logger)

	b, err := openBackend(o.backendName, o.width, o.height)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("gdevdemo: close backend", "err", err)
		}
	}()

	dev := gdev.New(b, gdev.WithConfig(cfg))
	if err := dev.Initialize(); err != nil {
		return fmt.Errorf("initialize device: %w", err)
	}
	defer dev.Release()

	sc, err := newScene(dev, o.instances)
	if err != nil {
		return err
	}
	defer sc.destroy()

	logger.Info("gdevdemo: start",
		"backends", backend.Available(),
		"modes", dev.Capabilities().EnumerateRenderTargetMultisampleModes(sc.offscreen.Format(), b.Settings().DepthFormat))

	pb := progressbar.Default(int64(o.frames), "frames")
	defer pb.Close()

	w, h := o.width, o.height
	skipped := 0
	for frame := 1; frame <= o.frames; frame++ {
		if o.loseEvery > 0 && frame%o.loseEvery == 0 {
			if li, ok := b.(lossInjector); ok {
				li.Lose()
			}
		}
		if o.resizeEvery > 0 && frame%o.resizeEvery == 0 {
			w, h = h, w
			b.Resize(w, h)
		}

		ready, err := b.BeginPaint(dev)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		if !ready {
			skipped++
			_ = pb.Add(1)
			continue
		}

		if o.report && frame == o.frames {
			dev.RequestBatchReport()
		}
		if err := sc.update(frame); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		dev.BeginFrame()
		sc.draw()
		dev.EndFrame()

		if err := b.Present(); err != nil && !isDeviceLost(err) {
			return fmt.Errorf("frame %d: present: %w", frame, err)
		}
		_ = pb.Add(1)
	}
	_ = pb.Finish()

	st := dev.Stats()
	fmt.Printf("\nframes %d, skipped %d, last frame: %d batches, %d primitives\n",
		o.frames, skipped, st.Batches, st.Primitives)
	if rc, ok := b.(resetCounter); ok {
		fmt.Printf("resets %d, failed resets %d, presents %d\n", rc.Resets(), rc.FailedResets(), rc.Presents())
	}
	cs := dev.StateCache().Stats()
	fmt.Printf("state cache: %d emitted, %d suppressed, %d texture binds, %d resets\n",
		cs.Emitted, cs.Suppressed, cs.TextureBinds, cs.Resets)
	for _, e := range dev.LastBatchReport() {
		fmt.Printf("  %-10s dp %-4d instanced %d/%d primitives %d\n",
			e.Material, e.DrawCalls, e.InstancedDrawCalls, e.InstancingBatches, e.Primitives+e.InstancedPrimitives)
	}
	return nil
}

func openBackend(name string, w, h int) (backend.Backend, error) {
	if name == "" {
		return backend.Default(w, h)
	}
	return backend.Open(name, w, h)
}

func isDeviceLost(err error) bool {
	return errors.Is(err, backend.ErrDeviceLost)
}
