// Command snapshot renders the hero scene at one layout width and time into a
// PNG file, replaying the frames before it at 60 Hz so the camera has eased
// the same way it would in a live run.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"heroscene/asset"
	"heroscene/hal"
	"heroscene/scene"
)

func main() {
	var (
		width   = flag.Int("width", 1024, "Layout width; selects the viewport class.")
		at      = flag.Float64("t", 3, "Scene time in seconds.")
		out     = flag.String("out", "hero.png", "Output PNG path.")
		model   = flag.String("model", "", "Model file path or http(s) URL.")
		seed    = flag.Uint64("seed", 1, "Seed for particle placement.")
		fbW     = flag.Int("fbw", 480, "Framebuffer width.")
		fbH     = flag.Int("fbh", 280, "Framebuffer height.")
		timeout = flag.Duration("timeout", 30*time.Second, "Model load timeout.")
	)
	flag.Parse()

	if err := run(*width, scene.Tick(*at), *out, *model, *seed, *fbW, *fbH, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(width int, at scene.Tick, out, model string, seed uint64, fbW, fbH int, timeout time.Duration) error {
	h := hal.New(hal.HostConfig{Width: fbW, Height: fbH, LayoutWidth: width, Log: os.Stderr})

	opts := scene.Options{Logger: h.Logger(), Seed: seed, Workers: 4}
	if model != "" {
		opts.Model = asset.Source{Ref: model}
	}
	d := scene.NewDriver(h.Display(), opts)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Initialize(ctx, scene.ClassForWidth(width)); err != nil {
		return err
	}
	defer d.Teardown()

	select {
	case <-d.Loaded():
	case <-ctx.Done():
	}

	lw, lh := h.Viewport().Size()
	const step = scene.Tick(1.0 / 60)
	for t := scene.Tick(0); t < at; t += step {
		d.OnFrame(scene.Frame{Tick: t, Width: lw, Height: lh})
	}
	d.OnFrame(scene.Frame{Tick: at, Width: lw, Height: lh})

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writePNG(f, h.Display().Framebuffer()); err != nil {
		return err
	}
	s := d.Snapshot()
	h.Logger().WriteLineString(fmt.Sprintf("snapshot: %s class, %d particles, %d shapes, model=%v -> %s",
		s.Class, s.Particles, s.Shapes, s.Model, out))
	return f.Close()
}

func writePNG(w io.Writer, fb hal.Framebuffer) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	stride := fb.StrideBytes()
	buf := fb.Buffer()
	for y := 0; y < fb.Height(); y++ {
		row := buf[y*stride : y*stride+fb.Width()*2]
		hal.RGB565ToRGBA(img.Pix[y*img.Stride:(y+1)*img.Stride], row)
	}
	return png.Encode(w, img)
}
