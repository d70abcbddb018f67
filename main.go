package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"heroscene/app"
	"heroscene/hal"
)

func main() {
	var host hal.HostConfig
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var resizes string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&resizes, "resize", "", "Headless layout width changes as tick:width[,tick:width...].")
	flag.IntVar(&host.LayoutWidth, "width", 1024, "Initial layout width in logical pixels.")
	flag.IntVar(&host.LayoutHeight, "height", 600, "Initial layout height in logical pixels.")
	flag.IntVar(&host.Width, "fbw", 480, "Framebuffer width.")
	flag.IntVar(&host.Height, "fbh", 280, "Framebuffer height.")
	flag.StringVar(&appCfg.Model, "model", "", "Model file path or http(s) URL (.glb/.gltf).")
	flag.Uint64Var(&appCfg.Seed, "seed", 1, "Seed for particle placement.")
	flag.IntVar(&appCfg.Workers, "workers", 2, "Point projection workers.")
	flag.BoolVar(&appCfg.HUD, "hud", false, "Show the status line (F1 toggles).")
	flag.Parse()

	var err error
	if cfg.Resizes, err = hal.ParseResizes(resizes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	newApp := func(h hal.HAL) (hal.App, error) {
		a, err := app.New(h, appCfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, host, cfg, newApp); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(host, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
