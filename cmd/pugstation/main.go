package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-pugstation/pugstation"
	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/backend/headless"
	"github.com/valerio/go-pugstation/pugstation/backend/sdl2"
	"github.com/valerio/go-pugstation/pugstation/backend/terminal"
	"github.com/valerio/go-pugstation/pugstation/timing"
)

const defaultBatch = 100000

func main() {
	app := cli.NewApp()
	app.Name = "Pugstation"
	app.Description = "A PlayStation CPU, DMA and GPU command emulator"
	app.Usage = "pugstation [options] <BIOS file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "bios",
			Usage: "Path to the 512 KiB BIOS image",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without an interface",
		},
		cli.IntFlag{
			Name:  "instructions",
			Usage: "Number of instructions to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "batch",
			Usage: "Instructions executed between frontend updates",
			Value: defaultBatch,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive frontend: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale for the sdl2 frontend",
			Value: 2,
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Run the built-in test pattern program instead of a BIOS",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction at debug level",
		},
		cli.StringFlag{
			Name:  "dump",
			Usage: "Headless mode: write the recorded draw calls and final state as YAML",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	biosPath := c.String("bios")
	if biosPath == "" && c.NArg() > 0 {
		biosPath = c.Args().Get(0)
	}
	if biosPath == "" && !c.Bool("test-pattern") {
		cli.ShowAppHelp(c)
		return errors.New("no BIOS path provided")
	}

	batch := c.Int("batch")
	if batch <= 0 {
		return fmt.Errorf("--batch must be positive, got %d", batch)
	}

	headlessMode := c.Bool("headless")
	if !headlessMode && !c.IsSet("backend") && !term.IsTerminal(int(os.Stdout.Fd())) {
		slog.Info("Output is not a terminal, running headless")
		headlessMode = true
	}

	var (
		b       backend.Backend
		limiter timing.Limiter
	)
	if headlessMode {
		instructions := c.Int("instructions")
		if instructions <= 0 {
			return errors.New("headless mode requires --instructions option with a positive value")
		}
		level := slog.LevelInfo
		if c.Bool("trace") {
			level = slog.LevelDebug
		}
		b = headless.New(uint64(instructions),
			headless.WithLogLevel(level),
			headless.WithDump(c.String("dump")))
		batch = min(batch, instructions)
		limiter = timing.NewNoOpLimiter()
	} else {
		var err error
		b, err = newInteractiveBackend(c.String("backend"))
		if err != nil {
			return err
		}
		limiter = timing.NewAdaptiveLimiter(timing.BatchDuration(batch))
	}

	config := backend.Config{
		Title:     "Pugstation",
		Scale:     c.Int("scale"),
		ShowDebug: true,
	}
	if err := b.Init(config); err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	// backends may install their own log handler on Init
	opts := []pugstation.Option{
		pugstation.WithLogger(slog.Default()),
		pugstation.WithTrace(c.Bool("trace")),
	}

	var (
		emu *pugstation.Emulator
		err error
	)
	if c.Bool("test-pattern") {
		slog.Info("Running in test pattern mode")
		emu, err = pugstation.NewTestPattern(b.Renderer(), opts...)
	} else {
		emu, err = pugstation.NewWithFile(biosPath, b.Renderer(), opts...)
	}
	if err != nil {
		return err
	}

	return emu.Run(b, batch, limiter)
}

func newInteractiveBackend(name string) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q, expected terminal or sdl2", name)
}
