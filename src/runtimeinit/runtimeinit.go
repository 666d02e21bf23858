// Package runtimeinit performs the startup sequence shared by the
// resident overlay: configuration, logging, hotkey parsing, and
// clipboard setup.
package runtimeinit

import (
	"fmt"
	"image"
	"log"

	"screen-zoomer/src/clipboard"
	"screen-zoomer/src/config"
	"screen-zoomer/src/hotkey"
)

type Options struct {
	SetupLogging func(enableFileLogging bool)
}

// Bundle carries the validated startup state into the event loop
// wiring.
type Bundle struct {
	Cfg   *config.Config
	Combo hotkey.Combination

	// Copy writes an image to the clipboard; nil when the clipboard
	// could not be initialized.
	Copy func(img image.Image) error
}

// Bootstrap loads and validates everything the resident needs before
// any window or listener exists. A dead clipboard is downgraded to a
// warning; everything else is fatal to the caller.
func Bootstrap(opts Options) (*Bundle, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	combo, err := hotkey.Parse(cfg.Hotkey)
	if err != nil {
		return nil, fmt.Errorf("invalid HOTKEY %q: %w", cfg.Hotkey, err)
	}

	b := &Bundle{Cfg: cfg, Combo: combo, Copy: clipboard.WriteImage}
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable, copy disabled: %v", err)
		b.Copy = nil
	}
	return b, nil
}
