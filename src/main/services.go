package main

import (
	"context"
	"log"

	"screen-zoomer/src/hotkey"
	"screen-zoomer/src/singleinstance"
	"screen-zoomer/src/tray"
)

// hotkeyService owns the global hotkey hook.
type hotkeyService struct {
	combo  hotkey.Combination
	onFire func()
	mgr    *hotkey.Manager
}

func (s *hotkeyService) Start(ctx context.Context) error {
	s.mgr = hotkey.Listen(s.combo, s.onFire)
	return nil
}

func (s *hotkeyService) Stop() error {
	if s.mgr != nil {
		s.mgr.Stop()
	}
	return nil
}

func (s *hotkeyService) Name() string { return "hotkey" }

// instanceService owns the single-instance port and feeds accepted
// show requests to the event loop.
type instanceService struct {
	server singleinstance.Server
	onShow func()
}

func (s *instanceService) Start(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return err
	}
	log.Printf("Single-instance server on port %d", s.server.Port())
	go serveShowRequests(ctx, s.server, s.onShow)
	return nil
}

func (s *instanceService) Stop() error { return s.server.Close() }

func (s *instanceService) Name() string { return "singleinstance" }

// serveShowRequests turns accepted single-instance connections into
// show events.
func serveShowRequests(ctx context.Context, server singleinstance.Server, show func()) {
	for {
		conn, err := server.Next(ctx)
		if err != nil {
			return
		}
		show()
		if err := conn.Ack(); err != nil {
			log.Printf("singleinstance: ack failed: %v", err)
		}
		_ = conn.Close()
	}
}

// trayService runs the systray message loop on its own goroutine.
type trayService struct {
	tray *tray.Tray
}

func (s *trayService) Start(ctx context.Context) error {
	go s.tray.Run()
	return nil
}

func (s *trayService) Stop() error {
	s.tray.Quit()
	return nil
}

func (s *trayService) Name() string { return "tray" }
