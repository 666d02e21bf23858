package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"
)

// systray is a process-wide singleton, so readiness is tracked at
// package level. Tooltip updates before onReady are dropped.
var (
	readyOnce sync.Once
	ready     = make(chan struct{})
)

// Config wires the tray menu to the application.
type Config struct {
	Tooltip string
	OnShow  func()
	OnQuit  func()
}

// Tray owns the system tray icon and its menu.
type Tray struct {
	cfg  Config
	done chan struct{}
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg, done: make(chan struct{})}
}

// Run enters the systray message loop and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	readyOnce.Do(func() { close(ready) })
	systray.SetIcon(Icon())
	systray.SetTitle("Screen Zoomer")
	systray.SetTooltip(t.cfg.Tooltip)

	mShow := systray.AddMenuItem("Show overlay", "Freeze the screen and zoom into it")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit Screen Zoomer")

	go func() {
		for {
			select {
			case <-mShow.ClickedCh:
				log.Printf("tray: show requested")
				if t.cfg.OnShow != nil {
					t.cfg.OnShow()
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	close(t.done)
	if t.cfg.OnQuit != nil {
		t.cfg.OnQuit()
	}
}

// Quit dismisses the tray icon and unblocks Run.
func (t *Tray) Quit() { systray.Quit() }

// Done is closed when the tray loop exits.
func (t *Tray) Done() <-chan struct{} { return t.done }

// SetTooltip updates the hover text, used to surface the last notice.
func SetTooltip(tt string) {
	select {
	case <-ready:
		systray.SetTooltip(tt)
	default:
	}
}
