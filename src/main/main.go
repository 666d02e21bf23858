package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"screen-zoomer/src/capture"
	"screen-zoomer/src/config"
	"screen-zoomer/src/eventloop"
	"screen-zoomer/src/highlight"
	"screen-zoomer/src/hud"
	"screen-zoomer/src/input"
	"screen-zoomer/src/logutil"
	"screen-zoomer/src/notification"
	"screen-zoomer/src/overlay"
	"screen-zoomer/src/process"
	"screen-zoomer/src/render"
	"screen-zoomer/src/runtimeinit"
	"screen-zoomer/src/singleinstance"
	"screen-zoomer/src/tray"
	"screen-zoomer/src/viewport"
	"screen-zoomer/src/worker"
)

const windowTitle = "Screen Zoomer Overlay"

const delegationTimeout = 3 * time.Second

// showClient is the slice of singleinstance.Client the delegation path
// needs; narrowed so tests can fake it.
type showClient interface {
	TryShow(ctx context.Context) (bool, error)
}

// handleShowDelegation asks a resident overlay to appear. fallback runs
// when no resident answered or the delegation failed.
func handleShowDelegation(ctx context.Context, client showClient, fallback func()) {
	delegated, err := client.TryShow(ctx)
	if err != nil {
		log.Printf("Delegation error: %v; starting standalone", err)
		fallback()
		return
	}
	if delegated {
		log.Printf("Delegated show to resident overlay")
		return
	}
	log.Printf("No resident overlay detected, starting standalone")
	fallback()
}

// fatal reports a startup error where the user can see it and exits.
// The resident normally runs without a console.
func fatal(title, format string, args ...interface{}) {
	notification.ShowBlockingError(title, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics.
	enableDPIAwareness()

	// The game loop must stay on the main OS thread.
	runtime.LockOSThread()

	showNow := flag.Bool("show", false, "Show the overlay of a running instance, or start one and show it immediately")
	flag.Parse()

	// Load .env early so SCREEN_ZOOMER_PORT_* apply to the pre-flight scan.
	_, _ = config.Load()

	if *showNow {
		ctx, cancel := context.WithTimeout(context.Background(), delegationTimeout)
		defer cancel()
		handleShowDelegation(ctx, singleinstance.NewClient(), func() {
			runResident(true)
		})
		return
	}

	// Pre-flight: bind the start port once. If it is busy a resident
	// already exists and this launch becomes a show request.
	startPort, _ := singleinstance.GetPortRangeForDebug()
	addr := fmt.Sprintf("127.0.0.1:%d", startPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("Pre-flight: port %d busy, resident already exists", startPort)
		fmt.Printf("screen-zoomer is already running; asking it to show\n")
		ctx, cancel := context.WithTimeout(context.Background(), delegationTimeout)
		defer cancel()
		delegated, err := singleinstance.NewClient().TryShow(ctx)
		if err != nil || !delegated {
			log.Printf("Show delegation failed: delegated=%v err=%v", delegated, err)
			os.Exit(1)
		}
		return
	}
	// We claimed the port; release it so the resident server can re-bind.
	_ = listener.Close()
	log.Printf("Pre-flight: port %d free, we are the resident", startPort)

	runResident(false)
}

// runResident starts the tray, hotkey, single-instance server, and the
// overlay event loop, and blocks until quit.
func runResident(showOnStart bool) {
	boot, err := runtimeinit.Bootstrap(runtimeinit.Options{SetupLogging: logutil.Setup})
	if err != nil {
		fatal("Screen Zoomer cannot start", "%v", err)
	}
	cfg := boot.Cfg

	log.Printf("Screen Zoomer starting")
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("Zoom range: %.2fx..%.2fx, step %.2f", cfg.ZoomMin, cfg.ZoomMax, cfg.ZoomStep)

	if vb, err := capture.VirtualBounds(); err == nil {
		log.Printf("Virtual screen: %v", vb)
	} else {
		log.Printf("Virtual screen unavailable: %v", err)
	}
	logMonitorConfiguration()

	rend, err := render.New()
	if err != nil {
		fatal("Screen Zoomer cannot start", "Failed to build renderer: %v", err)
	}

	vp := viewport.New(viewport.Limits{
		MinZoom: cfg.ZoomMin,
		MaxZoom: cfg.ZoomMax,
		Step:    cfg.ZoomStep,
	})
	spot := highlight.New(highlight.Options{
		MinRadius:     cfg.RadiusMin,
		MaxRadius:     cfg.RadiusMax,
		DefaultRadius: cfg.RadiusDefault,
		Step:          cfg.RadiusStep,
		SmoothLength:  cfg.SmoothLength,
		SmoothRate:    cfg.SmoothRate,
	})
	hudView := hud.New()
	pool := worker.New(1)
	defer pool.Close()

	router := input.NewRouter(eventloop.NewPoller())
	surface := eventloop.NewSurface(rend, overlayRaiser(windowTitle))
	grabber := capture.NewGrabber(cfg.MaxTextureDim)
	notify := func(msg string) {
		hudView.Notify(msg)
		tray.SetTooltip(msg)
		log.Printf("notice: %s", msg)
	}
	control := overlay.New(grabber, surface, vp, spot, notify)

	loop := eventloop.New(eventloop.Options{
		Router:   router,
		Control:  control,
		Renderer: rend,
		View:     vp,
		Spot:     spot,
		HUD:      hudView,
		Pool:     pool,
		Copy:     boot.Copy,
		Conceal:  ebiten.MinimizeWindow,
		TPS:      cfg.TPS,
	})

	requestShow := func() {
		router.Inject(input.Event{Kind: input.KindShow})
	}

	services := process.NewManager()
	services.Register(&instanceService{server: singleinstance.NewServer(), onShow: requestShow})
	services.Register(&hotkeyService{combo: boot.Combo, onFire: func() {
		log.Printf("Hotkey %s pressed", boot.Combo)
		requestShow()
	}})
	services.Register(&trayService{tray: tray.New(tray.Config{
		Tooltip: fmt.Sprintf("Screen Zoomer - press %s to magnify", cfg.Hotkey),
		OnShow:  requestShow,
		OnQuit:  loop.RequestQuit,
	})})

	if err := services.StartAll(); err != nil {
		fatal("Screen Zoomer cannot start", "%v", err)
	}
	defer services.StopAll()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		s := <-ch
		log.Printf("Signal %v, shutting down", s)
		loop.RequestQuit()
	}()

	if showOnStart {
		requestShow()
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(640, 480)
	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGameWithOptions(loop, &ebiten.RunGameOptions{
		InitUnfocused: true,
		SkipTaskbar:   true,
	}); err != nil {
		log.Printf("event loop stopped: %v", err)
	}
	log.Printf("Screen Zoomer exiting")
}
