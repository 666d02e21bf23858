//go:build windows

package main

import (
	"log"
	"syscall"

	"github.com/lxn/win"
)

// enableDPIAwareness attempts to set per-monitor DPI awareness so the
// overlay covers the virtual screen 1:1 on scaled displays.
func enableDPIAwareness() {
	shcore := syscall.NewLazyDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: Successfully set per-monitor DPI awareness")
		} else {
			log.Printf("DPI: Failed to set per-monitor DPI awareness, error code: %d", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	user32 := syscall.NewLazyDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err == nil {
		ret, _, _ := setProcessDPIAware.Call()
		if ret != 0 {
			log.Printf("DPI: Successfully set system DPI awareness (fallback)")
		} else {
			log.Printf("DPI: Failed to set system DPI awareness (fallback)")
		}
	} else {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
	}
}

func logMonitorConfiguration() {
	user32 := syscall.NewLazyDLL("user32.dll")
	getSystemMetrics := user32.NewProc("GetSystemMetrics")

	smCMonitors := 80 // SM_CMONITORS
	ret, _, _ := getSystemMetrics.Call(uintptr(smCMonitors))
	log.Printf("MONITOR: Detected %d monitors", int(ret))

	smXVirtualScreen := 76  // SM_XVIRTUALSCREEN
	smYVirtualScreen := 77  // SM_YVIRTUALSCREEN
	smCXVirtualScreen := 78 // SM_CXVIRTUALSCREEN
	smCYVirtualScreen := 79 // SM_CYVIRTUALSCREEN

	vx, _, _ := getSystemMetrics.Call(uintptr(smXVirtualScreen))
	vy, _, _ := getSystemMetrics.Call(uintptr(smYVirtualScreen))
	vw, _, _ := getSystemMetrics.Call(uintptr(smCXVirtualScreen))
	vh, _, _ := getSystemMetrics.Call(uintptr(smCYVirtualScreen))
	log.Printf("MONITOR: Virtual screen - x:%d y:%d w:%d h:%d", vx, vy, vw, vh)
}

// overlayRaiser returns a func that pulls the overlay window to the
// foreground. Restoring a minimized window does not reliably take
// focus on Windows while another app is foreground.
func overlayRaiser(title string) func() {
	return func() {
		name, err := syscall.UTF16PtrFromString(title)
		if err != nil {
			return
		}
		hwnd := win.FindWindow(nil, name)
		if hwnd == 0 {
			log.Printf("raise: window %q not found", title)
			return
		}
		if win.IsIconic(hwnd) {
			win.ShowWindow(hwnd, win.SW_RESTORE)
		}
		win.SetForegroundWindow(hwnd)
	}
}
