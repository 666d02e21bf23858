//go:build windows

package notification

import (
	"syscall"

	"github.com/lxn/win"
)

func showBlockingError(title, message string) {
	t, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	m, err := syscall.UTF16PtrFromString(message)
	if err != nil {
		return
	}
	win.MessageBox(0, m, t, win.MB_OK|win.MB_ICONERROR|win.MB_SETFOREGROUND)
}
