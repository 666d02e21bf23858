//go:build !windows

package notification

// The shared path already logs; there is no portable blocking dialog
// worth carrying here.
func showBlockingError(title, message string) {}
