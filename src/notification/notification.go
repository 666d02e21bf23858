// Package notification surfaces fatal startup errors to the user. The
// resident runs without a console, so logging alone is invisible.
package notification

import "log"

// ShowBlockingError reports a fatal error and, where the platform has
// a native dialog, blocks until the user dismisses it.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
	showBlockingError(title, message)
}
