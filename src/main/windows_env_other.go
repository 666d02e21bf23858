//go:build !windows

package main

// enableDPIAwareness is a no-op off Windows; ebiten handles display
// scaling itself there.
func enableDPIAwareness() {}

func logMonitorConfiguration() {}

// overlayRaiser returns nil off Windows; restoring the window already
// takes focus on these platforms.
func overlayRaiser(string) func() { return nil }
