package singleinstance

// This file defines the API for single-instance ownership and show delegation.

import (
	"context"
)

// Server owns the loopback TCP endpoint that marks this process as the
// resident overlay and receives show requests from later launches.
type Server interface {
	// Start begins listening on the start port of the configured range
	// and accepting client requests.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted show request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one pending show request awaiting a response.
type Conn interface {
	// Ack confirms the overlay was asked to show.
	Ack() error
	// Fail reports that the request could not be honored.
	Fail(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Client delegates a show request to a resident overlay.
type Client interface {
	// TryShow scans the configured TCP range, performs the handshake,
	// and asks the resident overlay to appear. If no resident is found,
	// returns delegated=false, err=nil.
	TryShow(ctx context.Context) (delegated bool, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
