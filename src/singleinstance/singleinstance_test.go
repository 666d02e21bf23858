package singleinstance

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

// isolatePorts points the scan range at a throwaway port so parallel
// test runs and real residents cannot interfere.
func isolatePorts(t *testing.T, start int) {
	t.Helper()
	os.Setenv("SCREEN_ZOOMER_PORT_START", strconv.Itoa(start))
	os.Setenv("SCREEN_ZOOMER_PORT_END", strconv.Itoa(start+2))
	t.Cleanup(func() {
		os.Unsetenv("SCREEN_ZOOMER_PORT_START")
		os.Unsetenv("SCREEN_ZOOMER_PORT_END")
	})
}

func TestServerClientRoundTrip(t *testing.T) {
	isolatePorts(t, 50810)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer srv.Close()

	client := NewClient()
	delegatedCh := make(chan struct{})
	go func() {
		defer close(delegatedCh)
		delegated, err := client.TryShow(ctx)
		if err != nil {
			t.Errorf("client: %v", err)
		}
		if !delegated {
			t.Errorf("expected delegation to the resident")
		}
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := conn.Ack(); err != nil {
		t.Fatalf("ack: %v", err)
	}
	conn.Close()
	<-delegatedCh
}

func TestClientGetsFailureMessage(t *testing.T) {
	isolatePorts(t, 50820)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer srv.Close()

	client := NewClient()
	errCh := make(chan error, 1)
	go func() {
		delegated, err := client.TryShow(ctx)
		if !delegated {
			t.Errorf("expected delegation even on failure")
		}
		errCh <- err
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := conn.Fail("capture in progress"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	conn.Close()

	if err := <-errCh; err == nil || err.Error() != "capture in progress" {
		t.Errorf("expected the failure message, got %v", err)
	}
}

func TestTryShowWithoutResident(t *testing.T) {
	isolatePorts(t, 50830)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	delegated, err := NewClient().TryShow(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delegated {
		t.Error("no resident should be found on an isolated range")
	}
}

func TestDetectResidentPort(t *testing.T) {
	isolatePorts(t, 50840)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, found := DetectResidentPort(ctx); found {
		t.Fatal("expected no resident before the server starts")
	}

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer srv.Close()

	port, found := DetectResidentPort(ctx)
	if !found {
		t.Fatal("expected to find the resident")
	}
	if port != srv.Port() {
		t.Errorf("expected port %d, got %d", srv.Port(), port)
	}
}

func TestSecondServerCannotBind(t *testing.T) {
	isolatePorts(t, 50850)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := NewServer()
	if err := first.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer first.Close()

	second := NewServer()
	if err := second.Start(ctx); err == nil {
		second.Close()
		t.Error("second resident must fail to bind the start port")
	}
}
