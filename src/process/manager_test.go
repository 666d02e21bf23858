package process

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeService struct {
	name      string
	startErr  error
	stopPanic bool
	events    *[]string
}

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.events = append(*f.events, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	if f.stopPanic {
		panic("boom")
	}
	*f.events = append(*f.events, "stop "+f.name)
	return nil
}

func (f *fakeService) Name() string { return f.name }

func TestStartAndStopOrder(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b", "c"} {
		if err := m.Register(&fakeService{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	m.StopAll()

	want := []string{"start a", "start b", "start c", "stop c", "stop b", "stop a"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestStartAllUnwindsOnFailure(t *testing.T) {
	var events []string
	m := NewManager()
	m.Register(&fakeService{name: "a", events: &events})
	m.Register(&fakeService{name: "b", startErr: errors.New("bind refused"), events: &events})
	m.Register(&fakeService{name: "c", events: &events})

	err := m.StartAll()
	if err == nil {
		t.Fatal("expected StartAll to fail")
	}
	if !strings.Contains(err.Error(), "service b") {
		t.Fatalf("error does not name the failed service: %v", err)
	}

	want := []string{"start a", "stop a"}
	if len(events) != len(want) || events[0] != want[0] || events[1] != want[1] {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if got := m.Status()["c"]; got != StateStopped {
		t.Fatalf("service c state = %v, want stopped", got)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	var events []string
	m := NewManager()
	if err := m.Register(&fakeService{name: "a", events: &events}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(&fakeService{name: "a", events: &events}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestStatusTransitions(t *testing.T) {
	var events []string
	m := NewManager()
	m.Register(&fakeService{name: "a", events: &events})

	if got := m.Status()["a"]; got != StateStopped {
		t.Fatalf("initial state = %v, want stopped", got)
	}
	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if got := m.Status()["a"]; got != StateRunning {
		t.Fatalf("state after start = %v, want running", got)
	}
	m.StopAll()
	if got := m.Status()["a"]; got != StateStopped {
		t.Fatalf("state after stop = %v, want stopped", got)
	}
}

func TestPanickingStopDoesNotSkipOthers(t *testing.T) {
	var events []string
	m := NewManager()
	m.Register(&fakeService{name: "a", events: &events})
	m.Register(&fakeService{name: "b", stopPanic: true, events: &events})

	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	m.StopAll()

	if got := m.Status()["b"]; got != StateFailed {
		t.Fatalf("panicking service state = %v, want failed", got)
	}
	found := false
	for _, ev := range events {
		if ev == "stop a" {
			found = true
		}
	}
	if !found {
		t.Fatal("service a was never stopped after b panicked")
	}
}
