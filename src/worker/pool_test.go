package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsJob(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan struct{})
	if !p.Submit(func() { close(done) }) {
		t.Fatal("submit into an idle pool should succeed")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestSubmitDropsWhenBusy(t *testing.T) {
	p := New(1)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-block
	})
	<-started

	// Worker is occupied; one job fits the queue slot, the next drops.
	if !p.Submit(func() {}) {
		t.Error("queue slot should accept one job")
	}
	if p.Submit(func() {}) {
		t.Error("second queued job should be dropped")
	}

	close(block)
}

func TestCloseDrainsPendingWork(t *testing.T) {
	p := New(1)

	var ran atomic.Int32
	p.Submit(func() { ran.Add(1) })
	p.Submit(func() { ran.Add(1) })
	p.Close()

	if got := ran.Load(); got == 0 {
		t.Error("close must wait for accepted jobs")
	}
}

func TestJobPanicDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Close()

	p.Submit(func() { panic("encode failed") })

	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		if p.Submit(func() { close(done) }) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a panicking job")
	}
}
