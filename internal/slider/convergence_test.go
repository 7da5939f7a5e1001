package slider

import (
	"context"
	"errors"
	"testing"
	"time"
)

const oneWorkerFixture = `{
  "name": "presto1",
  "status": {
    "live": {
      "COORDINATOR": {"container_e01_01": {"host": "node-a.test"}},
      "WORKER": {"container_e01_02": {"host": "node-b.test"}}
    }
  }
}`

func TestWaitRunningReturnsFirstSnapshot(t *testing.T) {
	target := &fakeTarget{}
	target.queue(
		exit(ExitStatusUnavailable), // not up yet
		exit(ExitStatusUnavailable),
	)
	target.queue(presentStatus(statusFixture)...)
	controller := newTestController(t, target, ControllerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status, err := controller.WaitRunning(ctx, "presto1")
	if err != nil {
		t.Fatalf("wait running: %v", err)
	}
	if status.CoordinatorHost() != "node-a.test" {
		t.Fatalf("unexpected snapshot: %+v", status)
	}
	if got := countVerb(target.commands, "status"); got != 3 {
		t.Fatalf("expected 3 polls, got %d", got)
	}
}

func TestWaitStoppedPollsUntilAbsent(t *testing.T) {
	target := &fakeTarget{}
	target.queue(presentStatus(statusFixture)...)
	target.queue(presentStatus(statusFixture)...)
	target.queue(exit(ExitStatusUnavailable))
	controller := newTestController(t, target, ControllerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := controller.WaitStopped(ctx, "presto1"); err != nil {
		t.Fatalf("wait stopped: %v", err)
	}
	if got := countVerb(target.commands, "status"); got != 3 {
		t.Fatalf("expected 3 polls, got %d", got)
	}
}

func TestWaitLiveConvergesOnDeclaredCount(t *testing.T) {
	target := &fakeTarget{}
	target.queue(presentStatus(oneWorkerFixture)...)
	target.queue(presentStatus(oneWorkerFixture)...)
	target.queue(presentStatus(statusFixture)...) // two workers
	controller := newTestController(t, target, ControllerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status, err := controller.WaitLive(ctx, "presto1", ComponentWorker, 2)
	if err != nil {
		t.Fatalf("wait live: %v", err)
	}
	if status.LiveCount(ComponentWorker) != 2 {
		t.Fatalf("converged snapshot has %d workers", status.LiveCount(ComponentWorker))
	}
}

func TestWaitLiveZeroSatisfiedByAbsence(t *testing.T) {
	target := &fakeTarget{}
	target.queue(exit(ExitStatusUnavailable))
	controller := newTestController(t, target, ControllerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := controller.WaitLive(ctx, "presto1", ComponentWorker, 0); err != nil {
		t.Fatalf("absent instance should satisfy a zero target: %v", err)
	}
}

func TestWaitRespectsContextExpiry(t *testing.T) {
	target := &fakeTarget{}
	for i := 0; i < 100; i++ {
		target.queue(presentStatus(statusFixture)...)
	}
	controller := newTestController(t, target, ControllerConfig{PollInterval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := controller.WaitStopped(ctx, "presto1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestWaitPropagatesStatusFailures(t *testing.T) {
	target := &fakeTarget{}
	target.queue(exit(1))
	controller := newTestController(t, target, ControllerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := controller.WaitRunning(ctx, "presto1"); err == nil {
		t.Fatalf("expected fatal status failure to abort the wait")
	}
}
