package slider

import (
	"errors"
	"reflect"
	"testing"
)

const statusFixture = `{
  "name": "presto1",
  "status": {
    "live": {
      "COORDINATOR": {
        "container_e01_01": {"host": "node-a.test"}
      },
      "WORKER": {
        "container_e01_02": {"host": "node-c.test"},
        "container_e01_03": {"host": "node-b.test"}
      }
    }
  }
}`

func TestParseClusterStatus(t *testing.T) {
	status, err := ParseClusterStatus(statusFixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if status.Name != "presto1" {
		t.Fatalf("unexpected name %q", status.Name)
	}
	if status.CoordinatorHost() != "node-a.test" {
		t.Fatalf("unexpected coordinator %q", status.CoordinatorHost())
	}
	if got := status.LiveCount(ComponentWorker); got != 2 {
		t.Fatalf("worker count = %d, want 2", got)
	}
	if got := status.WorkerHosts(); !reflect.DeepEqual(got, []string{"node-b.test", "node-c.test"}) {
		t.Fatalf("worker hosts = %v, want sorted list", got)
	}
}

func TestParseClusterStatusToleratesReadBackNoise(t *testing.T) {
	noisy := "reading status file...\n" + statusFixture + "\ndone.\n"
	status, err := ParseClusterStatus(noisy)
	if err != nil {
		t.Fatalf("parse noisy: %v", err)
	}
	if status.LiveCount(ComponentCoordinator) != 1 {
		t.Fatalf("coordinator lost in noisy parse: %+v", status)
	}
}

func TestParseClusterStatusEmptyLiveSection(t *testing.T) {
	status, err := ParseClusterStatus(`{"name": "presto1", "status": {}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status.LiveCount(ComponentWorker) != 0 {
		t.Fatalf("expected zero live workers")
	}
	if status.CoordinatorHost() != "" {
		t.Fatalf("expected no coordinator, got %q", status.CoordinatorHost())
	}
	if status.WorkerHosts() != nil {
		t.Fatalf("expected nil worker hosts")
	}
}

func TestParseClusterStatusRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "no json here", "{truncated"} {
		if _, err := ParseClusterStatus(text); !errors.Is(err, ErrStatusUnparseable) {
			t.Fatalf("expected ErrStatusUnparseable for %q, got %v", text, err)
		}
	}
}
