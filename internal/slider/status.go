package slider

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Well-known component roles of the packaged application.
const (
	ComponentCoordinator = "COORDINATOR"
	ComponentWorker      = "WORKER"
)

var ErrStatusUnparseable = errors.New("slider: status document unparseable")

// ClusterStatus is one point-in-time snapshot of an application instance,
// parsed from the status document Slider writes with --out. It is never
// cached; every Status call produces a fresh one.
type ClusterStatus struct {
	Name string
	// Live maps component name to container id to host.
	Live map[string]map[string]string
}

type statusDocument struct {
	Name   string `json:"name"`
	Status struct {
		Live map[string]map[string]struct {
			Host string `json:"host"`
		} `json:"live"`
	} `json:"status"`
}

// ParseClusterStatus decodes a status document read back from the remote
// file. The text is a file read-back rather than direct stdout, so
// anything outside the outermost braces is discarded before decoding.
func ParseClusterStatus(text string) (ClusterStatus, error) {
	body, err := extractJSONBody(text)
	if err != nil {
		return ClusterStatus{}, err
	}

	var doc statusDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return ClusterStatus{}, fmt.Errorf("%w: %v", ErrStatusUnparseable, err)
	}

	status := ClusterStatus{
		Name: doc.Name,
		Live: make(map[string]map[string]string, len(doc.Status.Live)),
	}
	for component, containers := range doc.Status.Live {
		hosts := make(map[string]string, len(containers))
		for id, container := range containers {
			hosts[id] = container.Host
		}
		status.Live[component] = hosts
	}
	return status, nil
}

func extractJSONBody(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in %q", ErrStatusUnparseable, strings.TrimSpace(text))
	}
	return text[start : end+1], nil
}

// LiveCount reports how many containers of a component are live.
func (s ClusterStatus) LiveCount(component string) int {
	return len(s.Live[component])
}

// LiveHosts lists the hosts running a component, sorted for stable output.
func (s ClusterStatus) LiveHosts(component string) []string {
	containers := s.Live[component]
	if len(containers) == 0 {
		return nil
	}
	hosts := make([]string, 0, len(containers))
	for _, host := range containers {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// CoordinatorHost returns the host of the single coordinator, or "" when
// none is live yet.
func (s ClusterStatus) CoordinatorHost() string {
	hosts := s.LiveHosts(ComponentCoordinator)
	if len(hosts) == 0 {
		return ""
	}
	return hosts[0]
}

// WorkerHosts lists the hosts with a live worker.
func (s ClusterStatus) WorkerHosts() []string {
	return s.LiveHosts(ComponentWorker)
}
