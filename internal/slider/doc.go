// Package slider drives the Apache Slider CLI on a cluster gateway host.
//
// Ownership boundary:
// - one-time Slider distribution install (probe-gated)
// - content-addressed application package install with post-upload verify
// - application instance lifecycle: create, status, stop, destroy, flex
// - bounded-retry status polling and caller-timeout convergence waits
//
// All cluster state lives on the remote side; every operation here is a
// stateless round trip through a remote.Target. Exit codes from the Slider
// CLI are the only signal of cluster state and are mapped to recovery
// behavior in exactly one place (Status).
package slider
