package slider

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/sliderctl/internal/observability"
	"github.com/danmuck/sliderctl/internal/remote"
)

// Slider CLI exit codes with defined meaning. Every other non-zero code
// is an opaque fatal failure.
const (
	// ExitClusterNotRunning: the stop target is not running.
	ExitClusterNotRunning = 69
	// ExitStatusUnavailable: status unavailable, the instance has not
	// come up yet or has been reaped.
	ExitStatusUnavailable = 70
	// ExitNodeUnreachable: transient node unreachability during status.
	ExitNodeUnreachable = 56
)

var (
	ErrControllerTargetRequired = errors.New("slider: controller target is required")
	ErrInstanceNameRequired     = errors.New("slider: instance name is required")
	ErrComponentRequired        = errors.New("slider: component name is required")
	ErrStatusRetriesExhausted   = errors.New("slider: status retries exhausted")
)

// ControllerConfig configures lifecycle command composition and the
// status retry protocol for one gateway host.
type ControllerConfig struct {
	// InstallRoot locates the installed Slider distribution.
	InstallRoot string
	// StagingDir is the remote scratch directory for resource files and
	// status read-back files.
	StagingDir string
	// StatusRetryLimit caps total Status attempts while the node is
	// transiently unreachable (exit 56).
	StatusRetryLimit int
	// StatusRetryDelay is the pause between those attempts. Zero retries
	// immediately, matching the tool's observed behavior.
	StatusRetryDelay time.Duration
	// PollInterval paces the convergence waiters.
	PollInterval time.Duration
}

// DefaultControllerConfig returns the shipped retry and polling policy.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		InstallRoot:      "/opt/slider",
		StagingDir:       "/tmp/sliderctl",
		StatusRetryLimit: 10,
		StatusRetryDelay: 0,
		PollInterval:     5 * time.Second,
	}
}

// Controller drives the lifecycle of named application instances through
// the Slider CLI. It holds no mutable state; operations against one
// instance are expected to be issued sequentially by the caller, and
// distinct instances may be driven concurrently.
type Controller struct {
	target remote.Target
	cfg    ControllerConfig
	cli    cli
}

// NewController binds a controller to a target, filling config zero
// values with the shipped defaults.
func NewController(target remote.Target, cfg ControllerConfig) (*Controller, error) {
	if target == nil {
		return nil, ErrControllerTargetRequired
	}
	defaults := DefaultControllerConfig()
	if strings.TrimSpace(cfg.InstallRoot) == "" {
		cfg.InstallRoot = defaults.InstallRoot
	}
	if strings.TrimSpace(cfg.StagingDir) == "" {
		cfg.StagingDir = defaults.StagingDir
	}
	if cfg.StatusRetryLimit <= 0 {
		cfg.StatusRetryLimit = defaults.StatusRetryLimit
	}
	if cfg.StatusRetryDelay < 0 {
		cfg.StatusRetryDelay = 0
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	return &Controller{
		target: target,
		cfg:    cfg,
		cli:    cli{target: target, installRoot: cfg.InstallRoot},
	}, nil
}

// Create uploads the two declarative resource documents and creates the
// instance, then confirms the transition with a liveness check. No step
// retries; the first failure propagates.
func (c *Controller) Create(name string, templatePath string, resourcesPath string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInstanceNameRequired
	}

	template := path.Join(c.cfg.StagingDir, filepath.Base(templatePath))
	resources := path.Join(c.cfg.StagingDir, filepath.Base(resourcesPath))

	if err := c.target.Upload(templatePath, template); err != nil {
		return fmt.Errorf("slider: upload template: %w", err)
	}
	if err := c.target.Upload(resourcesPath, resources); err != nil {
		return fmt.Errorf("slider: upload resources: %w", err)
	}

	log.Info().
		Str("host", c.target.Host()).
		Str("instance", name).
		Msg("creating application instance")

	if _, err := c.cli.run("create", name, "--template", template, "--resources", resources); err != nil {
		return fmt.Errorf("slider: create %q: %w", name, err)
	}

	live, err := c.Exists(name)
	if err != nil {
		return fmt.Errorf("slider: liveness check after create %q: %w", name, err)
	}
	if !live {
		return fmt.Errorf("slider: instance %q not live after create", name)
	}
	return nil
}

// Exists reports whether the named instance exists and is live. The
// defined absence codes read as a plain false; any other failure
// propagates.
func (c *Controller) Exists(name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, ErrInstanceNameRequired
	}
	if _, err := c.cli.run("exists", name, "--live"); err != nil {
		switch code, _ := remote.ExitCode(err); code {
		case ExitClusterNotRunning, ExitStatusUnavailable:
			return false, nil
		}
		return false, fmt.Errorf("slider: exists %q: %w", name, err)
	}
	return true, nil
}

// Status queries the instance once and classifies the outcome by exit
// code: success parses and returns (snapshot, true, nil); exit 70 is the
// legitimate not-running case and returns (zero, false, nil); exit 56 is
// retried up to StatusRetryLimit total attempts before escalating; any
// other failure is fatal on the first attempt.
func (c *Controller) Status(name string) (ClusterStatus, bool, error) {
	if strings.TrimSpace(name) == "" {
		return ClusterStatus{}, false, ErrInstanceNameRequired
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.StatusRetryLimit; attempt++ {
		status, present, err := c.statusOnce(name)
		if err == nil {
			return status, present, nil
		}

		code, ok := remote.ExitCode(err)
		if !ok || code != ExitNodeUnreachable {
			return ClusterStatus{}, false, fmt.Errorf("slider: status %q: %w", name, err)
		}

		lastErr = err
		observability.RecordStatusRetry()
		log.Warn().
			Str("host", c.target.Host()).
			Str("instance", name).
			Int("attempt", attempt).
			Int("limit", c.cfg.StatusRetryLimit).
			Msg("node unreachable during status, retrying")

		if attempt < c.cfg.StatusRetryLimit && c.cfg.StatusRetryDelay > 0 {
			time.Sleep(c.cfg.StatusRetryDelay)
		}
	}

	return ClusterStatus{}, false, fmt.Errorf(
		"%w: %d attempts against %q: %w",
		ErrStatusRetriesExhausted, c.cfg.StatusRetryLimit, name, lastErr,
	)
}

// statusOnce performs one status round: write the document remotely, read
// it back, parse, and best-effort remove the file.
func (c *Controller) statusOnce(name string) (ClusterStatus, bool, error) {
	outFile := path.Join(
		c.cfg.StagingDir,
		fmt.Sprintf("status-%s-%s.json", name, uuid.NewString()),
	)

	if _, err := c.cli.run("status", name, "--out", outFile); err != nil {
		if code, ok := remote.ExitCode(err); ok && code == ExitStatusUnavailable {
			return ClusterStatus{}, false, nil
		}
		return ClusterStatus{}, false, err
	}

	text, err := c.target.Execute(remote.Line("cat", outFile))
	if err != nil {
		return ClusterStatus{}, false, fmt.Errorf("read status document %s: %w", outFile, err)
	}

	// Scratch file; losing the removal only leaks a staging entry.
	if _, err := c.target.Execute(remote.Line("rm", "-f", outFile)); err != nil {
		log.Debug().Str("file", outFile).Err(err).Msg("status document cleanup failed")
	}

	status, err := ParseClusterStatus(text)
	if err != nil {
		return ClusterStatus{}, false, err
	}
	return status, true, nil
}

// Stop halts a running instance. Stopping an already-stopped or absent
// instance fails with exit 69; callers needing idempotence wrap this
// (Cleanup does).
func (c *Controller) Stop(name string, force bool) error {
	if strings.TrimSpace(name) == "" {
		return ErrInstanceNameRequired
	}
	args := []string{name}
	if force {
		args = append(args, "--force")
	}
	if _, err := c.cli.run("stop", args...); err != nil {
		return fmt.Errorf("slider: stop %q: %w", name, err)
	}
	return nil
}

// Destroy removes a stopped instance definition. Failures propagate
// uninterpreted.
func (c *Controller) Destroy(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInstanceNameRequired
	}
	if _, err := c.cli.run("destroy", name); err != nil {
		return fmt.Errorf("slider: destroy %q: %w", name, err)
	}
	return nil
}

// Cleanup is the best-effort teardown: force-stop tolerating the
// not-running code as a warning, then destroy tolerating any failure as
// a warning. Only a stop failure with an unexpected code is returned,
// since it means the instance may still be holding cluster resources.
func (c *Controller) Cleanup(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInstanceNameRequired
	}

	if err := c.Stop(name, true); err != nil {
		code, ok := remote.ExitCode(err)
		if !ok || code != ExitClusterNotRunning {
			return fmt.Errorf("slider: cleanup %q: %w", name, err)
		}
		log.Warn().
			Str("instance", name).
			Msg("cleanup: instance already stopped")
	}

	if err := c.Destroy(name); err != nil {
		// Already destroyed and never created are indistinguishable
		// here; neither should block teardown.
		log.Warn().
			Str("instance", name).
			Err(err).
			Msg("cleanup: destroy failed")
	}
	return nil
}

// Flex declares a new desired live count for one component and returns
// without waiting. Convergence is observed separately through Status or
// the Wait helpers.
func (c *Controller) Flex(name string, component string, count int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInstanceNameRequired
	}
	if strings.TrimSpace(component) == "" {
		return ErrComponentRequired
	}

	log.Info().
		Str("instance", name).
		Str("component", component).
		Int("count", count).
		Msg("flexing component")

	if _, err := c.cli.run("flex", name, "--component", component, strconv.Itoa(count)); err != nil {
		return fmt.Errorf("slider: flex %q component %q: %w", name, component, err)
	}
	return nil
}
