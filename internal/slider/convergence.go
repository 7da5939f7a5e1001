package slider

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// WaitRunning polls Status until the instance reports present, returning
// the first snapshot seen. The context bounds the wait; callers pick the
// timeout budget per use (create-and-wait and flex-and-wait differ).
func (c *Controller) WaitRunning(ctx context.Context, name string) (ClusterStatus, error) {
	var status ClusterStatus
	err := c.poll(ctx, name, "running", func() (bool, error) {
		snapshot, present, err := c.Status(name)
		if err != nil {
			return false, err
		}
		if present {
			status = snapshot
		}
		return present, nil
	})
	return status, err
}

// WaitStopped polls Status until the instance reports absent.
func (c *Controller) WaitStopped(ctx context.Context, name string) error {
	return c.poll(ctx, name, "stopped", func() (bool, error) {
		_, present, err := c.Status(name)
		if err != nil {
			return false, err
		}
		return !present, nil
	})
}

// WaitLive polls Status until the component's live count reaches the
// declared target, returning the converged snapshot. An absent instance
// only satisfies a target of zero.
func (c *Controller) WaitLive(ctx context.Context, name string, component string, count int) (ClusterStatus, error) {
	if component == "" {
		return ClusterStatus{}, ErrComponentRequired
	}

	var status ClusterStatus
	goal := fmt.Sprintf("%s=%d", component, count)
	err := c.poll(ctx, name, goal, func() (bool, error) {
		snapshot, present, err := c.Status(name)
		if err != nil {
			return false, err
		}
		if !present {
			return count == 0, nil
		}
		if snapshot.LiveCount(component) != count {
			return false, nil
		}
		status = snapshot
		return true, nil
	})
	return status, err
}

// poll evaluates check immediately and then on every PollInterval tick
// until it reports done, fails, or the context expires.
func (c *Controller) poll(ctx context.Context, name string, goal string, check func() (bool, error)) error {
	started := time.Now()
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			log.Info().
				Str("instance", name).
				Str("goal", goal).
				Dur("elapsed", time.Since(started)).
				Msg("convergence reached")
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf(
				"slider: waiting for %q to reach %s (%.0fs elapsed): %w",
				name, goal, time.Since(started).Seconds(), ctx.Err(),
			)
		case <-ticker.C:
		}
	}
}
