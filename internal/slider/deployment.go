package slider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sliderctl/internal/remote"
)

var ErrDeploymentIncomplete = errors.New("slider: deployment config incomplete")

// DeploymentConfig names everything one full bring-up needs.
type DeploymentConfig struct {
	// SliderArchive is the local distribution tarball. Empty skips the
	// distribution install step (assumes a prepared host).
	SliderArchive string
	// PackageArtifact and PackageName identify the application package.
	PackageArtifact string
	PackageName     string
	// ClusterName, TemplatePath and ResourcesPath define the instance.
	ClusterName   string
	TemplatePath  string
	ResourcesPath string
	// UninstallPackageOnTeardown also deletes the registered package
	// during Teardown.
	UninstallPackageOnTeardown bool
}

// Deployment composes installer and controller into the standard
// bring-up: install tool, install package, create instance, wait for it
// to run. Each step is individually idempotent where its component is.
type Deployment struct {
	installer  *Installer
	controller *Controller
	cfg        DeploymentConfig
}

// NewDeployment validates the plan and binds it to the two components.
func NewDeployment(installer *Installer, controller *Controller, cfg DeploymentConfig) (*Deployment, error) {
	if installer == nil || controller == nil {
		return nil, ErrDeploymentIncomplete
	}
	for field, value := range map[string]string{
		"package_artifact": cfg.PackageArtifact,
		"package_name":     cfg.PackageName,
		"cluster_name":     cfg.ClusterName,
		"template":         cfg.TemplatePath,
		"resources":        cfg.ResourcesPath,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: missing %s", ErrDeploymentIncomplete, field)
		}
	}
	return &Deployment{installer: installer, controller: controller, cfg: cfg}, nil
}

// Up runs the bring-up sequence and returns the first running snapshot.
// The context bounds only the convergence wait; the imperative steps are
// synchronous round trips. Failures propagate from the failing step.
func (d *Deployment) Up(ctx context.Context) (ClusterStatus, error) {
	if d.cfg.SliderArchive != "" {
		if err := d.installer.Install(d.cfg.SliderArchive); err != nil {
			return ClusterStatus{}, err
		}
	}

	if _, err := d.installer.InstallPackage(d.cfg.PackageArtifact, d.cfg.PackageName); err != nil {
		return ClusterStatus{}, err
	}

	if err := d.controller.Create(d.cfg.ClusterName, d.cfg.TemplatePath, d.cfg.ResourcesPath); err != nil {
		return ClusterStatus{}, err
	}

	status, err := d.controller.WaitRunning(ctx, d.cfg.ClusterName)
	if err != nil {
		return ClusterStatus{}, err
	}

	log.Info().
		Str("instance", d.cfg.ClusterName).
		Str("coordinator", status.CoordinatorHost()).
		Int("workers", status.LiveCount(ComponentWorker)).
		Msg("deployment up")
	return status, nil
}

// Teardown runs the best-effort cleanup and optionally removes the
// package registration. Like Cleanup it only reports the stop failure
// that indicates resources may still be held.
func (d *Deployment) Teardown() error {
	if err := d.controller.Cleanup(d.cfg.ClusterName); err != nil {
		return err
	}

	if d.cfg.UninstallPackageOnTeardown {
		if err := d.installer.UninstallPackage(d.cfg.PackageName); err != nil {
			if code, ok := remote.ExitCode(err); ok {
				log.Warn().
					Str("package", d.cfg.PackageName).
					Int("exit", code).
					Msg("teardown: package uninstall failed")
			} else {
				log.Warn().
					Str("package", d.cfg.PackageName).
					Err(err).
					Msg("teardown: package uninstall failed")
			}
		}
	}
	return nil
}
