package slider

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sliderctl/internal/observability"
	"github.com/danmuck/sliderctl/internal/remote"
)

var (
	ErrInstallerTargetRequired = errors.New("slider: installer target is required")
	ErrArchiveRequired         = errors.New("slider: archive path is required")
	ErrArtifactRequired        = errors.New("slider: artifact path is required")
	ErrPackageNameRequired     = errors.New("slider: package name is required")
	ErrChecksumMismatch        = errors.New("slider: checksum mismatch after upload")
)

// confFiles are the fixed client configuration files placed under
// <install root>/conf during distribution install.
var confFiles = []string{
	"slider-client.xml",
	"log4j.properties",
	"slider-env.sh",
}

// InstallerConfig configures distribution and package installation on one
// gateway host.
type InstallerConfig struct {
	// InstallRoot is the remote directory the Slider distribution is
	// unpacked into; <InstallRoot>/bin/slider must be the CLI entrypoint.
	InstallRoot string
	// StagingDir is the remote scratch directory archives and packages
	// are uploaded to.
	StagingDir string
	// ConfSourceDir is the local directory holding the client
	// configuration files uploaded into <InstallRoot>/conf.
	ConfSourceDir string
	// ReplacePackages adds --replacepkg to package installs so a
	// same-name package is overwritten instead of rejected.
	ReplacePackages bool
	// ForceReinstall makes Install redo the distribution install even
	// when the probe reports it present. Heals the partial state where
	// the binary unpacked but configuration upload failed.
	ForceReinstall bool
}

// DefaultInstallerConfig returns the shipped install layout.
func DefaultInstallerConfig() InstallerConfig {
	return InstallerConfig{
		InstallRoot:     "/opt/slider",
		StagingDir:      "/tmp/sliderctl",
		ConfSourceDir:   "conf",
		ReplacePackages: true,
	}
}

// Installer places the Slider distribution and application packages on a
// gateway host. Both operations are idempotent: the distribution install
// is gated on a probe, package installs on a content checksum.
type Installer struct {
	target remote.Target
	cfg    InstallerConfig
	cli    cli
}

// NewInstaller validates the layout and binds the installer to a target.
func NewInstaller(target remote.Target, cfg InstallerConfig) (*Installer, error) {
	if target == nil {
		return nil, ErrInstallerTargetRequired
	}
	if strings.TrimSpace(cfg.InstallRoot) == "" {
		cfg.InstallRoot = DefaultInstallerConfig().InstallRoot
	}
	if strings.TrimSpace(cfg.StagingDir) == "" {
		cfg.StagingDir = DefaultInstallerConfig().StagingDir
	}
	return &Installer{
		target: target,
		cfg:    cfg,
		cli:    cli{target: target, installRoot: cfg.InstallRoot},
	}, nil
}

// IsInstalled probes the distribution with a harmless help invocation.
// Any failure at all, including transport failure, reads as not installed.
func (i *Installer) IsInstalled() bool {
	_, err := i.cli.run("help")
	return err == nil
}

// Install places the Slider distribution on the target: upload the
// archive, unpack it into the install root, upload the client
// configuration files. A host that already answers the probe is left
// untouched unless ForceReinstall is set. There is no rollback; a partial
// failure leaves the host for a later Install call to heal, which works
// because every step overwrites its own output.
func (i *Installer) Install(archivePath string) error {
	if strings.TrimSpace(archivePath) == "" {
		return ErrArchiveRequired
	}

	if i.IsInstalled() && !i.cfg.ForceReinstall {
		log.Info().
			Str("host", i.target.Host()).
			Str("install_root", i.cfg.InstallRoot).
			Msg("slider already installed, skipping")
		return nil
	}

	staged := path.Join(i.cfg.StagingDir, filepath.Base(archivePath))
	log.Info().
		Str("host", i.target.Host()).
		Str("archive", archivePath).
		Str("staged", staged).
		Msg("installing slider distribution")

	if err := i.target.Upload(archivePath, staged); err != nil {
		return fmt.Errorf("slider: upload distribution archive: %w", err)
	}

	unpack := fmt.Sprintf(
		"mkdir -p %s && tar -xzf %s -C %s --strip-components=1",
		remote.Quote(i.cfg.InstallRoot),
		remote.Quote(staged),
		remote.Quote(i.cfg.InstallRoot),
	)
	if _, err := i.target.Execute(unpack); err != nil {
		return fmt.Errorf("slider: unpack distribution: %w", err)
	}

	confDir := path.Join(i.cfg.InstallRoot, "conf")
	for _, name := range confFiles {
		local := filepath.Join(i.cfg.ConfSourceDir, name)
		if err := i.target.Upload(local, path.Join(confDir, name)); err != nil {
			return fmt.Errorf("slider: upload configuration %s: %w", name, err)
		}
	}

	log.Info().
		Str("host", i.target.Host()).
		Str("install_root", i.cfg.InstallRoot).
		Msg("slider distribution installed")
	return nil
}

// InstallPackage registers an application package with Slider, uploading
// the artifact only when the remote copy's checksum differs from the
// local one. A mismatch that survives the upload is reported as
// ErrChecksumMismatch and never retried. Returns the package name.
func (i *Installer) InstallPackage(artifactPath string, name string) (string, error) {
	if strings.TrimSpace(artifactPath) == "" {
		return "", ErrArtifactRequired
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrPackageNameRequired
	}

	local, err := localChecksum(artifactPath)
	if err != nil {
		return "", err
	}

	staged := path.Join(i.cfg.StagingDir, filepath.Base(artifactPath))
	current, present, err := remoteChecksum(i.target, staged)
	if err != nil {
		return "", err
	}

	if present && current == local {
		observability.RecordPackageUpload("skipped")
		log.Info().
			Str("host", i.target.Host()).
			Str("package", name).
			Str("checksum", local).
			Msg("package artifact unchanged, skipping upload")
	} else {
		log.Info().
			Str("host", i.target.Host()).
			Str("package", name).
			Str("artifact", artifactPath).
			Bool("remote_present", present).
			Msg("uploading package artifact")
		if err := i.target.Upload(artifactPath, staged); err != nil {
			observability.RecordPackageUpload("failed")
			return "", fmt.Errorf("slider: upload package artifact: %w", err)
		}
		observability.RecordPackageUpload("uploaded")

		verified, _, err := remoteChecksum(i.target, staged)
		if err != nil {
			return "", err
		}
		if verified != local {
			return "", fmt.Errorf(
				"%w: local=%s remote=%s path=%s",
				ErrChecksumMismatch, local, verified, staged,
			)
		}
	}

	args := []string{"--install", "--name", name, "--package", staged}
	if i.cfg.ReplacePackages {
		args = append(args, "--replacepkg")
	}
	if _, err := i.cli.run("package", args...); err != nil {
		return "", fmt.Errorf("slider: install package %q: %w", name, err)
	}

	log.Info().
		Str("host", i.target.Host()).
		Str("package", name).
		Msg("package installed")
	return name, nil
}

// UninstallPackage removes a registered package. Failures propagate
// uninterpreted.
func (i *Installer) UninstallPackage(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrPackageNameRequired
	}
	if _, err := i.cli.run("package", "--delete", "--name", name); err != nil {
		return fmt.Errorf("slider: uninstall package %q: %w", name, err)
	}
	return nil
}
