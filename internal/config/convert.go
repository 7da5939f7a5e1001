package config

import (
	"strings"

	"github.com/danmuck/sliderctl/internal/remote"
	"github.com/danmuck/sliderctl/internal/slider"
)

// Target builds the remote channel the configuration describes.
func Target(cfg Config) (remote.Target, error) {
	if strings.TrimSpace(cfg.Target.Mode) == "local" {
		return remote.LocalTarget{}, nil
	}
	return remote.NewSSHTarget(remote.SSHConfig{
		Host:                        cfg.Target.Host,
		Port:                        cfg.Target.Port,
		User:                        cfg.Target.User,
		KeyPath:                     cfg.Target.KeyPath,
		KnownHostsPath:              cfg.Target.KnownHosts,
		InsecureSkipHostKeyChecking: cfg.Target.Insecure,
		ConnectTimeout:              cfg.Target.ConnectTimeout,
	})
}

func InstallerConfig(cfg Config) slider.InstallerConfig {
	return slider.InstallerConfig{
		InstallRoot:     cfg.Slider.InstallRoot,
		StagingDir:      cfg.Slider.StagingDir,
		ConfSourceDir:   cfg.Slider.ConfSource,
		ReplacePackages: cfg.Slider.ReplacePackages,
		ForceReinstall:  cfg.Slider.ForceReinstall,
	}
}

func ControllerConfig(cfg Config) slider.ControllerConfig {
	return slider.ControllerConfig{
		InstallRoot:      cfg.Slider.InstallRoot,
		StagingDir:       cfg.Slider.StagingDir,
		StatusRetryLimit: cfg.Cluster.StatusRetryLimit,
		StatusRetryDelay: cfg.Cluster.StatusRetryDelay,
		PollInterval:     cfg.Cluster.PollInterval,
	}
}

func DeploymentConfig(cfg Config) slider.DeploymentConfig {
	return slider.DeploymentConfig{
		SliderArchive:   cfg.Slider.Archive,
		PackageArtifact: cfg.Package.Artifact,
		PackageName:     cfg.Package.Name,
		ClusterName:     cfg.Cluster.Name,
		TemplatePath:    cfg.Cluster.Template,
		ResourcesPath:   cfg.Cluster.Resources,
	}
}
