package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full sliderctl configuration, decoded from one TOML file.
type Config struct {
	Target  TargetConfig
	Slider  SliderConfig
	Package PackageConfig
	Cluster ClusterConfig
}

// TargetConfig identifies the gateway host and how to reach it.
type TargetConfig struct {
	// Mode selects the channel: "ssh" or "local".
	Mode           string
	Host           string
	Port           string
	User           string
	KeyPath        string
	KnownHosts     string
	Insecure       bool
	ConnectTimeout time.Duration
}

// SliderConfig locates the Slider distribution on both sides.
type SliderConfig struct {
	InstallRoot     string
	StagingDir      string
	ConfSource      string
	Archive         string
	ReplacePackages bool
	ForceReinstall  bool
}

// PackageConfig names the application package artifact.
type PackageConfig struct {
	Artifact string
	Name     string
}

// ClusterConfig names the application instance and its polling policy.
type ClusterConfig struct {
	Name             string
	Template         string
	Resources        string
	StatusRetryLimit int
	StatusRetryDelay time.Duration
	PollInterval     time.Duration
	WaitTimeout      time.Duration
}

// Default returns the shipped configuration; Load overlays a file on it.
func Default() Config {
	return Config{
		Target: TargetConfig{
			Mode:           "ssh",
			Port:           "22",
			ConnectTimeout: 10 * time.Second,
		},
		Slider: SliderConfig{
			InstallRoot:     "/opt/slider",
			StagingDir:      "/tmp/sliderctl",
			ConfSource:      "conf",
			ReplacePackages: true,
		},
		Cluster: ClusterConfig{
			StatusRetryLimit: 10,
			StatusRetryDelay: 0,
			PollInterval:     5 * time.Second,
			WaitTimeout:      15 * time.Minute,
		},
	}
}

// fileConfig mirrors the TOML document. Durations are strings so config
// files read "30s", not nanosecond counts.
type fileConfig struct {
	Target struct {
		Mode           string `toml:"mode"`
		Host           string `toml:"host"`
		Port           string `toml:"port"`
		User           string `toml:"user"`
		Key            string `toml:"key"`
		KnownHosts     string `toml:"known_hosts"`
		Insecure       bool   `toml:"insecure"`
		ConnectTimeout string `toml:"connect_timeout"`
	} `toml:"target"`
	Slider struct {
		InstallRoot     string `toml:"install_root"`
		StagingDir      string `toml:"staging_dir"`
		ConfSource      string `toml:"conf_source"`
		Archive         string `toml:"archive"`
		ReplacePackages bool   `toml:"replace_packages"`
		ForceReinstall  bool   `toml:"force_reinstall"`
	} `toml:"slider"`
	Package struct {
		Artifact string `toml:"artifact"`
		Name     string `toml:"name"`
	} `toml:"package"`
	Cluster struct {
		Name             string `toml:"name"`
		Template         string `toml:"template"`
		Resources        string `toml:"resources"`
		StatusRetryLimit int    `toml:"status_retry_limit"`
		StatusRetryDelay string `toml:"status_retry_delay"`
		PollInterval     string `toml:"poll_interval"`
		WaitTimeout      string `toml:"wait_timeout"`
	} `toml:"cluster"`
}

// Load decodes path over the defaults. Only keys present in the file
// override; everything decoded is then validated.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("target", "mode") {
		cfg.Target.Mode = strings.TrimSpace(raw.Target.Mode)
	}
	if meta.IsDefined("target", "host") {
		cfg.Target.Host = strings.TrimSpace(raw.Target.Host)
	}
	if meta.IsDefined("target", "port") {
		cfg.Target.Port = strings.TrimSpace(raw.Target.Port)
	}
	if meta.IsDefined("target", "user") {
		cfg.Target.User = strings.TrimSpace(raw.Target.User)
	}
	if meta.IsDefined("target", "key") {
		cfg.Target.KeyPath = strings.TrimSpace(raw.Target.Key)
	}
	if meta.IsDefined("target", "known_hosts") {
		cfg.Target.KnownHosts = strings.TrimSpace(raw.Target.KnownHosts)
	}
	if meta.IsDefined("target", "insecure") {
		cfg.Target.Insecure = raw.Target.Insecure
	}
	if meta.IsDefined("target", "connect_timeout") {
		d, err := parseDuration("target.connect_timeout", raw.Target.ConnectTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.Target.ConnectTimeout = d
	}

	if meta.IsDefined("slider", "install_root") {
		cfg.Slider.InstallRoot = strings.TrimSpace(raw.Slider.InstallRoot)
	}
	if meta.IsDefined("slider", "staging_dir") {
		cfg.Slider.StagingDir = strings.TrimSpace(raw.Slider.StagingDir)
	}
	if meta.IsDefined("slider", "conf_source") {
		cfg.Slider.ConfSource = strings.TrimSpace(raw.Slider.ConfSource)
	}
	if meta.IsDefined("slider", "archive") {
		cfg.Slider.Archive = strings.TrimSpace(raw.Slider.Archive)
	}
	if meta.IsDefined("slider", "replace_packages") {
		cfg.Slider.ReplacePackages = raw.Slider.ReplacePackages
	}
	if meta.IsDefined("slider", "force_reinstall") {
		cfg.Slider.ForceReinstall = raw.Slider.ForceReinstall
	}

	if meta.IsDefined("package", "artifact") {
		cfg.Package.Artifact = strings.TrimSpace(raw.Package.Artifact)
	}
	if meta.IsDefined("package", "name") {
		cfg.Package.Name = strings.TrimSpace(raw.Package.Name)
	}

	if meta.IsDefined("cluster", "name") {
		cfg.Cluster.Name = strings.TrimSpace(raw.Cluster.Name)
	}
	if meta.IsDefined("cluster", "template") {
		cfg.Cluster.Template = strings.TrimSpace(raw.Cluster.Template)
	}
	if meta.IsDefined("cluster", "resources") {
		cfg.Cluster.Resources = strings.TrimSpace(raw.Cluster.Resources)
	}
	if meta.IsDefined("cluster", "status_retry_limit") {
		cfg.Cluster.StatusRetryLimit = raw.Cluster.StatusRetryLimit
	}
	if meta.IsDefined("cluster", "status_retry_delay") {
		d, err := parseDuration("cluster.status_retry_delay", raw.Cluster.StatusRetryDelay)
		if err != nil {
			return Config{}, err
		}
		cfg.Cluster.StatusRetryDelay = d
	}
	if meta.IsDefined("cluster", "poll_interval") {
		d, err := parseDuration("cluster.poll_interval", raw.Cluster.PollInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.Cluster.PollInterval = d
	}
	if meta.IsDefined("cluster", "wait_timeout") {
		d, err := parseDuration("cluster.wait_timeout", raw.Cluster.WaitTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.Cluster.WaitTimeout = d
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields every command needs. Per-command inputs
// (archive, package, cluster definition) are checked where they are used.
func Validate(cfg Config) error {
	switch strings.TrimSpace(cfg.Target.Mode) {
	case "local":
	case "ssh":
		if strings.TrimSpace(cfg.Target.Host) == "" {
			return fmt.Errorf("target.host is required in ssh mode")
		}
		if strings.TrimSpace(cfg.Target.User) == "" {
			return fmt.Errorf("target.user is required in ssh mode")
		}
		if strings.TrimSpace(cfg.Target.KeyPath) == "" {
			return fmt.Errorf("target.key is required in ssh mode")
		}
	default:
		return fmt.Errorf("target.mode must be \"ssh\" or \"local\", got %q", cfg.Target.Mode)
	}

	if strings.TrimSpace(cfg.Slider.InstallRoot) == "" {
		return fmt.Errorf("slider.install_root is required")
	}
	if strings.TrimSpace(cfg.Slider.StagingDir) == "" {
		return fmt.Errorf("slider.staging_dir is required")
	}
	if cfg.Cluster.StatusRetryLimit <= 0 {
		return fmt.Errorf("cluster.status_retry_limit must be positive")
	}
	if cfg.Cluster.StatusRetryDelay < 0 {
		return fmt.Errorf("cluster.status_retry_delay must not be negative")
	}
	if cfg.Cluster.PollInterval <= 0 {
		return fmt.Errorf("cluster.poll_interval must be positive")
	}
	if cfg.Cluster.WaitTimeout <= 0 {
		return fmt.Errorf("cluster.wait_timeout must be positive")
	}
	return nil
}

func parseDuration(key string, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
