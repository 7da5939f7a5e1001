package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns the starter document for a config kind: "config" is
// the sliderctl TOML file, "appconfig" and "resources" the two Slider
// JSON documents an instance is created from.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "config":
		return configTemplate, nil
	case "appconfig":
		return appConfigTemplate, nil
	case "resources":
		return resourcesTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const configTemplate = `[target]
mode = "ssh"
host = "gateway.example.com"
port = "22"
user = "yarn"
key = "~/.ssh/id_ed25519"
# known_hosts = "~/.ssh/known_hosts"
insecure = false
connect_timeout = "10s"

[slider]
install_root = "/opt/slider"
staging_dir = "/tmp/sliderctl"
conf_source = "conf"
archive = "dist/slider-0.92.0-incubating.tar.gz"
replace_packages = true
force_reinstall = false

[package]
artifact = "dist/presto-yarn-package.zip"
name = "PRESTO"

[cluster]
name = "presto1"
template = "conf/appConfig.json"
resources = "conf/resources.json"
status_retry_limit = 10
status_retry_delay = "0s"
poll_interval = "5s"
wait_timeout = "15m"
`

const appConfigTemplate = `{
  "schema": "http://example.org/specification/v2.0.0",
  "metadata": {},
  "global": {
    "site.global.app_user": "yarn",
    "site.global.user_group": "hadoop",
    "site.global.data_dir": "/var/lib/presto/data",
    "site.global.config_dir": "/var/lib/presto/etc",
    "site.global.singlenode": "false",
    "site.global.coordinator_host": "${COORDINATOR_HOST}",
    "site.global.presto_query_max_memory": "50GB",
    "site.global.presto_query_max_memory_per_node": "1GB",
    "site.global.presto_server_port": "8080",
    "application.def": ".slider/package/PRESTO/presto-yarn-package.zip",
    "java_home": "/usr/lib/jvm/java"
  },
  "components": {
    "slider-appmaster": {
      "jvm.heapsize": "128M"
    }
  }
}
`

const resourcesTemplate = `{
  "schema": "http://example.org/specification/v2.0.0",
  "metadata": {},
  "global": {},
  "components": {
    "slider-appmaster": {},
    "COORDINATOR": {
      "yarn.role.priority": "1",
      "yarn.component.instances": "1",
      "yarn.component.placement.policy": "1",
      "yarn.memory": "1500"
    },
    "WORKER": {
      "yarn.role.priority": "2",
      "yarn.component.instances": "2",
      "yarn.component.placement.policy": "1",
      "yarn.memory": "1500"
    }
  }
}
`
