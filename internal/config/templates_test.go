package config

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, "config", false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Cluster.Name != "presto1" || cfg.Package.Name != "PRESTO" {
		t.Fatalf("unexpected template values: %+v", cfg)
	}
}

func TestJSONTemplatesParse(t *testing.T) {
	for _, kind := range []string{"appconfig", "resources"} {
		text, err := Template(kind)
		if err != nil {
			t.Fatalf("template %s: %v", kind, err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			t.Fatalf("%s template is not valid JSON: %v", kind, err)
		}
		if _, ok := doc["components"]; !ok {
			t.Fatalf("%s template missing components section", kind)
		}
	}
}

func TestResourcesTemplateNamesBothRoles(t *testing.T) {
	text, err := Template("resources")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	var doc struct {
		Components map[string]map[string]string `json:"components"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, role := range []string{"COORDINATOR", "WORKER"} {
		if _, ok := doc.Components[role]; !ok {
			t.Fatalf("resources template missing %s", role)
		}
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, "config", false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteTemplate(path, "config", false); err == nil {
		t.Fatalf("expected refusal without force")
	}
	if err := WriteTemplate(path, "config", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}

func TestTemplateUnknownKind(t *testing.T) {
	if _, err := Template("yaml"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
